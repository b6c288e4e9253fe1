// internal/app/portfolio/loader.go
//
// Package portfolio assembles the cross-entity views: the dashboard snapshot,
// its activity feed, and the summary counters.
package portfolio

import (
	"context"
	"errors"
	"fmt"

	"github.com/wakaladigital/wakala/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxConcurrency bounds the per-group investment fetches.
const DefaultMaxConcurrency = 8

// Source is the subset of the API the loader reads from.
// *apiclient.Client satisfies it.
type Source interface {
	ListGroups(ctx context.Context) ([]models.SavingsGroup, error)
	ListLoans(ctx context.Context) ([]models.Loan, error)
	ListInvestments(ctx context.Context, groupID int64) ([]models.Investment, error)
}

// Snapshot is one load of the caller's groups, loans and investments.
// Each source succeeds or fails on its own; a nil error means the slice is
// complete for that source.
type Snapshot struct {
	Groups      []models.SavingsGroup
	Loans       []models.Loan
	Investments []models.Investment

	GroupsErr      error
	LoansErr       error
	InvestmentsErr error
}

// Complete reports whether every source loaded.
func (s Snapshot) Complete() bool {
	return s.GroupsErr == nil && s.LoansErr == nil && s.InvestmentsErr == nil
}

// ErrGroupsUnavailable is recorded as InvestmentsErr when the group list
// itself failed, since investments are fetched per group.
var ErrGroupsUnavailable = errors.New("portfolio: investments need the group list")

// Loader fetches a Snapshot in two stages: groups and loans together, then
// every group's investments together.
type Loader struct {
	Source         Source
	Log            *zap.Logger
	MaxConcurrency int
}

// NewLoader returns a Loader with the default concurrency bound.
func NewLoader(src Source, logger *zap.Logger) *Loader {
	return &Loader{Source: src, Log: logger, MaxConcurrency: DefaultMaxConcurrency}
}

// Load fetches the snapshot. It never returns partial investments: if any
// group's investment list fails, Investments is nil and InvestmentsErr is set.
// Cancelling ctx aborts every in-flight request.
func (l *Loader) Load(ctx context.Context) Snapshot {
	log := l.Log
	if log == nil {
		log = zap.NewNop()
	}

	var snap Snapshot

	// Stage 1: the two lists are independent, so neither failure cancels the other.
	var g errgroup.Group
	g.Go(func() error {
		snap.Groups, snap.GroupsErr = l.Source.ListGroups(ctx)
		if snap.GroupsErr != nil {
			log.Warn("portfolio: groups unavailable", zap.Error(snap.GroupsErr))
		}
		return nil
	})
	g.Go(func() error {
		snap.Loans, snap.LoansErr = l.Source.ListLoans(ctx)
		if snap.LoansErr != nil {
			log.Warn("portfolio: loans unavailable", zap.Error(snap.LoansErr))
		}
		return nil
	})
	_ = g.Wait()

	if snap.GroupsErr != nil {
		snap.Groups = nil
		snap.InvestmentsErr = ErrGroupsUnavailable
		return snap
	}
	if snap.LoansErr != nil {
		snap.Loans = nil
	}

	// Stage 2: waits on the group list.
	invs, err := l.loadInvestments(ctx, snap.Groups)
	if err != nil {
		log.Warn("portfolio: investments unavailable",
			zap.Int("groups", len(snap.Groups)),
			zap.Error(err))
		snap.InvestmentsErr = err
		return snap
	}
	snap.Investments = invs
	return snap
}

// LoadInvestments fetches the group list and then every group's
// investments, skipping loans. Like Load it is all-or-nothing: on error the
// investments slice is nil.
func (l *Loader) LoadInvestments(ctx context.Context) ([]models.SavingsGroup, []models.Investment, error) {
	groups, err := l.Source.ListGroups(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list groups: %w", err)
	}
	invs, err := l.loadInvestments(ctx, groups)
	if err != nil {
		return groups, nil, err
	}
	return groups, invs, nil
}

// loadInvestments fetches each group's investments concurrently and flattens
// them in group order. The first failure cancels the remaining fetches.
func (l *Loader) loadInvestments(ctx context.Context, groups []models.SavingsGroup) ([]models.Investment, error) {
	if len(groups) == 0 {
		return []models.Investment{}, nil
	}

	limit := l.MaxConcurrency
	if limit <= 0 {
		limit = DefaultMaxConcurrency
	}

	perGroup := make([][]models.Investment, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, grp := range groups {
		g.Go(func() error {
			invs, err := l.Source.ListInvestments(gctx, grp.ID)
			if err != nil {
				return fmt.Errorf("group %d investments: %w", grp.ID, err)
			}
			perGroup[i] = invs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, invs := range perGroup {
		total += len(invs)
	}
	out := make([]models.Investment, 0, total)
	for _, invs := range perGroup {
		out = append(out, invs...)
	}
	return out, nil
}
