// internal/app/features/groups/groupview.go
package groups

import (
	"context"
	"net/http"
	"sort"

	"github.com/wakaladigital/wakala/internal/app/apiclient"
	uierrors "github.com/wakaladigital/wakala/internal/app/features/errors"
	"github.com/wakaladigital/wakala/internal/app/forms"
	"github.com/wakaladigital/wakala/internal/app/system/authz"
	"github.com/wakaladigital/wakala/internal/app/system/display"
	"github.com/wakaladigital/wakala/internal/app/system/formutil"
	"github.com/wakaladigital/wakala/internal/app/system/timeouts"
	"github.com/wakaladigital/wakala/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// recentContributions is how many contributions the detail page lists.
const recentContributions = 5

// loadGroupView fetches the group, its investments and its contributions
// concurrently. Only a failure to load the group itself is returned; the
// two lists degrade to a notice.
func (h *Handler) loadGroupView(ctx context.Context, r *http.Request, api *apiclient.Client, id int64) (groupViewData, error) {
	var (
		group              models.SavingsGroup
		investments        []models.Investment
		contributions      []models.Contribution
		invErr, contribErr error
		eg                 errgroup.Group
	)
	eg.Go(func() error {
		var err error
		group, err = api.GetGroup(ctx, id)
		return err
	})
	eg.Go(func() error {
		investments, invErr = api.ListInvestments(ctx, id)
		return nil
	})
	eg.Go(func() error {
		contributions, contribErr = api.ListContributions(ctx, id)
		return nil
	})
	if err := eg.Wait(); err != nil {
		return groupViewData{}, err
	}

	_, userID, _ := authz.UserCtx(r)
	data := groupViewData{
		GroupID:     group.ID,
		Name:        group.Name,
		Description: describe(group),
		Risk:        group.RiskTolerance.Label(),
		RiskClass:   group.RiskTolerance.BadgeClass(),
		Balance:     display.Money(group.TotalBalance),
		MemberCount: group.MemberCount(),
		Tier:        models.TierLabel(group.TierLevel),
		CanInvest:   group.CanInvest(),
		IsMember:    isMember(group, userID),
	}
	formutil.SetBase(&data.Base, r, group.Name, "/groups")

	if invErr != nil {
		h.Log.Warn("list investments failed", zap.Int64("group_id", id), zap.Error(invErr))
		data.InvestmentsError = "Failed to load investments."
	}
	for _, inv := range investments {
		data.Investments = append(data.Investments, newInvestmentRow(inv))
	}

	if contribErr != nil {
		h.Log.Warn("list contributions failed", zap.Int64("group_id", id), zap.Error(contribErr))
		data.ContributionsError = "Failed to load contributions."
	}
	sort.SliceStable(contributions, func(i, j int) bool {
		return contributions[i].Timestamp.After(contributions[j].Timestamp)
	})
	if len(contributions) > recentContributions {
		contributions = contributions[:recentContributions]
	}
	for _, c := range contributions {
		data.Contributions = append(data.Contributions, newContributionRow(c))
	}
	return data, nil
}

func (h *Handler) renderGroupView(w http.ResponseWriter, r *http.Request, data groupViewData) {
	data.TransactionTypes = transactionOptions(data.Contribution.TransactionType)
	h.Render(w, r, "group_view", data)
}

// ServeGroupView renders a group's detail page.
func (h *Handler) ServeGroupView(w http.ResponseWriter, r *http.Request) {
	api, ok := authz.APIFor(r, h.API)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	id, ok := groupID(r)
	if !ok {
		uierrors.RenderNotFound(w, r, "Group not found.", "/groups")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data, err := h.loadGroupView(ctx, r, api, id)
	if err != nil {
		h.ErrLog.LogAPIError(w, r, "load group failed", err, "Failed to load group.", "/groups")
		return
	}
	data.Contribution = forms.NewContributionDraft()
	h.renderGroupView(w, r, data)
}
