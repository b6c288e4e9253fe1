package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/wakaladigital/wakala/internal/app/system/display"
	"github.com/wakaladigital/wakala/internal/domain/models"
	"golang.org/x/sync/errgroup"
)

// recentContributions is how many contributions groups show prints.
const recentContributions = 5

func newGroupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "List and inspect savings groups",
	}
	cmd.AddCommand(newGroupsListCmd(), newGroupsShowCmd())
	return cmd
}

func newGroupsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List savings groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env := envFrom(cmd)
			ctx, cancel := env.withTimeout(cmd.Context())
			defer cancel()

			groups, err := env.Client.ListGroups(ctx)
			if err != nil {
				return fmt.Errorf("list groups: %w", err)
			}
			if env.Output == OutputJSON {
				return printJSON(env.Out, groups)
			}
			if len(groups) == 0 {
				fmt.Fprintln(env.Out, "No savings groups yet.")
				return nil
			}

			rows := make([][]string, 0, len(groups))
			for _, g := range groups {
				rows = append(rows, []string{
					strconv.FormatInt(g.ID, 10),
					g.Name,
					display.Count(g.MemberCount()),
					riskText(g.RiskTolerance),
					display.Money(g.TotalBalance),
					strconv.Itoa(g.TierLevel),
				})
			}
			return printTable(env.Out, []string{"ID", "Name", "Members", "Risk", "Balance", "Tier"}, rows)
		},
	}
}

type groupDetail struct {
	Group         models.SavingsGroup   `json:"group"`
	Investments   []models.Investment   `json:"investments"`
	Contributions []models.Contribution `json:"recent_contributions"`
}

func newGroupsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a group with its investments and recent contributions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			env := envFrom(cmd)
			ctx, cancel := env.withTimeout(cmd.Context())
			defer cancel()

			var d groupDetail
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				d.Group, err = env.Client.GetGroup(gctx, id)
				return err
			})
			g.Go(func() error {
				var err error
				d.Investments, err = env.Client.ListInvestments(gctx, id)
				return err
			})
			g.Go(func() error {
				var err error
				d.Contributions, err = env.Client.ListContributions(gctx, id)
				return err
			})
			if err := g.Wait(); err != nil {
				return fmt.Errorf("load group %d: %w", id, err)
			}

			sort.SliceStable(d.Contributions, func(i, j int) bool {
				return d.Contributions[i].Timestamp.After(d.Contributions[j].Timestamp)
			})
			if len(d.Contributions) > recentContributions {
				d.Contributions = d.Contributions[:recentContributions]
			}
			if d.Investments == nil {
				d.Investments = []models.Investment{}
			}
			if d.Contributions == nil {
				d.Contributions = []models.Contribution{}
			}

			if env.Output == OutputJSON {
				return printJSON(env.Out, d)
			}

			facts := [][]string{
				{"Name", d.Group.Name},
				{"Risk", riskText(d.Group.RiskTolerance)},
				{"Tier", models.TierLabel(d.Group.TierLevel)},
				{"Balance", display.Money(d.Group.TotalBalance)},
				{"Members", display.Count(d.Group.MemberCount())},
			}
			if d.Group.Description != "" {
				facts = append(facts, []string{"Description", d.Group.Description})
			}
			if err := printTable(env.Out, []string{"Group", strconv.FormatInt(d.Group.ID, 10)}, facts); err != nil {
				return err
			}

			if len(d.Investments) == 0 {
				fmt.Fprintln(env.Out, "No investments yet.")
			} else if err := printTable(env.Out, investmentHeaders, investmentRows(d.Investments, nil)); err != nil {
				return err
			}

			if len(d.Contributions) == 0 {
				fmt.Fprintln(env.Out, "No contributions yet.")
				return nil
			}
			rows := make([][]string, 0, len(d.Contributions))
			for _, c := range d.Contributions {
				rows = append(rows, []string{
					display.Date(c.Timestamp),
					c.TransactionType.Label(),
					display.Money(c.Amount),
				})
			}
			return printTable(env.Out, []string{"Date", "Type", "Amount"}, rows)
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
