package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/wakaladigital/wakala/internal/app/portfolio"
	"github.com/wakaladigital/wakala/internal/app/system/display"
	"github.com/wakaladigital/wakala/internal/domain/models"
)

type dashboardJSON struct {
	TotalGroups          *int             `json:"total_groups"`
	ActiveInvestments    *int             `json:"active_investments"`
	TotalInvestmentValue *decimal.Decimal `json:"total_investment_value"`
	ActiveLoans          *int             `json:"active_loans"`
	RecentActivity       []activityJSON   `json:"recent_activity"`
	Unavailable          []string         `json:"unavailable,omitempty"`
}

type activityJSON struct {
	Kind         portfolio.ActivityKind `json:"kind"`
	ID           int64                  `json:"id"`
	Title        string                 `json:"title"`
	Amount       decimal.Decimal        `json:"amount"`
	Date         models.Timestamp       `json:"date"`
	Status       models.LoanStatus      `json:"status,omitempty"`
	DueDate      *models.Timestamp      `json:"due_date,omitempty"`
	CurrentValue *decimal.Decimal       `json:"current_value,omitempty"`
}

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show portfolio counters and recent activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env := envFrom(cmd)
			ctx, cancel := env.withTimeout(cmd.Context())
			defer cancel()

			loader := portfolio.NewLoader(env.Client, env.Log)
			loader.MaxConcurrency = env.Concurrency
			snap := loader.Load(ctx)
			if err := ctx.Err(); err != nil {
				return err
			}
			if snap.GroupsErr != nil && snap.LoansErr != nil {
				return fmt.Errorf("dashboard unavailable: %w", snap.GroupsErr)
			}

			sum := portfolio.Summarize(snap)
			recent := portfolio.Recent(snap.Feed(), portfolio.RecentActivityLimit)
			unavailable := unavailableSections(snap)

			if env.Output == OutputJSON {
				return printJSON(env.Out, dashboardOut(sum, recent, unavailable))
			}

			for _, section := range unavailable {
				notice(env.Err, "Failed to load "+section+".")
			}
			counters := [][]string{
				{"Total Groups", counter(sum.GroupsAvailable, display.Count(sum.GroupCount))},
				{"Active Investments", counter(sum.InvestmentsAvailable, display.Count(sum.InvestmentCount))},
				{"Total Investment Value", counter(sum.InvestmentsAvailable, display.Money(sum.TotalInvestmentValue))},
				{"Active Loans", counter(sum.LoansAvailable, display.Count(sum.ActiveLoans))},
			}
			if err := printTable(env.Out, []string{"Metric", "Value"}, counters); err != nil {
				return err
			}

			if len(recent) == 0 {
				fmt.Fprintln(env.Out, "No recent activity.")
				return nil
			}
			rows := make([][]string, 0, len(recent))
			for _, a := range recent {
				detail := "Value " + display.Money(a.CurrentValue)
				if a.Kind == portfolio.KindLoan {
					detail = statusText(a.Status) + " · due " + display.Date(a.DueDate)
				}
				rows = append(rows, []string{display.Date(a.Date), a.Title(), display.Money(a.Amount), detail})
			}
			return printTable(env.Out, []string{"Date", "Activity", "Amount", "Detail"}, rows)
		},
	}
}

func counter(available bool, value string) string {
	if !available {
		return "unavailable"
	}
	return value
}

func unavailableSections(s portfolio.Snapshot) []string {
	var out []string
	if s.GroupsErr != nil {
		out = append(out, "groups")
	}
	if s.InvestmentsErr != nil {
		out = append(out, "investments")
	}
	if s.LoansErr != nil {
		out = append(out, "loans")
	}
	return out
}

func dashboardOut(sum portfolio.Summary, recent []portfolio.Activity, unavailable []string) dashboardJSON {
	out := dashboardJSON{RecentActivity: []activityJSON{}, Unavailable: unavailable}
	if sum.GroupsAvailable {
		out.TotalGroups = &sum.GroupCount
	}
	if sum.InvestmentsAvailable {
		out.ActiveInvestments = &sum.InvestmentCount
		out.TotalInvestmentValue = &sum.TotalInvestmentValue
	}
	if sum.LoansAvailable {
		out.ActiveLoans = &sum.ActiveLoans
	}
	for _, a := range recent {
		row := activityJSON{Kind: a.Kind, ID: a.ID, Title: a.Title(), Amount: a.Amount, Date: a.Date}
		if a.Kind == portfolio.KindLoan {
			row.Status = a.Status
			due := a.DueDate
			row.DueDate = &due
		} else {
			cv := a.CurrentValue
			row.CurrentValue = &cv
		}
		out.RecentActivity = append(out.RecentActivity, row)
	}
	return out
}
