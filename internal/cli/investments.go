package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/wakaladigital/wakala/internal/app/portfolio"
	"github.com/wakaladigital/wakala/internal/app/system/display"
	"github.com/wakaladigital/wakala/internal/domain/models"
)

var investmentHeaders = []string{"ID", "Group", "Type", "Provider", "Amount", "Current Value", "Return", "Started"}

// investmentRows renders investments; names maps group IDs to names and may be nil.
func investmentRows(investments []models.Investment, names map[int64]string) [][]string {
	rows := make([][]string, 0, len(investments))
	for _, inv := range investments {
		group := strconv.FormatInt(inv.Group, 10)
		if name, ok := names[inv.Group]; ok {
			group = name
		}
		rows = append(rows, []string{
			strconv.FormatInt(inv.ID, 10),
			group,
			inv.InvestmentType.Label(),
			inv.Provider,
			display.Money(inv.Amount),
			display.Money(inv.CurrentValue),
			display.Percent(inv.AnnualReturnRate),
			display.Date(inv.StartDate),
		})
	}
	return rows
}

func newInvestmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "investments",
		Short: "Inspect investments across your groups",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every investment across your groups, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env := envFrom(cmd)
			ctx, cancel := env.withTimeout(cmd.Context())
			defer cancel()

			loader := portfolio.NewLoader(env.Client, env.Log)
			loader.MaxConcurrency = env.Concurrency
			groups, investments, err := loader.LoadInvestments(ctx)
			if err != nil {
				return fmt.Errorf("load investments: %w", err)
			}
			sort.SliceStable(investments, func(i, j int) bool {
				return investments[i].StartDate.After(investments[j].StartDate)
			})
			if investments == nil {
				investments = []models.Investment{}
			}

			if env.Output == OutputJSON {
				return printJSON(env.Out, investments)
			}
			if len(investments) == 0 {
				fmt.Fprintln(env.Out, "No investments yet.")
				return nil
			}

			names := make(map[int64]string, len(groups))
			for _, g := range groups {
				names[g.ID] = g.Name
			}
			if err := printTable(env.Out, investmentHeaders, investmentRows(investments, names)); err != nil {
				return err
			}
			fmt.Fprintf(env.Out, "%s investments, total value %s\n",
				display.Count(len(investments)), display.Money(portfolio.TotalValue(investments)))
			return nil
		},
	})
	return cmd
}
