package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wakaladigital/wakala/internal/app/system/display"
	"github.com/wakaladigital/wakala/internal/domain/models"
	"go.uber.org/zap"
)

var (
	// ErrLoanNotFound is returned when the id is not among the caller's loans.
	ErrLoanNotFound = errors.New("loan not found")
	// ErrIllegalTransition is returned without calling the API when the
	// loan's current status does not allow the requested action.
	ErrIllegalTransition = errors.New("illegal status transition")
)

func newLoansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loans",
		Short: "List loans and move them through their workflow",
	}
	cmd.AddCommand(newLoansListCmd())
	for _, verb := range []string{"approve", "reject", "pay"} {
		action, _ := models.LoanActionByVerb(verb)
		cmd.AddCommand(newLoanActionCmd(action))
	}
	return cmd
}

func newLoansListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your loans, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env := envFrom(cmd)
			ctx, cancel := env.withTimeout(cmd.Context())
			defer cancel()

			loans, err := env.Client.ListLoans(ctx)
			if err != nil {
				return fmt.Errorf("list loans: %w", err)
			}
			sort.SliceStable(loans, func(i, j int) bool {
				return loans[i].CreatedAt.After(loans[j].CreatedAt)
			})
			if loans == nil {
				loans = []models.Loan{}
			}

			if env.Output == OutputJSON {
				return printJSON(env.Out, loans)
			}
			if len(loans) == 0 {
				fmt.Fprintln(env.Out, "No loans yet.")
				return nil
			}

			rows := make([][]string, 0, len(loans))
			for _, l := range loans {
				verbs := make([]string, 0, 2)
				for _, a := range l.Status.Actions() {
					verbs = append(verbs, a.Verb)
				}
				rows = append(rows, []string{
					strconv.FormatInt(l.ID, 10),
					display.Money(l.Amount),
					display.Percent(l.InterestRate),
					statusText(l.Status),
					display.Date(l.DueDate),
					strings.Join(verbs, ", "),
				})
			}
			return printTable(env.Out, []string{"ID", "Amount", "Rate", "Status", "Due", "Actions"}, rows)
		},
	}
}

func newLoanActionCmd(action models.LoanAction) *cobra.Command {
	return &cobra.Command{
		Use:   action.Verb + " <id>",
		Short: action.Label + " a loan (sets status " + string(action.Target) + ")",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			env := envFrom(cmd)
			ctx, cancel := env.withTimeout(cmd.Context())
			defer cancel()

			loans, err := env.Client.ListLoans(ctx)
			if err != nil {
				return fmt.Errorf("list loans: %w", err)
			}
			var current *models.Loan
			for i := range loans {
				if loans[i].ID == id {
					current = &loans[i]
					break
				}
			}
			if current == nil {
				return fmt.Errorf("%w: %d", ErrLoanNotFound, id)
			}
			if !current.Status.CanTransitionTo(action.Target) {
				return fmt.Errorf("%w: loan %d is %s and cannot become %s",
					ErrIllegalTransition, id, current.Status, action.Target)
			}

			updated, err := env.Client.UpdateLoanStatus(ctx, id, action.Target)
			if err != nil {
				return fmt.Errorf("update loan %d: %w", id, err)
			}
			env.Log.Debug("loan status updated",
				zap.Int64("loan_id", id),
				zap.String("from", string(current.Status)),
				zap.String("to", string(updated.Status)))

			if env.Output == OutputJSON {
				return printJSON(env.Out, updated)
			}
			fmt.Fprintf(env.Out, "Loan %d is now %s.\n", updated.ID, statusText(updated.Status))
			return nil
		},
	}
}
