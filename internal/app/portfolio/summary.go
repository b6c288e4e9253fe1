// internal/app/portfolio/summary.go
package portfolio

import (
	"github.com/shopspring/decimal"

	"github.com/wakaladigital/wakala/internal/domain/models"
)

// Summary holds the four dashboard counters. A counter whose source failed
// to load is reported unavailable rather than as zero.
type Summary struct {
	GroupCount           int
	InvestmentCount      int
	TotalInvestmentValue decimal.Decimal
	ActiveLoans          int

	GroupsAvailable      bool
	InvestmentsAvailable bool
	LoansAvailable       bool
}

// Summarize computes the counters from a snapshot.
func Summarize(s Snapshot) Summary {
	out := Summary{
		GroupsAvailable:      s.GroupsErr == nil,
		InvestmentsAvailable: s.InvestmentsErr == nil,
		LoansAvailable:       s.LoansErr == nil,
		TotalInvestmentValue: decimal.Zero,
	}
	if out.GroupsAvailable {
		out.GroupCount = len(s.Groups)
	}
	if out.InvestmentsAvailable {
		out.InvestmentCount = len(s.Investments)
		out.TotalInvestmentValue = TotalValue(s.Investments)
	}
	if out.LoansAvailable {
		out.ActiveLoans = CountActiveLoans(s.Loans)
	}
	return out
}

// TotalValue is the exact sum of CurrentValue.
func TotalValue(investments []models.Investment) decimal.Decimal {
	total := decimal.Zero
	for _, inv := range investments {
		total = total.Add(inv.CurrentValue)
	}
	return total
}

// CountActiveLoans counts loans that are PENDING or APPROVED.
func CountActiveLoans(loans []models.Loan) int {
	n := 0
	for _, l := range loans {
		if l.Status.Active() {
			n++
		}
	}
	return n
}

// Feed returns the snapshot's activity feed. Investments only contribute
// when every group's list loaded.
func (s Snapshot) Feed() []Activity {
	var invs []models.Investment
	if s.InvestmentsErr == nil {
		invs = s.Investments
	}
	var loans []models.Loan
	if s.LoansErr == nil {
		loans = s.Loans
	}
	return BuildFeed(loans, invs)
}
