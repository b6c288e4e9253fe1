// internal/app/portfolio/feed.go
package portfolio

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/wakaladigital/wakala/internal/domain/models"
)

// ActivityKind tags what an Activity was built from.
type ActivityKind string

const (
	KindLoan       ActivityKind = "LOAN"
	KindInvestment ActivityKind = "INVESTMENT"
)

// RecentActivityLimit is how many feed entries the dashboard shows.
const RecentActivityLimit = 5

// Activity is one dashboard feed row. Loan rows carry Status and DueDate;
// investment rows carry InvestmentType and CurrentValue.
type Activity struct {
	Kind   ActivityKind
	ID     int64
	Amount decimal.Decimal
	Date   models.Timestamp

	Status  models.LoanStatus
	DueDate models.Timestamp

	InvestmentType models.InvestmentType
	CurrentValue   decimal.Decimal
}

// Title is the feed row heading.
func (a Activity) Title() string {
	if a.Kind == KindLoan {
		return "Loan Application"
	}
	return "Investment: " + a.InvestmentType.Label()
}

// BuildFeed merges loans and investments into one list, newest first.
// Rows with equal dates keep their input order, loans before investments.
func BuildFeed(loans []models.Loan, investments []models.Investment) []Activity {
	feed := make([]Activity, 0, len(loans)+len(investments))
	for _, l := range loans {
		feed = append(feed, Activity{
			Kind:    KindLoan,
			ID:      l.ID,
			Amount:  l.Amount,
			Date:    l.CreatedAt,
			Status:  l.Status,
			DueDate: l.DueDate,
		})
	}
	for _, inv := range investments {
		feed = append(feed, Activity{
			Kind:           KindInvestment,
			ID:             inv.ID,
			Amount:         inv.Amount,
			Date:           inv.StartDate,
			InvestmentType: inv.InvestmentType,
			CurrentValue:   inv.CurrentValue,
		})
	}
	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].Date.After(feed[j].Date)
	})
	return feed
}

// Recent returns the first n entries of feed, or all of it when shorter.
func Recent(feed []Activity, n int) []Activity {
	if n < 0 {
		n = 0
	}
	if len(feed) <= n {
		return feed
	}
	return feed[:n]
}
