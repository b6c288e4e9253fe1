// internal/app/features/dashboard/types.go
package dashboard

import (
	"github.com/wakaladigital/wakala/internal/app/portfolio"
	"github.com/wakaladigital/wakala/internal/app/system/display"
	"github.com/wakaladigital/wakala/internal/app/system/viewdata"
)

// statCard is one of the four counters at the top of the dashboard.
type statCard struct {
	Label     string
	Value     string
	Available bool
}

// activityRow is a feed entry with every value preformatted.
type activityRow struct {
	IsLoan       bool
	Title        string
	Amount       string
	Date         string
	Status       string
	StatusClass  string
	DueDate      string
	CurrentValue string
}

type dashboardData struct {
	viewdata.BaseVM

	Stats    []statCard
	Activity []activityRow

	// Notices name sources that failed to load; the rest of the page
	// still renders.
	Notices []string
}

func newActivityRow(a portfolio.Activity) activityRow {
	row := activityRow{
		IsLoan: a.Kind == portfolio.KindLoan,
		Title:  a.Title(),
		Amount: display.Money(a.Amount),
		Date:   display.Date(a.Date),
	}
	if row.IsLoan {
		row.Status = a.Status.Label()
		row.StatusClass = a.Status.BadgeClass()
		row.DueDate = display.Date(a.DueDate)
	} else {
		row.CurrentValue = display.Money(a.CurrentValue)
	}
	return row
}

func statCards(s portfolio.Summary) []statCard {
	return []statCard{
		{Label: "Total Groups", Value: display.Count(s.GroupCount), Available: s.GroupsAvailable},
		{Label: "Active Investments", Value: display.Count(s.InvestmentCount), Available: s.InvestmentsAvailable},
		{Label: "Total Investment Value", Value: display.Money(s.TotalInvestmentValue), Available: s.InvestmentsAvailable},
		{Label: "Active Loans", Value: display.Count(s.ActiveLoans), Available: s.LoansAvailable},
	}
}
