// internal/app/features/investments/types.go
package investments

import (
	"strconv"

	"github.com/wakaladigital/wakala/internal/app/system/display"
	"github.com/wakaladigital/wakala/internal/app/system/viewdata"
	"github.com/wakaladigital/wakala/internal/domain/models"
)

type investmentRow struct {
	GroupName    string
	GroupURL     string
	Type         string
	Provider     string
	Amount       string
	CurrentValue string
	ReturnRate   string
	StartDate    string
}

type investmentsData struct {
	viewdata.BaseVM
	Investments []investmentRow
	Count       string
	TotalValue  string
	LoadError   string
}

func newInvestmentRow(inv models.Investment, groupName string) investmentRow {
	return investmentRow{
		GroupName:    groupName,
		GroupURL:     "/groups/" + strconv.FormatInt(inv.Group, 10),
		Type:         inv.InvestmentType.Label(),
		Provider:     inv.Provider,
		Amount:       display.Money(inv.Amount),
		CurrentValue: display.Money(inv.CurrentValue),
		ReturnRate:   display.Percent(inv.AnnualReturnRate),
		StartDate:    display.Date(inv.StartDate),
	}
}
