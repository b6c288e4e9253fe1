// internal/app/features/loans/types.go
package loans

import (
	"strconv"

	"github.com/wakaladigital/wakala/internal/app/forms"
	"github.com/wakaladigital/wakala/internal/app/system/display"
	"github.com/wakaladigital/wakala/internal/app/system/formutil"
	"github.com/wakaladigital/wakala/internal/app/system/viewdata"
	"github.com/wakaladigital/wakala/internal/domain/models"
)

// actionButton posts Target to StatusURL. Current lets the handler refuse a
// stale transition without asking the API.
type actionButton struct {
	Label   string
	Class   string
	Target  string
	Current string
}

type loanRow struct {
	ID           int64
	Amount       string
	InterestRate string
	Status       string
	StatusClass  string
	DueDate      string
	Applied      string
	StatusURL    string
	Actions      []actionButton
}

type loansData struct {
	viewdata.BaseVM
	Loans       []loanRow
	LoadError   string
	ActionError string
}

type applyData struct {
	formutil.Base
	Draft   forms.LoanDraft
	MinDate string
}

func newLoanRow(l models.Loan) loanRow {
	row := loanRow{
		ID:           l.ID,
		Amount:       display.Money(l.Amount),
		InterestRate: display.Percent(l.InterestRate),
		Status:       l.Status.Label(),
		StatusClass:  l.Status.BadgeClass(),
		DueDate:      display.Date(l.DueDate),
		Applied:      display.Date(l.CreatedAt),
		StatusURL:    "/loans/" + strconv.FormatInt(l.ID, 10) + "/status",
	}
	for _, a := range l.Status.Actions() {
		row.Actions = append(row.Actions, actionButton{
			Label:   a.Label,
			Class:   a.Class,
			Target:  string(a.Target),
			Current: string(l.Status),
		})
	}
	return row
}
