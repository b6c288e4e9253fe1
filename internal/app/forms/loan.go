package forms

import (
	"github.com/wakaladigital/wakala/internal/app/system/inputval"
	"github.com/wakaladigital/wakala/internal/domain/models"
)

// LoanDraft is the Apply for Loan form.
type LoanDraft struct {
	Amount       string `form:"amount" validate:"required,posdecimal" label:"Loan amount"`
	InterestRate string `form:"interest_rate" validate:"required,percent" label:"Interest rate"`
	DueDate      string `form:"due_date" validate:"required,isodate,futuredate" label:"Due date"`
}

// Parse validates d and builds the POST /loans payload.
func (d LoanDraft) Parse() (models.CreateLoanRequest, Errors) {
	d.DueDate = clean(d.DueDate)

	if errs := fromResult(inputval.Validate(d)); errs.Any() {
		return models.CreateLoanRequest{}, errs
	}
	amount, _ := inputval.ParseDecimal(d.Amount)
	rate, _ := inputval.ParseDecimal(d.InterestRate)
	return models.CreateLoanRequest{
		Amount:       amount,
		InterestRate: rate,
		DueDate:      d.DueDate,
	}, nil
}
