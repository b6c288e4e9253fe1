package forms

import (
	"github.com/wakaladigital/wakala/internal/app/system/inputval"
	"github.com/wakaladigital/wakala/internal/domain/models"
)

// ContributionDraft is the contribution form on the group detail page.
type ContributionDraft struct {
	Amount          string `form:"amount" validate:"required,posdecimal" label:"Amount"`
	TransactionType string `form:"transaction_type" validate:"required,oneof=DEPOSIT WITHDRAWAL" label:"Transaction type"`
}

// NewContributionDraft returns the values the form starts with.
func NewContributionDraft() ContributionDraft {
	return ContributionDraft{TransactionType: string(models.TransactionDeposit)}
}

// Parse validates d and builds the POST /groups/{id}/contributions payload.
func (d ContributionDraft) Parse() (models.CreateContributionRequest, Errors) {
	d.TransactionType = upper(d.TransactionType)

	if errs := fromResult(inputval.Validate(d)); errs.Any() {
		return models.CreateContributionRequest{}, errs
	}
	amount, _ := inputval.ParseDecimal(d.Amount)
	return models.CreateContributionRequest{
		Amount:          amount,
		TransactionType: models.TransactionType(d.TransactionType),
	}, nil
}
