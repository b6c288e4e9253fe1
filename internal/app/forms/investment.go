package forms

import (
	"github.com/wakaladigital/wakala/internal/app/system/htmlsanitize"
	"github.com/wakaladigital/wakala/internal/app/system/inputval"
	"github.com/wakaladigital/wakala/internal/domain/models"
)

// InvestmentDraft is the New Investment form of a group.
type InvestmentDraft struct {
	InvestmentType   string `form:"investment_type" validate:"required,oneof=UNIT_TRUST STOCKS BONDS REAL_ESTATE" label:"Investment type"`
	Amount           string `form:"amount" validate:"required,posdecimal" label:"Amount"`
	Provider         string `form:"provider" validate:"required,max=100" label:"Provider"`
	AnnualReturnRate string `form:"annual_return_rate" validate:"required,percent" label:"Annual return rate"`
}

// NewInvestmentDraft returns the values the form starts with.
func NewInvestmentDraft() InvestmentDraft {
	return InvestmentDraft{InvestmentType: string(models.InvestmentUnitTrust)}
}

// Parse validates d and builds the POST /groups/{id}/investments payload.
func (d InvestmentDraft) Parse() (models.CreateInvestmentRequest, Errors) {
	d.InvestmentType = upper(d.InvestmentType)
	d.Provider = htmlsanitize.StripTags(d.Provider)

	if errs := fromResult(inputval.Validate(d)); errs.Any() {
		return models.CreateInvestmentRequest{}, errs
	}
	amount, _ := inputval.ParseDecimal(d.Amount)
	rate, _ := inputval.ParseDecimal(d.AnnualReturnRate)
	return models.CreateInvestmentRequest{
		InvestmentType:   models.InvestmentType(d.InvestmentType),
		Amount:           amount,
		Provider:         d.Provider,
		AnnualReturnRate: rate,
	}, nil
}
