// internal/domain/models/investment.go
package models

import "github.com/shopspring/decimal"

// InvestmentType is the asset class of an investment.
type InvestmentType string

const (
	InvestmentUnitTrust  InvestmentType = "UNIT_TRUST"
	InvestmentStocks     InvestmentType = "STOCKS"
	InvestmentBonds      InvestmentType = "BONDS"
	InvestmentRealEstate InvestmentType = "REAL_ESTATE"
)

// InvestmentTypes lists the values in display order.
var InvestmentTypes = []InvestmentType{
	InvestmentUnitTrust,
	InvestmentStocks,
	InvestmentBonds,
	InvestmentRealEstate,
}

func (t InvestmentType) Valid() bool {
	switch t {
	case InvestmentUnitTrust, InvestmentStocks, InvestmentBonds, InvestmentRealEstate:
		return true
	}
	return false
}

func (t InvestmentType) Label() string {
	switch t {
	case InvestmentUnitTrust:
		return "Unit Trust"
	case InvestmentStocks:
		return "Stocks"
	case InvestmentBonds:
		return "Bonds"
	case InvestmentRealEstate:
		return "Real Estate"
	}
	return string(t)
}

// Investment is a group investment as returned by the API.
type Investment struct {
	ID               int64           `json:"id"`
	Group            int64           `json:"group"`
	InvestmentType   InvestmentType  `json:"investment_type"`
	Amount           decimal.Decimal `json:"amount"`
	CurrentValue     decimal.Decimal `json:"current_value"`
	Provider         string          `json:"provider"`
	AnnualReturnRate decimal.Decimal `json:"annual_return_rate"`
	StartDate        Timestamp       `json:"start_date"`
}

// CreateInvestmentRequest is the POST /groups/{id}/investments payload.
type CreateInvestmentRequest struct {
	InvestmentType   InvestmentType  `json:"investment_type"`
	Amount           decimal.Decimal `json:"amount"`
	Provider         string          `json:"provider"`
	AnnualReturnRate decimal.Decimal `json:"annual_return_rate"`
}
