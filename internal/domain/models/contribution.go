// internal/domain/models/contribution.go
package models

import "github.com/shopspring/decimal"

// TransactionType is the direction of a contribution.
type TransactionType string

const (
	TransactionDeposit    TransactionType = "DEPOSIT"
	TransactionWithdrawal TransactionType = "WITHDRAWAL"
)

// TransactionTypes lists the values in display order.
var TransactionTypes = []TransactionType{TransactionDeposit, TransactionWithdrawal}

func (t TransactionType) Valid() bool {
	return t == TransactionDeposit || t == TransactionWithdrawal
}

func (t TransactionType) Label() string {
	switch t {
	case TransactionDeposit:
		return "Deposit"
	case TransactionWithdrawal:
		return "Withdrawal"
	}
	return string(t)
}

func (t TransactionType) BadgeClass() string {
	if t == TransactionDeposit {
		return "badge-green"
	}
	return "badge-red"
}

// Contribution is a deposit or withdrawal made through a membership.
type Contribution struct {
	ID              int64           `json:"id"`
	Member          int64           `json:"member"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionType TransactionType `json:"transaction_type"`
	Timestamp       Timestamp       `json:"timestamp"`
}

// CreateContributionRequest is the POST /groups/{id}/contributions payload.
type CreateContributionRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	TransactionType TransactionType `json:"transaction_type"`
}
