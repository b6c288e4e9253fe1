// internal/domain/models/loan.go
package models

import "github.com/shopspring/decimal"

// LoanStatus is the lifecycle state of a loan.
//
// PENDING moves to APPROVED or REJECTED, APPROVED moves to PAID.
// REJECTED and PAID are terminal. The API enforces the table; the
// client uses it to decide which actions to offer.
type LoanStatus string

const (
	LoanPending  LoanStatus = "PENDING"
	LoanApproved LoanStatus = "APPROVED"
	LoanRejected LoanStatus = "REJECTED"
	LoanPaid     LoanStatus = "PAID"
)

var loanTransitions = map[LoanStatus][]LoanStatus{
	LoanPending:  {LoanApproved, LoanRejected},
	LoanApproved: {LoanPaid},
}

func (s LoanStatus) Valid() bool {
	switch s {
	case LoanPending, LoanApproved, LoanRejected, LoanPaid:
		return true
	}
	return false
}

func (s LoanStatus) Label() string {
	switch s {
	case LoanPending:
		return "Pending"
	case LoanApproved:
		return "Approved"
	case LoanRejected:
		return "Rejected"
	case LoanPaid:
		return "Paid"
	}
	return string(s)
}

// BadgeClass is the CSS class used for status badges.
func (s LoanStatus) BadgeClass() string {
	switch s {
	case LoanApproved:
		return "badge-green"
	case LoanPending:
		return "badge-yellow"
	case LoanRejected:
		return "badge-red"
	case LoanPaid:
		return "badge-blue"
	}
	return "badge-gray"
}

// Next returns the states reachable from s in one step.
func (s LoanStatus) Next() []LoanStatus {
	next := loanTransitions[s]
	out := make([]LoanStatus, len(next))
	copy(out, next)
	return out
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s LoanStatus) CanTransitionTo(next LoanStatus) bool {
	for _, candidate := range loanTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s LoanStatus) Terminal() bool {
	return s.Valid() && len(loanTransitions[s]) == 0
}

// Active reports whether the loan counts as outstanding.
func (s LoanStatus) Active() bool {
	return s == LoanPending || s == LoanApproved
}

// LoanAction is a button the loans table may offer for a loan.
type LoanAction struct {
	Label  string
	Target LoanStatus
	Class  string
	// Verb is the CLI subcommand that performs the action.
	Verb string
}

var (
	actionApprove = LoanAction{Label: "Approve", Target: LoanApproved, Class: "btn-green", Verb: "approve"}
	actionReject  = LoanAction{Label: "Reject", Target: LoanRejected, Class: "btn-red", Verb: "reject"}
	actionPay     = LoanAction{Label: "Mark as Paid", Target: LoanPaid, Class: "btn-blue", Verb: "pay"}
)

// Actions returns the actions legal for a loan in state s, in display order.
func (s LoanStatus) Actions() []LoanAction {
	switch s {
	case LoanPending:
		return []LoanAction{actionApprove, actionReject}
	case LoanApproved:
		return []LoanAction{actionPay}
	}
	return nil
}

// LoanActionByVerb maps a CLI verb (approve, reject, pay) to its action.
func LoanActionByVerb(verb string) (LoanAction, bool) {
	for _, a := range []LoanAction{actionApprove, actionReject, actionPay} {
		if a.Verb == verb {
			return a, true
		}
	}
	return LoanAction{}, false
}

// Loan is a loan as returned by the API.
type Loan struct {
	ID           int64           `json:"id"`
	Borrower     int64           `json:"borrower"`
	Amount       decimal.Decimal `json:"amount"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	Status       LoanStatus      `json:"status"`
	DueDate      Timestamp       `json:"due_date"`
	CreatedAt    Timestamp       `json:"created_at"`
}

// CreateLoanRequest is the POST /loans payload. DueDate is YYYY-MM-DD.
type CreateLoanRequest struct {
	Amount       decimal.Decimal `json:"amount"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	DueDate      string          `json:"due_date"`
}

// UpdateLoanStatusRequest is the PATCH /loans/{id} payload.
type UpdateLoanStatusRequest struct {
	Status LoanStatus `json:"status"`
}
