// internal/domain/models/group.go
package models

import (
	"github.com/shopspring/decimal"
)

// RiskTolerance is the risk appetite attached to groups and user profiles.
type RiskTolerance string

const (
	RiskLow    RiskTolerance = "LOW"
	RiskMedium RiskTolerance = "MEDIUM"
	RiskHigh   RiskTolerance = "HIGH"
)

// RiskTolerances lists the values in display order.
var RiskTolerances = []RiskTolerance{RiskLow, RiskMedium, RiskHigh}

// Valid reports whether r is a known risk level.
func (r RiskTolerance) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// Label is the human-readable option text.
func (r RiskTolerance) Label() string {
	switch r {
	case RiskLow:
		return "Low Risk"
	case RiskMedium:
		return "Medium Risk"
	case RiskHigh:
		return "High Risk"
	}
	return string(r)
}

// BadgeClass is the CSS class used for risk badges.
func (r RiskTolerance) BadgeClass() string {
	switch r {
	case RiskLow:
		return "badge-green"
	case RiskMedium:
		return "badge-yellow"
	case RiskHigh:
		return "badge-red"
	}
	return "badge-gray"
}

// Tier bounds accepted by the API.
const (
	MinTierLevel = 1
	MaxTierLevel = 3
)

// TierLabel describes what a tier level unlocks.
func TierLabel(level int) string {
	switch level {
	case 1:
		return "Tier 1 - Basic Savings"
	case 2:
		return "Tier 2 - Collective Investment"
	case 3:
		return "Tier 3 - Advanced Investment"
	}
	return "Tier"
}

// SavingsGroup is a savings group as returned by the API.
type SavingsGroup struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	RiskTolerance RiskTolerance     `json:"risk_tolerance"`
	TierLevel     int               `json:"tier_level"`
	TotalBalance  decimal.Decimal   `json:"total_balance"`
	CreatedAt     Timestamp         `json:"created_at"`
	Members       []GroupMembership `json:"members"`
}

// CanInvest reports whether the group's tier allows creating investments.
func (g SavingsGroup) CanInvest() bool {
	return g.TierLevel > 1
}

// MemberCount is the number of memberships the API returned for the group.
func (g SavingsGroup) MemberCount() int {
	return len(g.Members)
}

// CreateGroupRequest is the POST /groups payload.
type CreateGroupRequest struct {
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	RiskTolerance RiskTolerance `json:"risk_tolerance"`
	TierLevel     int           `json:"tier_level"`
}
