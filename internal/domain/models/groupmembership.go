// internal/domain/models/groupmembership.go
package models

import "github.com/shopspring/decimal"

// MemberRole is a member's role inside a group.
type MemberRole string

const (
	RoleAdmin  MemberRole = "ADMIN"
	RoleMember MemberRole = "MEMBER"
)

// GroupMembership links a user to a group.
type GroupMembership struct {
	ID                int64           `json:"id"`
	User              int64           `json:"user"`
	Group             int64           `json:"group"`
	Role              MemberRole      `json:"role"`
	ContributionLimit decimal.Decimal `json:"contribution_limit"`
	JoinedAt          Timestamp       `json:"joined_at"`
}

// MemberDetail is a membership with the user record embedded, as returned
// by GET /groups/{id}/members.
type MemberDetail struct {
	ID                int64           `json:"id"`
	User              User            `json:"user"`
	Group             int64           `json:"group"`
	Role              MemberRole      `json:"role"`
	ContributionLimit decimal.Decimal `json:"contribution_limit"`
	JoinedAt          Timestamp       `json:"joined_at"`
}
