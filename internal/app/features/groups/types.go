// internal/app/features/groups/types.go
package groups

import (
	"html/template"
	"strconv"

	"github.com/wakaladigital/wakala/internal/app/forms"
	"github.com/wakaladigital/wakala/internal/app/system/display"
	"github.com/wakaladigital/wakala/internal/app/system/formutil"
	"github.com/wakaladigital/wakala/internal/app/system/htmlsanitize"
	"github.com/wakaladigital/wakala/internal/app/system/viewdata"
	"github.com/wakaladigital/wakala/internal/domain/models"
)

// option is a <select> entry.
type option struct {
	Value, Label string
	Selected     bool
}

// groupListItem represents a single group row in the list.
type groupListItem struct {
	ID        int64
	Name      string
	Members   int
	Risk      string
	RiskClass string
	Balance   string
	Tier      string
	IsMember  bool
	ViewURL   string
	JoinURL   string
}

type groupListData struct {
	viewdata.BaseVM
	Groups    []groupListItem
	LoadError string
}

type newGroupData struct {
	formutil.Base
	Draft      forms.GroupDraft
	RiskLevels []option
	Tiers      []option
}

type contributionRow struct {
	Amount    string
	Type      string
	TypeClass string
	Date      string
	Ago       string
}

type investmentRow struct {
	Type         string
	Provider     string
	Amount       string
	CurrentValue string
	ReturnRate   string
	StartDate    string
}

type groupViewData struct {
	formutil.Base

	GroupID     int64
	Name        string
	Description template.HTML
	Risk        string
	RiskClass   string
	Balance     string
	MemberCount int
	Tier        string
	CanInvest   bool
	IsMember    bool

	Contributions      []contributionRow
	ContributionsError string
	Investments        []investmentRow
	InvestmentsError   string

	// Contribution form
	Contribution     forms.ContributionDraft
	TransactionTypes []option
}

type newInvestmentData struct {
	formutil.Base
	GroupID   int64
	GroupName string
	Draft     forms.InvestmentDraft
	Types     []option
}

type memberRow struct {
	Name     string
	Username string
	Email    string
	Role     string
	Limit    string
	Joined   string
}

type membersData struct {
	viewdata.BaseVM
	GroupID   int64
	GroupName string
	Members   []memberRow
}

func riskOptions(selected string) []option {
	out := make([]option, 0, len(models.RiskTolerances))
	for _, r := range models.RiskTolerances {
		out = append(out, option{Value: string(r), Label: r.Label(), Selected: string(r) == selected})
	}
	return out
}

func tierOptions(selected string) []option {
	out := make([]option, 0, models.MaxTierLevel)
	for lvl := models.MinTierLevel; lvl <= models.MaxTierLevel; lvl++ {
		v := strconv.Itoa(lvl)
		out = append(out, option{Value: v, Label: models.TierLabel(lvl), Selected: v == selected})
	}
	return out
}

func transactionOptions(selected string) []option {
	out := make([]option, 0, len(models.TransactionTypes))
	for _, t := range models.TransactionTypes {
		out = append(out, option{Value: string(t), Label: t.Label(), Selected: string(t) == selected})
	}
	return out
}

func investmentTypeOptions(selected string) []option {
	out := make([]option, 0, len(models.InvestmentTypes))
	for _, t := range models.InvestmentTypes {
		out = append(out, option{Value: string(t), Label: t.Label(), Selected: string(t) == selected})
	}
	return out
}

func isMember(g models.SavingsGroup, userID int64) bool {
	for _, m := range g.Members {
		if m.User == userID {
			return true
		}
	}
	return false
}

func newGroupListItem(g models.SavingsGroup, userID int64) groupListItem {
	return groupListItem{
		ID:        g.ID,
		Name:      g.Name,
		Members:   g.MemberCount(),
		Risk:      g.RiskTolerance.Label(),
		RiskClass: g.RiskTolerance.BadgeClass(),
		Balance:   display.Money(g.TotalBalance),
		Tier:      models.TierLabel(g.TierLevel),
		IsMember:  isMember(g, userID),
		ViewURL:   groupPath(g.ID),
		JoinURL:   groupPath(g.ID) + "/join",
	}
}

func newContributionRow(c models.Contribution) contributionRow {
	return contributionRow{
		Amount:    display.Money(c.Amount),
		Type:      c.TransactionType.Label(),
		TypeClass: c.TransactionType.BadgeClass(),
		Date:      display.Date(c.Timestamp),
		Ago:       display.Ago(c.Timestamp),
	}
}

func newInvestmentRow(inv models.Investment) investmentRow {
	return investmentRow{
		Type:         inv.InvestmentType.Label(),
		Provider:     inv.Provider,
		Amount:       display.Money(inv.Amount),
		CurrentValue: display.Money(inv.CurrentValue),
		ReturnRate:   display.Percent(inv.AnnualReturnRate),
		StartDate:    display.Date(inv.StartDate),
	}
}

func newMemberRow(m models.MemberDetail) memberRow {
	return memberRow{
		Name:     m.User.DisplayName(),
		Username: m.User.Username,
		Email:    m.User.Email,
		Role:     string(m.Role),
		Limit:    display.Money(m.ContributionLimit),
		Joined:   display.Date(m.JoinedAt),
	}
}

func describe(g models.SavingsGroup) template.HTML {
	return htmlsanitize.PlainTextToHTML(g.Description)
}
