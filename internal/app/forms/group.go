package forms

import (
	"strconv"

	"github.com/wakaladigital/wakala/internal/app/system/htmlsanitize"
	"github.com/wakaladigital/wakala/internal/app/system/inputval"
	"github.com/wakaladigital/wakala/internal/domain/models"
)

// GroupDraft is the Create Savings Group form.
type GroupDraft struct {
	Name          string `form:"name" validate:"required,max=100" label:"Group name"`
	Description   string `form:"description" validate:"max=1000" label:"Description"`
	RiskTolerance string `form:"risk_tolerance" validate:"required,oneof=LOW MEDIUM HIGH" label:"Risk tolerance"`
	TierLevel     string `form:"tier_level" validate:"required,oneof=1 2 3" label:"Tier level"`
}

// NewGroupDraft returns the values the form starts with.
func NewGroupDraft() GroupDraft {
	return GroupDraft{RiskTolerance: string(models.RiskMedium), TierLevel: strconv.Itoa(models.MinTierLevel)}
}

// Parse validates d and builds the POST /groups payload.
func (d GroupDraft) Parse() (models.CreateGroupRequest, Errors) {
	d.Name = htmlsanitize.StripTags(d.Name)
	d.Description = htmlsanitize.StripTags(d.Description)
	d.RiskTolerance = upper(d.RiskTolerance)
	d.TierLevel = clean(d.TierLevel)

	if errs := fromResult(inputval.Validate(d)); errs.Any() {
		return models.CreateGroupRequest{}, errs
	}
	tier, _ := strconv.Atoi(d.TierLevel)
	return models.CreateGroupRequest{
		Name:          d.Name,
		Description:   d.Description,
		RiskTolerance: models.RiskTolerance(d.RiskTolerance),
		TierLevel:     tier,
	}, nil
}
