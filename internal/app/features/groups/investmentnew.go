// internal/app/features/groups/investmentnew.go
package groups

import (
	"context"
	"net/http"

	"github.com/wakaladigital/wakala/internal/app/apiclient"
	uierrors "github.com/wakaladigital/wakala/internal/app/features/errors"
	"github.com/wakaladigital/wakala/internal/app/forms"
	"github.com/wakaladigital/wakala/internal/app/system/authz"
	"github.com/wakaladigital/wakala/internal/app/system/formutil"
	"github.com/wakaladigital/wakala/internal/app/system/timeouts"
	"github.com/wakaladigital/wakala/internal/app/system/viewdata"
	"github.com/wakaladigital/wakala/internal/domain/models"
	"go.uber.org/zap"
)

const tierTooLow = "Investments are available to Tier 2 groups and above."

// investableGroup loads the group named in the URL and refuses groups whose
// tier cannot hold investments. ok is false when a response has been written.
func (h *Handler) investableGroup(ctx context.Context, w http.ResponseWriter, r *http.Request, api *apiclient.Client) (models.SavingsGroup, bool) {
	id, ok := groupID(r)
	if !ok {
		uierrors.RenderNotFound(w, r, "Group not found.", "/groups")
		return models.SavingsGroup{}, false
	}
	group, err := api.GetGroup(ctx, id)
	if err != nil {
		h.ErrLog.LogAPIError(w, r, "load group failed", err, "Failed to load group.", "/groups")
		return models.SavingsGroup{}, false
	}
	if !group.CanInvest() {
		uierrors.RenderForbidden(w, r, tierTooLow, groupPath(id))
		return models.SavingsGroup{}, false
	}
	return group, true
}

func (h *Handler) renderNewInvestment(w http.ResponseWriter, r *http.Request, data newInvestmentData) {
	data.Types = investmentTypeOptions(data.Draft.InvestmentType)
	h.Render(w, r, "investment_new", data)
}

// ServeNewInvestment renders the Add Investment form for a group.
func (h *Handler) ServeNewInvestment(w http.ResponseWriter, r *http.Request) {
	api, ok := authz.APIFor(r, h.API)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	group, ok := h.investableGroup(ctx, w, r, api)
	if !ok {
		return
	}

	data := newInvestmentData{GroupID: group.ID, GroupName: group.Name, Draft: forms.NewInvestmentDraft()}
	formutil.SetBase(&data.Base, r, "Add Investment", groupPath(group.ID))
	h.renderNewInvestment(w, r, data)
}

// HandleCreateInvestment processes the Add Investment form submission.
func (h *Handler) HandleCreateInvestment(w http.ResponseWriter, r *http.Request) {
	api, ok := authz.APIFor(r, h.API)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/groups")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	group, ok := h.investableGroup(ctx, w, r, api)
	if !ok {
		return
	}

	data := newInvestmentData{GroupID: group.ID, GroupName: group.Name, Draft: forms.InvestmentDraft{
		InvestmentType:   r.PostFormValue("investment_type"),
		Amount:           r.PostFormValue("amount"),
		Provider:         r.PostFormValue("provider"),
		AnnualReturnRate: r.PostFormValue("annual_return_rate"),
	}}
	formutil.SetBase(&data.Base, r, "Add Investment", groupPath(group.ID))

	req, errs := data.Draft.Parse()
	if errs.Any() {
		data.SetFieldErrors(errs, "")
		h.renderNewInvestment(w, r, data)
		return
	}

	inv, err := api.CreateInvestment(ctx, group.ID, req)
	if err != nil {
		if fields, summary, ok := forms.ServerErrors(err); ok {
			data.SetFieldErrors(fields, summary)
			h.renderNewInvestment(w, r, data)
			return
		}
		if apiclient.IsForbidden(err) {
			uierrors.RenderForbidden(w, r, tierTooLow, groupPath(group.ID))
			return
		}
		if apiclient.IsUnauthorized(err) {
			uierrors.RenderUnauthorized(w, r, "/login")
			return
		}
		h.Log.Warn("create investment failed", zap.Int64("group_id", group.ID), zap.Error(err))
		data.SetError("Failed to create investment. Please try again.")
		h.renderNewInvestment(w, r, data)
		return
	}

	h.Audit.InvestmentCreated(ctx, r, group.ID, inv)
	http.Redirect(w, r, viewdata.FlashURL(groupPath(group.ID), "investment_created"), http.StatusSeeOther)
}
