// internal/app/features/groups/groupnew.go
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
	"go.uber.org/zap"
)

func (h *Handler) renderNewGroup(w http.ResponseWriter, r *http.Request, data newGroupData) {
	data.RiskLevels = riskOptions(data.Draft.RiskTolerance)
	data.Tiers = tierOptions(data.Draft.TierLevel)
	h.Render(w, r, "group_new", data)
}

// ServeNewGroup renders the Create Savings Group page.
func (h *Handler) ServeNewGroup(w http.ResponseWriter, r *http.Request) {
	if _, ok := authz.APIFor(r, h.API); !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	data := newGroupData{Draft: forms.NewGroupDraft()}
	formutil.SetBase(&data.Base, r, "Create Savings Group", "/groups")
	h.renderNewGroup(w, r, data)
}

// HandleCreateGroup processes the Create Savings Group form submission.
func (h *Handler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	api, ok := authz.APIFor(r, h.API)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/groups/new")
		return
	}

	data := newGroupData{Draft: forms.GroupDraft{
		Name:          r.PostFormValue("name"),
		Description:   r.PostFormValue("description"),
		RiskTolerance: r.PostFormValue("risk_tolerance"),
		TierLevel:     r.PostFormValue("tier_level"),
	}}
	formutil.SetBase(&data.Base, r, "Create Savings Group", "/groups")

	req, errs := data.Draft.Parse()
	if errs.Any() {
		data.SetFieldErrors(errs, "")
		h.renderNewGroup(w, r, data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	group, err := api.CreateGroup(ctx, req)
	if err != nil {
		if fields, summary, ok := forms.ServerErrors(err); ok {
			data.SetFieldErrors(fields, summary)
			h.renderNewGroup(w, r, data)
			return
		}
		if apiclient.IsUnauthorized(err) {
			uierrors.RenderUnauthorized(w, r, "/login")
			return
		}
		h.Log.Warn("create group failed", zap.Error(err))
		data.SetError("Failed to create group. Please try again.")
		h.renderNewGroup(w, r, data)
		return
	}

	h.Audit.GroupCreated(ctx, r, group)
	http.Redirect(w, r, viewdata.FlashURL("/groups", "group_created"), http.StatusSeeOther)
}
