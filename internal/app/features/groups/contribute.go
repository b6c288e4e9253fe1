// internal/app/features/groups/contribute.go
package groups

import (
	"context"
	"net/http"

	"github.com/wakaladigital/wakala/internal/app/apiclient"
	uierrors "github.com/wakaladigital/wakala/internal/app/features/errors"
	"github.com/wakaladigital/wakala/internal/app/forms"
	"github.com/wakaladigital/wakala/internal/app/system/authz"
	"github.com/wakaladigital/wakala/internal/app/system/timeouts"
	"github.com/wakaladigital/wakala/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// HandleCreateContribution records a deposit or withdrawal from the form on
// the group detail page. On error the detail page is shown again with the
// draft echoed back.
func (h *Handler) HandleCreateContribution(w http.ResponseWriter, r *http.Request) {
	api, ok := authz.APIFor(r, h.API)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	id, ok := groupID(r)
	if !ok {
		uierrors.RenderNotFound(w, r, "Group not found.", "/groups")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", groupPath(id))
		return
	}
	draft := forms.ContributionDraft{
		Amount:          r.PostFormValue("amount"),
		TransactionType: r.PostFormValue("transaction_type"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// rerender shows the detail page with the draft and whatever went wrong.
	rerender := func(fields map[string]string, msg string) {
		data, err := h.loadGroupView(ctx, r, api, id)
		if err != nil {
			h.ErrLog.LogAPIError(w, r, "load group failed", err, "Failed to load group.", "/groups")
			return
		}
		data.Contribution = draft
		if len(fields) > 0 {
			data.SetFieldErrors(fields, msg)
		} else {
			data.SetError(msg)
		}
		h.renderGroupView(w, r, data)
	}

	req, errs := draft.Parse()
	if errs.Any() {
		rerender(errs, "")
		return
	}

	c, err := api.CreateContribution(ctx, id, req)
	if err != nil {
		if fields, summary, ok := forms.ServerErrors(err); ok {
			rerender(fields, summary)
			return
		}
		if apiclient.IsForbidden(err) {
			rerender(nil, "Only members of this group can record contributions.")
			return
		}
		if apiclient.IsUnauthorized(err) {
			uierrors.RenderUnauthorized(w, r, "/login")
			return
		}
		h.Log.Warn("create contribution failed", zap.Int64("group_id", id), zap.Error(err))
		rerender(nil, "Failed to record contribution. Please try again.")
		return
	}

	h.Audit.ContributionRecorded(ctx, r, id, c)
	http.Redirect(w, r, viewdata.FlashURL(groupPath(id), "contribution_created"), http.StatusSeeOther)
}
