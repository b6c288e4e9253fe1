// internal/app/features/groups/join.go
package groups

import (
	"context"
	"errors"
	"net/http"

	"github.com/wakaladigital/wakala/internal/app/apiclient"
	uierrors "github.com/wakaladigital/wakala/internal/app/features/errors"
	"github.com/wakaladigital/wakala/internal/app/system/authz"
	"github.com/wakaladigital/wakala/internal/app/system/timeouts"
	"github.com/wakaladigital/wakala/internal/app/system/viewdata"
)

// HandleJoinGroup adds the signed-in user to a group.
func (h *Handler) HandleJoinGroup(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err := api.JoinGroup(ctx, id)
	h.Audit.GroupJoined(ctx, r, id, err)
	if err != nil {
		if msg, ok := refusal(err); ok {
			uierrors.RenderBadRequest(w, r, msg, groupPath(id))
			return
		}
		h.ErrLog.LogAPIError(w, r, "join group failed", err, "Failed to join group.", groupPath(id))
		return
	}

	http.Redirect(w, r, viewdata.FlashURL(groupPath(id), "group_joined"), http.StatusSeeOther)
}

// refusal extracts the message from a 400 the API sends when it declines a
// join, such as when the user already belongs to the group.
func refusal(err error) (string, bool) {
	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		return "", false
	}
	var verr *apiclient.ValidationError
	if errors.As(err, &verr) && len(verr.NonField) > 0 {
		return verr.NonField[0], true
	}
	if apiErr.Message != "" {
		return apiErr.Message, true
	}
	return "Unable to join this group.", true
}
