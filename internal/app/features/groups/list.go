// internal/app/features/groups/list.go
package groups

import (
	"context"
	"net/http"

	"github.com/wakaladigital/wakala/internal/app/apiclient"
	uierrors "github.com/wakaladigital/wakala/internal/app/features/errors"
	"github.com/wakaladigital/wakala/internal/app/system/authz"
	"github.com/wakaladigital/wakala/internal/app/system/timeouts"
	"github.com/wakaladigital/wakala/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// ServeGroupsList renders the Savings Groups table.
func (h *Handler) ServeGroupsList(w http.ResponseWriter, r *http.Request) {
	api, ok := authz.APIFor(r, h.API)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	_, userID, _ := authz.UserCtx(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	data := groupListData{BaseVM: viewdata.NewBaseVM(r, "Savings Groups", "/dashboard")}

	groups, err := api.ListGroups(ctx)
	switch {
	case apiclient.IsUnauthorized(err):
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	case err != nil:
		h.Log.Warn("list groups failed", zap.Error(err))
		data.LoadError = "Failed to load groups."
	}

	for _, g := range groups {
		data.Groups = append(data.Groups, newGroupListItem(g, userID))
	}
	h.Render(w, r, "groups_list", data)
}
