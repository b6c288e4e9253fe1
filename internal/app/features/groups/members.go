// internal/app/features/groups/members.go
package groups

import (
	"context"
	"net/http"

	uierrors "github.com/wakaladigital/wakala/internal/app/features/errors"
	"github.com/wakaladigital/wakala/internal/app/system/authz"
	"github.com/wakaladigital/wakala/internal/app/system/timeouts"
	"github.com/wakaladigital/wakala/internal/app/system/viewdata"
	"github.com/wakaladigital/wakala/internal/domain/models"
	"golang.org/x/sync/errgroup"
)

// ServeMembers lists a group's members with their roles and join dates.
func (h *Handler) ServeMembers(w http.ResponseWriter, r *http.Request) {
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

	var (
		group   models.SavingsGroup
		members []models.MemberDetail
	)
	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		group, err = api.GetGroup(egctx, id)
		return err
	})
	eg.Go(func() (err error) {
		members, err = api.ListMembers(egctx, id)
		return err
	})
	if err := eg.Wait(); err != nil {
		h.ErrLog.LogAPIError(w, r, "load members failed", err, "Failed to load members.", groupPath(id))
		return
	}

	data := membersData{
		BaseVM:    viewdata.NewBaseVM(r, group.Name+" Members", groupPath(id)),
		GroupID:   id,
		GroupName: group.Name,
	}
	for _, m := range members {
		data.Members = append(data.Members, newMemberRow(m))
	}
	h.Render(w, r, "group_members", data)
}
