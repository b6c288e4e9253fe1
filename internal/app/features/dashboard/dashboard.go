// internal/app/features/dashboard/dashboard.go
package dashboard

import (
	"context"
	"net/http"

	"github.com/wakaladigital/wakala/internal/app/apiclient"
	uierrors "github.com/wakaladigital/wakala/internal/app/features/errors"
	"github.com/wakaladigital/wakala/internal/app/portfolio"
	"github.com/wakaladigital/wakala/internal/app/system/authz"
	"github.com/wakaladigital/wakala/internal/app/system/timeouts"
	"github.com/wakaladigital/wakala/internal/app/system/viewdata"
)

// ServeDashboard renders the counters and the recent activity feed.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	api, ok := authz.APIFor(r, h.API)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	loader := portfolio.NewLoader(api, h.Log)
	loader.MaxConcurrency = h.Concurrency
	snap := loader.Load(ctx)

	// The browser went away; nobody is left to render for.
	if r.Context().Err() != nil {
		return
	}
	if apiclient.IsUnauthorized(snap.GroupsErr) || apiclient.IsUnauthorized(snap.LoansErr) {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	data := dashboardData{
		BaseVM: viewdata.NewBaseVM(r, "Dashboard", "/"),
		Stats:  statCards(portfolio.Summarize(snap)),
	}
	if snap.GroupsErr != nil {
		data.Notices = append(data.Notices, "Failed to load groups.")
	}
	if snap.InvestmentsErr != nil {
		data.Notices = append(data.Notices, "Failed to load investments.")
	}
	if snap.LoansErr != nil {
		data.Notices = append(data.Notices, "Failed to load loans.")
	}
	for _, a := range portfolio.Recent(snap.Feed(), portfolio.RecentActivityLimit) {
		data.Activity = append(data.Activity, newActivityRow(a))
	}

	h.Render(w, r, "dashboard", data)
}
