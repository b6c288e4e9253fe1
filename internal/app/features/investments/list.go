// internal/app/features/investments/list.go
package investments

import (
	"context"
	"net/http"
	"sort"

	"github.com/wakaladigital/wakala/internal/app/apiclient"
	uierrors "github.com/wakaladigital/wakala/internal/app/features/errors"
	"github.com/wakaladigital/wakala/internal/app/portfolio"
	"github.com/wakaladigital/wakala/internal/app/system/authz"
	"github.com/wakaladigital/wakala/internal/app/system/display"
	"github.com/wakaladigital/wakala/internal/app/system/timeouts"
	"github.com/wakaladigital/wakala/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// ServeInvestments lists every investment across the user's groups, newest
// first. A failure on any group hides the whole list.
func (h *Handler) ServeInvestments(w http.ResponseWriter, r *http.Request) {
	api, ok := authz.APIFor(r, h.API)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	loader := portfolio.NewLoader(api, h.Log)
	loader.MaxConcurrency = h.Concurrency
	groups, invs, err := loader.LoadInvestments(ctx)
	if r.Context().Err() != nil {
		return
	}
	if apiclient.IsUnauthorized(err) {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	data := investmentsData{BaseVM: viewdata.NewBaseVM(r, "Investments", "/dashboard")}
	if err != nil {
		h.Log.Warn("load investments failed", zap.Error(err))
		data.LoadError = "Failed to load investments."
		h.Render(w, r, "investments_list", data)
		return
	}

	names := make(map[int64]string, len(groups))
	for _, g := range groups {
		names[g.ID] = g.Name
	}
	sort.SliceStable(invs, func(i, j int) bool {
		return invs[i].StartDate.After(invs[j].StartDate)
	})
	for _, inv := range invs {
		data.Investments = append(data.Investments, newInvestmentRow(inv, names[inv.Group]))
	}
	data.Count = display.Count(len(invs))
	data.TotalValue = display.Money(portfolio.TotalValue(invs))

	h.Render(w, r, "investments_list", data)
}
