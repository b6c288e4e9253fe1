// internal/app/features/loans/list.go
package loans

import (
	"context"
	"net/http"
	"sort"

	"github.com/wakaladigital/wakala/internal/app/apiclient"
	uierrors "github.com/wakaladigital/wakala/internal/app/features/errors"
	"github.com/wakaladigital/wakala/internal/app/system/authz"
	"github.com/wakaladigital/wakala/internal/app/system/timeouts"
	"github.com/wakaladigital/wakala/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// ServeLoans renders the loans table.
func (h *Handler) ServeLoans(w http.ResponseWriter, r *http.Request) {
	api, ok := authz.APIFor(r, h.API)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	h.renderList(ctx, w, r, api, "")
}

// renderList fetches the loans and renders the table. actionErr is shown
// above it when a status change just failed.
func (h *Handler) renderList(ctx context.Context, w http.ResponseWriter, r *http.Request, api *apiclient.Client, actionErr string) {
	data := loansData{
		BaseVM:      viewdata.NewBaseVM(r, "Loans", "/dashboard"),
		ActionError: actionErr,
	}

	loans, err := api.ListLoans(ctx)
	switch {
	case apiclient.IsUnauthorized(err):
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	case err != nil:
		h.Log.Warn("list loans failed", zap.Error(err))
		data.LoadError = "Failed to load loans."
	}

	sort.SliceStable(loans, func(i, j int) bool {
		return loans[i].CreatedAt.After(loans[j].CreatedAt)
	})
	for _, l := range loans {
		data.Loans = append(data.Loans, newLoanRow(l))
	}
	h.Render(w, r, "loans_list", data)
}
