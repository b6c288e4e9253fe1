// internal/app/features/loans/status.go
package loans

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/wakaladigital/wakala/internal/app/apiclient"
	uierrors "github.com/wakaladigital/wakala/internal/app/features/errors"
	"github.com/wakaladigital/wakala/internal/app/system/authz"
	"github.com/wakaladigital/wakala/internal/app/system/timeouts"
	"github.com/wakaladigital/wakala/internal/app/system/viewdata"
	"github.com/wakaladigital/wakala/internal/domain/models"
	"go.uber.org/zap"
)

const statusFailed = "Failed to update loan status."

// errIllegalTransition is recorded when a stale page asks for a transition
// the workflow does not allow.
var errIllegalTransition = errors.New("illegal loan status transition")

// HandleUpdateStatus moves a loan to the posted status. The form carries the
// status the page was rendered with; transitions illegal from that status
// are refused without calling the API.
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	api, ok := authz.APIFor(r, h.API)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	id, ok := loanID(r)
	if !ok {
		uierrors.RenderNotFound(w, r, "Loan not found.", "/loans")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/loans")
		return
	}

	target := models.LoanStatus(strings.ToUpper(strings.TrimSpace(r.PostFormValue("status"))))
	current := models.LoanStatus(strings.ToUpper(strings.TrimSpace(r.PostFormValue("current"))))
	if !target.Valid() {
		h.ErrLog.LogBadRequest(w, r, "unknown loan status", fmt.Errorf("status %q", target), "Unknown loan status.", "/loans")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if current != "" && !current.CanTransitionTo(target) {
		err := fmt.Errorf("%w: %s to %s", errIllegalTransition, current, target)
		h.Audit.LoanStatusChanged(ctx, r, id, current, target, err)
		h.Log.Info("loan status change refused", zap.Int64("loan_id", id), zap.Error(err))
		h.renderList(ctx, w, r, api, statusFailed)
		return
	}

	_, err := api.UpdateLoanStatus(ctx, id, target)
	h.Audit.LoanStatusChanged(ctx, r, id, current, target, err)
	if err != nil {
		if apiclient.IsUnauthorized(err) {
			uierrors.RenderUnauthorized(w, r, "/login")
			return
		}
		h.Log.Warn("update loan status failed", zap.Int64("loan_id", id), zap.Error(err))
		h.renderList(ctx, w, r, api, statusFailed)
		return
	}

	http.Redirect(w, r, viewdata.FlashURL("/loans", "loan_updated"), http.StatusSeeOther)
}
