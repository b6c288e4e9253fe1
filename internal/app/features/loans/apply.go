// internal/app/features/loans/apply.go
package loans

import (
	"context"
	"net/http"
	"time"

	"github.com/wakaladigital/wakala/internal/app/apiclient"
	uierrors "github.com/wakaladigital/wakala/internal/app/features/errors"
	"github.com/wakaladigital/wakala/internal/app/forms"
	"github.com/wakaladigital/wakala/internal/app/system/authz"
	"github.com/wakaladigital/wakala/internal/app/system/formutil"
	"github.com/wakaladigital/wakala/internal/app/system/inputval"
	"github.com/wakaladigital/wakala/internal/app/system/timeouts"
	"github.com/wakaladigital/wakala/internal/app/system/viewdata"
	"go.uber.org/zap"
)

func (h *Handler) renderApply(w http.ResponseWriter, r *http.Request, data applyData) {
	data.MinDate = inputval.Today().Format(time.DateOnly)
	h.Render(w, r, "loan_apply", data)
}

// ServeApply renders the Apply for Loan form.
func (h *Handler) ServeApply(w http.ResponseWriter, r *http.Request) {
	if _, ok := authz.APIFor(r, h.API); !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}

	var data applyData
	formutil.SetBase(&data.Base, r, "Apply for Loan", "/loans")
	h.renderApply(w, r, data)
}

// HandleApply submits a loan application.
func (h *Handler) HandleApply(w http.ResponseWriter, r *http.Request) {
	api, ok := authz.APIFor(r, h.API)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/loans/apply")
		return
	}

	data := applyData{Draft: forms.LoanDraft{
		Amount:       r.PostFormValue("amount"),
		InterestRate: r.PostFormValue("interest_rate"),
		DueDate:      r.PostFormValue("due_date"),
	}}
	formutil.SetBase(&data.Base, r, "Apply for Loan", "/loans")

	req, errs := data.Draft.Parse()
	if errs.Any() {
		data.SetFieldErrors(errs, "")
		h.renderApply(w, r, data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	loan, err := api.CreateLoan(ctx, req)
	if err != nil {
		if fields, summary, ok := forms.ServerErrors(err); ok {
			data.SetFieldErrors(fields, summary)
			h.renderApply(w, r, data)
			return
		}
		if apiclient.IsUnauthorized(err) {
			uierrors.RenderUnauthorized(w, r, "/login")
			return
		}
		h.Log.Warn("create loan failed", zap.Error(err))
		data.SetError("Failed to submit loan application. Please try again.")
		h.renderApply(w, r, data)
		return
	}

	h.Audit.LoanApplied(ctx, r, loan)
	http.Redirect(w, r, viewdata.FlashURL("/loans", "loan_applied"), http.StatusSeeOther)
}
