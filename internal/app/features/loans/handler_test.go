package loans

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	uierrors "github.com/wakaladigital/wakala/internal/app/features/errors"
	"github.com/wakaladigital/wakala/internal/app/store/audit"
	"github.com/wakaladigital/wakala/internal/app/system/auditlog"
	"github.com/wakaladigital/wakala/internal/app/system/inputval"
	"github.com/wakaladigital/wakala/internal/domain/models"
	"github.com/wakaladigital/wakala/internal/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestHandler(t *testing.T) (*Handler, *testutil.FakeAPI, *testutil.RenderCapture, *observer.ObservedLogs) {
	t.Helper()
	api := testutil.NewFakeAPI(t)
	core, logs := observer.New(zapcore.InfoLevel)
	h := NewHandler(api.Client(t), uierrors.NewErrorLogger(zap.NewNop()), auditlog.New(nil, zap.New(core), auditlog.ModeLog), zap.NewNop())
	rc := &testutil.RenderCapture{}
	h.Render = rc.Render

	prev := uierrors.Renderer
	uierrors.Renderer = (&testutil.RenderCapture{}).Render
	t.Cleanup(func() { uierrors.Renderer = prev })
	return h, api, rc, logs
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func statusRequest(id int64, form url.Values) *http.Request {
	req := testutil.NewFormRequest("/loans/"+strconv.FormatInt(id, 10)+"/status", form, testutil.Member())
	return testutil.WithChiURLParam(req, "id", strconv.FormatInt(id, 10))
}

func loanStatus(api *testutil.FakeAPI, id int64) models.LoanStatus {
	for _, l := range api.Loans() {
		if l.ID == id {
			return l.Status
		}
	}
	return ""
}

func TestServeLoans_ActionsFollowWorkflow(t *testing.T) {
	h, api, rc, _ := newTestHandler(t)
	pending := api.AddLoan(models.Loan{Amount: dec("1000"), InterestRate: dec("5"), CreatedAt: models.MustTimestamp("2024-01-01")})
	approved := api.AddLoan(models.Loan{Amount: dec("200"), Status: models.LoanApproved, CreatedAt: models.MustTimestamp("2024-02-01")})
	paid := api.AddLoan(models.Loan{Amount: dec("50"), Status: models.LoanPaid, CreatedAt: models.MustTimestamp("2024-03-01")})

	h.ServeLoans(httptest.NewRecorder(), testutil.NewAuthenticatedRequest("GET", "/loans", testutil.Member()))

	if rc.Name != "loans_list" {
		t.Fatalf("template = %q, want loans_list", rc.Name)
	}
	data := rc.Data.(loansData)
	if len(data.Loans) != 3 {
		t.Fatalf("got %d loans, want 3", len(data.Loans))
	}
	want := map[int64][]string{
		pending.ID:  {"APPROVED", "REJECTED"},
		approved.ID: {"PAID"},
		paid.ID:     nil,
	}
	for _, row := range data.Loans {
		var got []string
		for _, a := range row.Actions {
			got = append(got, a.Target)
		}
		if len(got) != len(want[row.ID]) {
			t.Errorf("loan %d actions = %v, want %v", row.ID, got, want[row.ID])
			continue
		}
		for i := range got {
			if got[i] != want[row.ID][i] {
				t.Errorf("loan %d actions = %v, want %v", row.ID, got, want[row.ID])
			}
		}
	}
	if data.Loans[0].ID != paid.ID {
		t.Errorf("loans not newest first: first is %d", data.Loans[0].ID)
	}
	if data.Loans[2].Amount != "$1,000.00" {
		t.Errorf("Amount = %q", data.Loans[2].Amount)
	}
}

func TestHandleUpdateStatus(t *testing.T) {
	h, api, _, logs := newTestHandler(t)
	loan := api.AddLoan(models.Loan{Amount: dec("100")})

	rec := httptest.NewRecorder()
	h.HandleUpdateStatus(rec, statusRequest(loan.ID, url.Values{"status": {"APPROVED"}, "current": {"PENDING"}}))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/loans?flash=loan_updated" {
		t.Errorf("Location = %q", loc)
	}
	if got := loanStatus(api, loan.ID); got != models.LoanApproved {
		t.Errorf("loan status = %s, want APPROVED", got)
	}
	if logs.FilterField(zap.String("event_type", audit.EventLoanStatusChanged)).Len() != 1 {
		t.Error("expected a loan_status_changed audit event")
	}
}

func TestHandleUpdateStatus_IllegalTransitionRefusedLocally(t *testing.T) {
	h, api, rc, _ := newTestHandler(t)
	loan := api.AddLoan(models.Loan{Amount: dec("100"), Status: models.LoanPaid})

	h.HandleUpdateStatus(httptest.NewRecorder(), statusRequest(loan.ID, url.Values{"status": {"APPROVED"}, "current": {"PAID"}}))

	if n := api.Called("PATCH", "/loans/"+strconv.FormatInt(loan.ID, 10)); n != 0 {
		t.Errorf("PATCH sent %d times for an illegal transition", n)
	}
	if rc.Name != "loans_list" {
		t.Fatalf("template = %q, want loans_list", rc.Name)
	}
	data := rc.Data.(loansData)
	if data.ActionError != "Failed to update loan status." {
		t.Errorf("ActionError = %q", data.ActionError)
	}
	if len(data.Loans) != 1 {
		t.Error("list should be re-fetched after a failed action")
	}
	if got := loanStatus(api, loan.ID); got != models.LoanPaid {
		t.Errorf("loan status = %s, want PAID", got)
	}
}

func TestHandleUpdateStatus_ServerRefusalRerendersList(t *testing.T) {
	h, api, rc, _ := newTestHandler(t)
	loan := api.AddLoan(models.Loan{Amount: dec("100"), Status: models.LoanRejected})

	// No current status on the form, so the API decides.
	h.HandleUpdateStatus(httptest.NewRecorder(), statusRequest(loan.ID, url.Values{"status": {"PAID"}}))

	data := rc.Data.(loansData)
	if data.ActionError != "Failed to update loan status." {
		t.Errorf("ActionError = %q", data.ActionError)
	}
	if api.Called("GET", "/loans") != 1 {
		t.Error("expected the list to be re-fetched")
	}
}

func TestHandleUpdateStatus_UnknownStatus(t *testing.T) {
	h, api, _, _ := newTestHandler(t)
	loan := api.AddLoan(models.Loan{Amount: dec("100")})

	rec := httptest.NewRecorder()
	h.HandleUpdateStatus(rec, statusRequest(loan.ID, url.Values{"status": {"FORGIVEN"}}))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if len(api.Calls()) != 0 {
		t.Errorf("unexpected API calls %v", api.Calls())
	}
}

func TestHandleApply(t *testing.T) {
	h, api, _, _ := newTestHandler(t)
	form := url.Values{"amount": {"5,000"}, "interest_rate": {"12.5"}, "due_date": {"2099-06-30"}}

	rec := httptest.NewRecorder()
	h.HandleApply(rec, testutil.NewFormRequest("/loans", form, testutil.Member()))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/loans?flash=loan_applied" {
		t.Errorf("Location = %q", loc)
	}
	loans := api.Loans()
	if len(loans) != 1 || !loans[0].Amount.Equal(dec("5000")) || loans[0].Status != models.LoanPending {
		t.Errorf("loans = %+v", loans)
	}
}

func TestHandleApply_InvalidDraft(t *testing.T) {
	h, api, rc, _ := newTestHandler(t)
	form := url.Values{"amount": {"NaN"}, "interest_rate": {"101"}, "due_date": {"2001-01-01"}}

	h.HandleApply(httptest.NewRecorder(), testutil.NewFormRequest("/loans", form, testutil.Member()))

	if rc.Name != "loan_apply" {
		t.Fatalf("template = %q, want loan_apply", rc.Name)
	}
	data := rc.Data.(applyData)
	for _, field := range []string{"amount", "interest_rate", "due_date"} {
		if data.FieldError(field) == "" {
			t.Errorf("expected an error for %s", field)
		}
	}
	if data.Draft.Amount != "NaN" {
		t.Errorf("draft not echoed: %+v", data.Draft)
	}
	if data.MinDate != inputval.Today().Format(time.DateOnly) {
		t.Errorf("MinDate = %q, want the validation clock's date", data.MinDate)
	}
	if api.Called("POST", "/loans") != 0 {
		t.Error("invalid drafts must not reach the API")
	}
}

func TestHandleApply_APIFailure(t *testing.T) {
	h, api, rc, _ := newTestHandler(t)
	api.Fail("POST", "/loans", http.StatusServiceUnavailable)
	form := url.Values{"amount": {"10"}, "interest_rate": {"1"}, "due_date": {"2099-01-01"}}

	h.HandleApply(httptest.NewRecorder(), testutil.NewFormRequest("/loans", form, testutil.Member()))

	data := rc.Data.(applyData)
	if string(data.Error) != "Failed to submit loan application. Please try again." {
		t.Errorf("Error = %q", data.Error)
	}
}
