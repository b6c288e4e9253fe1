// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/wakaladigital/wakala/internal/app/apiclient"
	uierrors "github.com/wakaladigital/wakala/internal/app/features/errors"
	"github.com/wakaladigital/wakala/internal/app/system/auditlog"
	"github.com/wakaladigital/wakala/internal/app/system/auth"
	"github.com/wakaladigital/wakala/internal/app/system/authz"
	"github.com/wakaladigital/wakala/internal/app/system/navigation"
	"github.com/wakaladigital/wakala/internal/app/system/ratelimit"
	"github.com/wakaladigital/wakala/internal/app/system/timeouts"
	"github.com/wakaladigital/wakala/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// Handler exchanges credentials with the API and keeps the issued token in
// the session cookie.
type Handler struct {
	API        *apiclient.Client
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Limiter    *ratelimit.LoginLimiter
	Log        *zap.Logger
	Render     uierrors.RenderFunc
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Error     string
	Username  string
	ReturnURL string
}

// NewHandler wires the login handler. audit and limiter may be nil.
func NewHandler(api *apiclient.Client, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, limiter *ratelimit.LoginLimiter, logger *zap.Logger) *Handler {
	return &Handler{
		API:        api,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		AuditLog:   audit,
		Limiter:    limiter,
		Log:        logger,
		Render:     templates.Render,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := authz.UserCtx(r); ok {
		http.Redirect(w, r, navigation.SafeBackURL(r, navigation.LoginReturn), http.StatusSeeOther)
		return
	}

	h.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Sign In", "/"),
		ReturnURL: query.Get(r, "return"),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		h.renderFormWithError(w, r, http.StatusOK, "Please enter your username and password.", username)
		return
	}

	if ok, reason := h.Limiter.Check(r, username); !ok {
		h.AuditLog.LoginFailed(r.Context(), r, username, "rate limited")
		h.renderFormWithError(w, r, http.StatusTooManyRequests, reason, username)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	sess, err := h.API.Login(ctx, username, password)
	if err != nil {
		switch {
		case apiclient.IsTransport(err):
			h.Log.Warn("login: API unreachable", zap.Error(err))
			h.renderFormWithError(w, r, http.StatusBadGateway, "The service is unavailable. Please try again later.", username)
		case rejected(err):
			h.AuditLog.LoginFailed(ctx, r, username, "invalid credentials")
			h.renderFormWithError(w, r, http.StatusOK, "Invalid username or password.", username)
		default:
			h.Log.Error("login: API error", zap.String("username", username), zap.Error(err))
			h.renderFormWithError(w, r, http.StatusOK, "Sign-in failed. Please try again.", username)
		}
		return
	}

	u := auth.SessionUser{
		ID:       sess.User.ID,
		Username: sess.User.Username,
		Name:     sess.User.DisplayName(),
		Email:    sess.User.Email,
		Token:    sess.Token,
	}
	if err := h.SessionMgr.SignIn(w, r, u); err != nil {
		h.ErrLog.LogServerError(w, r, "save session failed", err, "Could not sign you in.", "/login")
		return
	}

	h.Limiter.ResetUser(username)
	h.AuditLog.LoginSuccess(ctx, r, sess.User)
	h.Log.Info("user signed in", zap.Int64("user_id", u.ID), zap.String("username", u.Username))

	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.LoginReturn), http.StatusSeeOther)
}

// rejected reports whether the API turned the credentials down, as opposed
// to failing.
func rejected(err error) bool {
	return apiclient.IsValidation(err) || apiclient.IsUnauthorized(err) || badRequest(err)
}

func badRequest(err error) bool {
	var apiErr *apiclient.APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, status int, msg, username string) {
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	h.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Sign In", "/"),
		Error:     msg,
		Username:  username,
		ReturnURL: strings.TrimSpace(r.FormValue("return")),
	})
}
