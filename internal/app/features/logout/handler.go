// internal/app/features/logout/handler.go
package logout

import (
	"context"
	"net/http"

	"github.com/wakaladigital/wakala/internal/app/apiclient"
	"github.com/wakaladigital/wakala/internal/app/system/auditlog"
	"github.com/wakaladigital/wakala/internal/app/system/auth"
	"github.com/wakaladigital/wakala/internal/app/system/authz"
	"github.com/wakaladigital/wakala/internal/app/system/timeouts"
	"github.com/wakaladigital/wakala/internal/app/system/viewdata"
	"go.uber.org/zap"
)

type Handler struct {
	API        *apiclient.Client
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
}

func NewHandler(api *apiclient.Client, sessionMgr *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		API:        api,
		Log:        logger,
		SessionMgr: sessionMgr,
		AuditLog:   audit,
	}
}

// HandleLogout handles POST /logout. The API token is revoked on a best-effort
// basis; the session cookie is cleared either way.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if api, ok := authz.APIFor(r, h.API); ok {
		if err := api.Logout(ctx); err != nil {
			h.Log.Warn("logout: token revoke failed", zap.Error(err))
		}
	}
	h.AuditLog.Logout(ctx, r)

	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
	}

	dest := viewdata.FlashURL("/login", "signed_out")

	// HTMX handling: use HX-Redirect to force a client-side navigation.
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", dest)
		w.WriteHeader(http.StatusOK)
		return
	}

	http.Redirect(w, r, dest, http.StatusSeeOther)
}
