// internal/app/bootstrap/routes.go
package bootstrap

import (
	"crypto/sha256"
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dashboardfeature "github.com/wakaladigital/wakala/internal/app/features/dashboard"
	errorsfeature "github.com/wakaladigital/wakala/internal/app/features/errors"
	groupsfeature "github.com/wakaladigital/wakala/internal/app/features/groups"
	healthfeature "github.com/wakaladigital/wakala/internal/app/features/health"
	homefeature "github.com/wakaladigital/wakala/internal/app/features/home"
	investmentsfeature "github.com/wakaladigital/wakala/internal/app/features/investments"
	loansfeature "github.com/wakaladigital/wakala/internal/app/features/loans"
	loginfeature "github.com/wakaladigital/wakala/internal/app/features/login"
	logoutfeature "github.com/wakaladigital/wakala/internal/app/features/logout"
	"github.com/wakaladigital/wakala/internal/app/system/auth"
	"github.com/wakaladigital/wakala/internal/app/system/limits"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, back-end connections, schema setup,
// and the Startup hook have completed.
//
// Wakala initializes the template engine, applies session and CSRF
// middleware, and mounts feature routers for every area of the client:
// home, login, dashboard, groups, investments and loans.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestSize(limits.MaxFormSize))

	// Probes and metrics sit outside sessions and CSRF.
	var auditDB healthfeature.Pinger
	if deps.AuditStore != nil {
		auditDB = deps.AuditStore
	}
	healthHandler := healthfeature.NewHandler(deps.API, auditDB, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	r.Group(func(r chi.Router) {
		if !secure {
			r.Use(plaintextCSRF)
		}
		r.Use(csrfProtect(appCfg.SessionKey, secure, errorsfeature.NewHandler()))

		// Loads SessionUser into context if signed in.
		r.Use(sessionMgr.LoadSessionUser)

		homeHandler := homefeature.NewHandler(logger)
		r.Mount("/", homefeature.Routes(homeHandler))

		loginHandler := loginfeature.NewHandler(deps.API, sessionMgr, errLog, deps.Audit, deps.LoginLimiter, logger)
		r.Mount("/login", loginfeature.Routes(loginHandler))

		logoutHandler := logoutfeature.NewHandler(deps.API, sessionMgr, deps.Audit, logger)
		r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

		errorsHandler := errorsfeature.NewHandler()
		r.Get("/forbidden", errorsHandler.Forbidden)
		r.Get("/unauthorized", errorsHandler.Unauthorized)

		dashboardHandler := dashboardfeature.NewHandler(deps.API, errLog, appCfg.DashboardConcurrency, logger)
		r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

		groupsHandler := groupsfeature.NewHandler(deps.API, errLog, deps.Audit, logger)
		r.Mount("/groups", groupsfeature.Routes(groupsHandler, sessionMgr))

		investmentsHandler := investmentsfeature.NewHandler(deps.API, errLog, appCfg.DashboardConcurrency, logger)
		r.Mount("/investments", investmentsfeature.Routes(investmentsHandler, sessionMgr))

		loansHandler := loansfeature.NewHandler(deps.API, errLog, deps.Audit, logger)
		r.Mount("/loans", loansfeature.Routes(loansHandler, sessionMgr))

		r.NotFound(errorsHandler.NotFound)
	})

	return r, nil
}

// csrfProtect derives the CSRF key from the session key so one secret
// configures both.
func csrfProtect(sessionKey string, secure bool, errs *errorsfeature.Handler) func(http.Handler) http.Handler {
	key := sha256.Sum256([]byte("csrf:" + sessionKey))
	return csrf.Protect(key[:],
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(errs.Forbidden)),
	)
}

// plaintextCSRF tells gorilla/csrf the request arrived over plain HTTP so
// local development without TLS passes its origin checks.
func plaintextCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}
