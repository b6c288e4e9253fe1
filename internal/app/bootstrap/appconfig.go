// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//
// AppConfig carries everything specific to the Wakala web client: where
// the REST API lives, how patiently to call it, how sessions are signed,
// and where (if anywhere) the audit trail is written.
type AppConfig struct {
	// REST API
	APIBaseURL      string        // Root of the savings/investment/loan API (e.g., http://localhost:8000/api)
	APITimeout      time.Duration // Budget for a single read; mutations get a multiple of it
	APIRetryMax     int           // Retries for idempotent requests on 429/5xx
	APIPingInterval time.Duration // How often the background monitor pings the API

	// DashboardConcurrency bounds the per-group investment fetches.
	DashboardConcurrency int

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: wakala-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// MongoDB holds the optional audit trail only.
	MongoURI      string
	MongoDatabase string

	// AuditLog is one of off, log, db, all.
	AuditLog string

	// SiteName is shown in every page header.
	SiteName string
}
