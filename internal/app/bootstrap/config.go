// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/wakaladigital/wakala/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// minProdSessionKey is the shortest session key accepted in production.
const minProdSessionKey = 32

// appConfigKeys defines the configuration keys for Wakala.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: api_base_url, session_name, etc.
//   - Environment variables: WAKALA_API_BASE_URL, WAKALA_SESSION_NAME, etc.
//   - Command-line flags: --api_base_url, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "api_base_url", Default: "http://localhost:8000/api", Desc: "Base URL of the savings/investment/loan REST API"},
	{Name: "api_timeout", Default: "5s", Desc: "Timeout for a single API read (e.g., 5s, 1500ms)"},
	{Name: "api_retry_max", Default: 2, Desc: "Retries for idempotent API requests on 429/5xx"},
	{Name: "api_ping_interval", Default: "30s", Desc: "How often the API reachability monitor pings the API"},
	{Name: "dashboard_concurrency", Default: 4, Desc: "Maximum concurrent per-group investment fetches"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "wakala-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "12h", Desc: "Session cookie lifetime"},

	// Audit trail (optional)
	{Name: "mongo_uri", Default: "", Desc: "MongoDB connection URI for the audit trail (blank disables it)"},
	{Name: "mongo_database", Default: "wakala", Desc: "MongoDB database name"},
	{Name: "audit_log", Default: "log", Desc: "Audit logging: 'all' (db+log), 'db', 'log', or 'off'"},

	{Name: "site_name", Default: "Wakala", Desc: "Site name shown in page headers"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, WAKALA_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "WAKALA", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		APIBaseURL:           appValues.String("api_base_url"),
		APITimeout:           appValues.Duration("api_timeout", 5*time.Second),
		APIRetryMax:          appValues.Int("api_retry_max"),
		APIPingInterval:      appValues.Duration("api_ping_interval", 30*time.Second),
		DashboardConcurrency: appValues.Int("dashboard_concurrency"),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 12*time.Hour),

		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),
		AuditLog:      appValues.String("audit_log"),

		SiteName: appValues.String("site_name"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	u, err := url.Parse(appCfg.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api_base_url must be an absolute http(s) URL, got %q", appCfg.APIBaseURL)
	}
	if appCfg.APIRetryMax < 0 {
		return fmt.Errorf("api_retry_max must not be negative")
	}
	if appCfg.APIPingInterval <= 0 {
		return fmt.Errorf("api_ping_interval must be positive")
	}
	if appCfg.DashboardConcurrency < 1 {
		return fmt.Errorf("dashboard_concurrency must be at least 1")
	}

	if coreCfg != nil && coreCfg.Env == "prod" && len(appCfg.SessionKey) < minProdSessionKey {
		return fmt.Errorf("session_key must be at least %d characters in production", minProdSessionKey)
	}

	if !auditlog.ValidMode(appCfg.AuditLog) {
		return fmt.Errorf("audit_log must be one of all, db, log, off; got %q", appCfg.AuditLog)
	}
	if auditlog.NeedsDB(appCfg.AuditLog) && appCfg.MongoURI == "" {
		return fmt.Errorf("audit_log=%s requires mongo_uri", appCfg.AuditLog)
	}
	if appCfg.MongoURI != "" {
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
	}

	return nil
}
