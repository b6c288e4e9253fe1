// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"github.com/wakaladigital/wakala/internal/app/resources"
	"github.com/wakaladigital/wakala/internal/app/system/timeouts"
	"github.com/wakaladigital/wakala/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after the back ends are
// connected, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()
	viewdata.Init(appCfg.SiteName)
	timeouts.Configure(timeouts.FromAPITimeout(appCfg.APITimeout))

	// An unreachable API is logged by the monitor; pages degrade per section.
	if deps.APIMonitor != nil {
		deps.APIMonitor.Start()
	}
	logger.Info("wakala web client ready", zap.String("api_base_url", appCfg.APIBaseURL))
	return nil
}
