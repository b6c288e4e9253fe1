// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/wakaladigital/wakala/internal/app/apiclient"
	"github.com/wakaladigital/wakala/internal/app/store/audit"
	"github.com/wakaladigital/wakala/internal/app/system/auditlog"
	"github.com/wakaladigital/wakala/internal/app/system/ratelimit"
	"github.com/wakaladigital/wakala/internal/app/system/timeouts"
	"github.com/wakaladigital/wakala/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ConnectDB builds the API client and, when configured, connects to the
// audit database.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	api, err := apiclient.NewClient(appCfg.APIBaseURL,
		apiclient.WithHTTPClient(&http.Client{Timeout: 3 * appCfg.APITimeout}),
		apiclient.WithLogger(logger.Named("apiclient")),
		apiclient.WithRetryMax(appCfg.APIRetryMax),
		apiclient.WithMetrics(apiclient.NewMetrics(reg)),
	)
	if err != nil {
		return DBDeps{}, fmt.Errorf("api client: %w", err)
	}

	deps := DBDeps{
		API:          api,
		Metrics:      reg,
		LoginLimiter: ratelimit.NewLoginLimiter(),
		APIMonitor:   workers.NewAPIMonitor(api, reg, logger.Named("apimonitor"), appCfg.APIPingInterval, timeouts.Ping()),
	}

	if appCfg.MongoURI == "" {
		logger.Info("mongo_uri not set; audit trail is log-only")
		deps.Audit = auditlog.New(nil, logger.Named("audit"), logOnly(appCfg.AuditLog))
		return deps, nil
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(appCfg.MongoURI))
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	deps.MongoClient = client
	deps.MongoDatabase = client.Database(appCfg.MongoDatabase)
	deps.AuditStore = audit.New(deps.MongoDatabase)
	deps.Audit = auditlog.New(deps.AuditStore, logger.Named("audit"), appCfg.AuditLog)
	return deps, nil
}

// logOnly downgrades database audit modes when there is no database.
func logOnly(mode string) string {
	if auditlog.NeedsDB(mode) {
		return auditlog.ModeLog
	}
	return mode
}

// EnsureSchema creates the audit indexes when the audit database is in use.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.AuditStore == nil {
		return nil
	}
	if err := deps.AuditStore.EnsureIndexes(ctx); err != nil {
		logger.Error("audit index creation failed", zap.Error(err))
		return fmt.Errorf("audit indexes: %w", err)
	}
	return nil
}
