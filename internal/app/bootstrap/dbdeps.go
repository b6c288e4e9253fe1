// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/wakaladigital/wakala/internal/app/apiclient"
	"github.com/wakaladigital/wakala/internal/app/store/audit"
	"github.com/wakaladigital/wakala/internal/app/system/auditlog"
	"github.com/wakaladigital/wakala/internal/app/system/ratelimit"
	"github.com/wakaladigital/wakala/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds the back-end dependencies for the app: the REST API client
// that every page talks through, and the optional audit database.
type DBDeps struct {
	API     *apiclient.Client
	Metrics *prometheus.Registry

	// Nil when mongo_uri is blank.
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	AuditStore    *audit.Store

	Audit        *auditlog.Logger
	LoginLimiter *ratelimit.LoginLimiter
	APIMonitor   *workers.APIMonitor
}
