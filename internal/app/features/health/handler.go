// internal/app/features/health/handler.go
package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/wakaladigital/wakala/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Pinger is anything that can report whether it answers.
// *apiclient.Client and *audit.Store satisfy it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	API Pinger
	DB  Pinger // nil when the audit database is not configured
	Log *zap.Logger
}

// NewHandler constructs a health Handler. db may be nil.
func NewHandler(api, db Pinger, logger *zap.Logger) *Handler {
	return &Handler{
		API: api,
		DB:  db,
		Log: logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	API      string `json:"api"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// When the API answers: 200 and
//
//	{ "status":"ok", "api":"reachable", "database":"connected" }
//
// The audit database is optional, so its failure only degrades the status.
// When the API is unreachable: 503 and
//
//	{ "status":"error", "api":"unreachable", "database":"…", "error":"…" }
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	resp := healthResponse{Status: "ok", API: "reachable", Database: "disabled"}
	code := http.StatusOK

	if h.DB != nil {
		resp.Database = "connected"
		if err := h.DB.Ping(ctx); err != nil {
			h.Log.Warn("health-check: mongo ping failed", zap.Error(err))
			resp.Status = "degraded"
			resp.Database = "disconnected"
			resp.Error = err.Error()
		}
	}

	if err := h.API.Ping(ctx); err != nil {
		h.Log.Error("health-check: API unreachable", zap.Error(err))
		resp.Status = "error"
		resp.API = "unreachable"
		resp.Error = err.Error()
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
