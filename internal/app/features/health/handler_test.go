package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wakaladigital/wakala/internal/app/features/health"
	"github.com/wakaladigital/wakala/internal/app/store/audit"
	"github.com/wakaladigital/wakala/internal/testutil"
	"go.uber.org/zap"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

var (
	up   = pingFunc(func(context.Context) error { return nil })
	down = pingFunc(func(context.Context) error { return errors.New("connection refused") })
)

type response struct {
	Status   string `json:"status"`
	API      string `json:"api"`
	Database string `json:"database"`
	Error    string `json:"error"`
}

func serve(t *testing.T, h *health.Handler) (int, response) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Serve(rec, httptest.NewRequest("GET", "/health", nil))

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want %q", ct, "application/json")
	}
	var resp response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return rec.Code, resp
}

func TestServe(t *testing.T) {
	tests := []struct {
		name     string
		api, db  health.Pinger
		code     int
		status   string
		apiState string
		dbState  string
	}{
		{"all up", up, up, http.StatusOK, "ok", "reachable", "connected"},
		{"no database", up, nil, http.StatusOK, "ok", "reachable", "disabled"},
		{"database down", up, down, http.StatusOK, "degraded", "reachable", "disconnected"},
		{"api down", down, up, http.StatusServiceUnavailable, "error", "unreachable", "connected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := serve(t, health.NewHandler(tt.api, tt.db, zap.NewNop()))
			if code != tt.code {
				t.Errorf("status code: got %d, want %d", code, tt.code)
			}
			if resp.Status != tt.status || resp.API != tt.apiState || resp.Database != tt.dbState {
				t.Errorf("response = %+v", resp)
			}
		})
	}
}

func TestServe_RealBackends(t *testing.T) {
	db := testutil.SetupTestDB(t)
	api := testutil.NewFakeAPI(t)

	code, resp := serve(t, health.NewHandler(api.Client(t), audit.New(db), zap.NewNop()))

	if code != http.StatusOK || resp.Status != "ok" {
		t.Errorf("code=%d response=%+v", code, resp)
	}
}

func TestServe_UnreachableAPI(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	client := api.Client(t)
	api.Server.Close()

	code, resp := serve(t, health.NewHandler(client, nil, zap.NewNop()))

	if code != http.StatusServiceUnavailable || resp.API != "unreachable" || resp.Error == "" {
		t.Errorf("code=%d response=%+v", code, resp)
	}
}
