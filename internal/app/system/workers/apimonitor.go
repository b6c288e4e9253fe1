// internal/app/system/workers/apimonitor.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Pinger is the one call the monitor needs. *apiclient.Client satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// APIMonitor is a background worker that pings the REST API on an interval,
// exports the result as the wakala_api_up gauge, and logs when reachability
// changes.
type APIMonitor struct {
	api      Pinger
	log      *zap.Logger
	interval time.Duration
	timeout  time.Duration
	up       prometheus.Gauge

	mu   sync.Mutex
	last *bool

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewAPIMonitor creates the worker and registers its gauge with reg.
//
// Parameters:
//   - api: what to ping
//   - reg: registry for the wakala_api_up gauge
//   - logger: zap logger for reachability changes
//   - interval: how often to ping (e.g., 30 seconds)
//   - timeout: budget for one ping
func NewAPIMonitor(api Pinger, reg prometheus.Registerer, logger *zap.Logger, interval, timeout time.Duration) *APIMonitor {
	up := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "wakala",
		Name:      "api_up",
		Help:      "1 when the last ping of the REST API succeeded, 0 otherwise.",
	})
	reg.MustRegister(up)
	return &APIMonitor{
		api:      api,
		log:      logger,
		interval: interval,
		timeout:  timeout,
		up:       up,
		stopCh:   make(chan struct{}),
	}
}

// Start pings once immediately, then begins the background loop.
func (w *APIMonitor) Start() {
	w.check()
	w.wg.Add(1)
	go w.run()
	w.log.Info("API monitor started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *APIMonitor) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("API monitor stopped")
}

func (w *APIMonitor) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.check()
		}
	}
}

// check pings once and records the outcome. It reports whether the API answered.
func (w *APIMonitor) check() bool {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	err := w.api.Ping(ctx)
	ok := err == nil
	if ok {
		w.up.Set(1)
	} else {
		w.up.Set(0)
	}

	w.mu.Lock()
	changed := w.last == nil || *w.last != ok
	w.last = &ok
	w.mu.Unlock()

	if changed {
		if ok {
			w.log.Info("REST API reachable")
		} else {
			w.log.Warn("REST API unreachable", zap.Error(err))
		}
	}
	return ok
}
