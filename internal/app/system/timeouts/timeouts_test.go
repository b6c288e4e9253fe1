package timeouts_test

import (
	"context"
	"testing"
	"time"

	"github.com/wakaladigital/wakala/internal/app/system/timeouts"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestConfigure_IgnoresZero(t *testing.T) {
	t.Cleanup(timeouts.Reset)

	timeouts.Configure(timeouts.Config{Short: 7 * time.Second})

	if got := timeouts.Short(); got != 7*time.Second {
		t.Errorf("Short = %v, want 7s", got)
	}
	if got := timeouts.Medium(); got != timeouts.DefaultMedium {
		t.Errorf("Medium = %v, want default", got)
	}
}

func TestFromAPITimeout(t *testing.T) {
	cfg := timeouts.FromAPITimeout(4 * time.Second)
	if cfg.Short != 4*time.Second || cfg.Medium != 8*time.Second || cfg.Long != 12*time.Second {
		t.Errorf("FromAPITimeout = %+v", cfg)
	}
	if (timeouts.FromAPITimeout(0) != timeouts.Config{}) {
		t.Error("zero api timeout should keep defaults")
	}
}

func TestReset(t *testing.T) {
	timeouts.Configure(timeouts.Config{Ping: time.Minute, Long: time.Hour})
	timeouts.Reset()

	want := timeouts.Config{
		Ping:   timeouts.DefaultPing,
		Short:  timeouts.DefaultShort,
		Medium: timeouts.DefaultMedium,
		Long:   timeouts.DefaultLong,
	}
	if got := timeouts.Current(); got != want {
		t.Errorf("Current = %+v, want %+v", got, want)
	}
}

func TestWithTimeout_LogsDeadline(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	log := zap.New(core)

	ctx, cancel := timeouts.WithTimeout(context.Background(), time.Millisecond, log, "dashboard load")
	<-ctx.Done()
	cancel()

	if logs.Len() != 1 {
		t.Fatalf("expected 1 warning, got %d", logs.Len())
	}
	if logs.All()[0].ContextMap()["operation"] != "dashboard load" {
		t.Errorf("unexpected fields: %v", logs.All()[0].ContextMap())
	}
}

func TestWithTimeout_NoLogWhenCancelledEarly(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	_, cancel := timeouts.WithTimeout(context.Background(), time.Hour, zap.New(core), "noop")
	cancel()

	if logs.Len() != 0 {
		t.Errorf("expected no warnings, got %d", logs.Len())
	}
}
