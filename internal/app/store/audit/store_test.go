package audit_test

import (
	"testing"
	"time"

	"github.com/wakaladigital/wakala/internal/app/store/audit"
	"github.com/wakaladigital/wakala/internal/testutil"
)

func TestStore_Log(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	event := audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    42,
		Username:  "amina",
		IP:        "192.168.1.1",
		UserAgent: "TestBrowser/1.0",
		Success:   true,
	}

	if err := store.Log(ctx, event); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.Query(ctx, audit.QueryFilter{UserID: 42})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID.IsZero() {
		t.Error("expected ID to be auto-generated")
	}
	if events[0].Username != "amina" {
		t.Errorf("Username = %q, want amina", events[0].Username)
	}
}

func TestStore_Log_AutoSetsTimestamp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	before := time.Now().Add(-time.Second)
	if err := store.Log(ctx, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLogout, Success: true}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	after := time.Now().Add(time.Second)

	events, err := store.Query(ctx, audit.QueryFilter{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ts := events[0].Timestamp
	if ts.Before(before) || ts.After(after) {
		t.Errorf("timestamp %v outside [%v, %v]", ts, before, after)
	}
}

func TestStore_Query_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}

	base := time.Now().UTC().Add(-time.Hour)
	seed := []audit.Event{
		{Timestamp: base, Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, UserID: 1, Success: true},
		{Timestamp: base.Add(time.Minute), Category: audit.CategoryActivity, EventType: audit.EventGroupCreated, UserID: 1, Success: true},
		{Timestamp: base.Add(2 * time.Minute), Category: audit.CategoryActivity, EventType: audit.EventLoanStatusChanged, UserID: 2, Success: false,
			FailureReason: "illegal transition", Details: map[string]string{"from": "PAID", "to": "APPROVED"}},
	}
	for _, e := range seed {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter audit.QueryFilter
		want   int
	}{
		{"all", audit.QueryFilter{}, 3},
		{"by user", audit.QueryFilter{UserID: 1}, 2},
		{"by category", audit.QueryFilter{Category: audit.CategoryActivity}, 2},
		{"by event type", audit.QueryFilter{EventType: audit.EventLoanStatusChanged}, 1},
		{"limit", audit.QueryFilter{Limit: 1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := store.Query(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Query failed: %v", err)
			}
			if len(events) != tt.want {
				t.Errorf("got %d events, want %d", len(events), tt.want)
			}
		})
	}

	latest, err := store.Query(ctx, audit.QueryFilter{Limit: 1})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if latest[0].EventType != audit.EventLoanStatusChanged {
		t.Errorf("newest event = %s, want %s", latest[0].EventType, audit.EventLoanStatusChanged)
	}
	if latest[0].Details["from"] != "PAID" {
		t.Errorf("details not stored: %v", latest[0].Details)
	}
}

func TestStore_Ping(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := audit.New(db).Ping(ctx); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}
