package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wakaladigital/wakala/internal/domain/models"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-01", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-02-01T10:30:00Z", time.Date(2024, 2, 1, 10, 30, 0, 0, time.UTC)},
		{"2024-02-01T10:30:00.5+03:00", time.Date(2024, 2, 1, 7, 30, 0, 500_000_000, time.UTC)},
		{"2024-02-01T10:30:00.123456", time.Date(2024, 2, 1, 10, 30, 0, 123_456_000, time.UTC)},
		{"2024-02-01 10:30:00", time.Date(2024, 2, 1, 10, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := models.ParseTimestamp(tt.in)
			if err != nil {
				t.Fatalf("ParseTimestamp(%q) error: %v", tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got.Time, tt.want)
			}
		})
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	for _, in := range []string{"", "yesterday", "01/02/2024"} {
		if _, err := models.ParseTimestamp(in); err == nil {
			t.Errorf("ParseTimestamp(%q) expected error", in)
		}
	}
}

func TestTimestamp_JSON(t *testing.T) {
	var v struct {
		A models.Timestamp `json:"a"`
		B models.Timestamp `json:"b"`
		C models.Timestamp `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a": "2024-01-01", "b": null, "c": ""}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.A.Year() != 2024 {
		t.Errorf("A = %v, want 2024-01-01", v.A.Time)
	}
	if !v.B.IsZero() || !v.C.IsZero() {
		t.Error("null and empty timestamps should decode to zero")
	}

	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"a":"2024-01-01T00:00:00Z","b":null,"c":null}`
	if string(out) != want {
		t.Errorf("marshal = %s, want %s", out, want)
	}

	if err := json.Unmarshal([]byte(`{"a": 12}`), &v); err == nil {
		t.Error("numeric timestamp should be rejected")
	}
}

func TestTimestamp_DateLabel(t *testing.T) {
	if got := models.MustTimestamp("2024-03-09").DateLabel(); got != "Mar 9, 2024" {
		t.Errorf("DateLabel = %q", got)
	}
	if got := (models.Timestamp{}).DateLabel(); got != "" {
		t.Errorf("zero DateLabel = %q, want empty", got)
	}
}

func TestTimestamp_AfterComparesInstants(t *testing.T) {
	// 10:00 in Nairobi is 07:00 UTC, earlier than 08:00 UTC.
	nairobi := models.MustTimestamp("2024-01-01T10:00:00+03:00")
	utc := models.MustTimestamp("2024-01-01T08:00:00Z")
	if !utc.After(nairobi) {
		t.Error("expected 08:00Z to be after 10:00+03:00")
	}
}

func TestSavingsGroup_CanInvest(t *testing.T) {
	tests := []struct {
		tier int
		want bool
	}{
		{0, false},
		{1, false},
		{2, true},
		{3, true},
	}
	for _, tt := range tests {
		g := models.SavingsGroup{TierLevel: tt.tier}
		if got := g.CanInvest(); got != tt.want {
			t.Errorf("tier %d CanInvest = %v, want %v", tt.tier, got, tt.want)
		}
	}
}

func TestEnums_Valid(t *testing.T) {
	if !models.RiskHigh.Valid() || models.RiskTolerance("EXTREME").Valid() {
		t.Error("RiskTolerance.Valid")
	}
	if !models.TransactionWithdrawal.Valid() || models.TransactionType("REFUND").Valid() {
		t.Error("TransactionType.Valid")
	}
	if !models.InvestmentRealEstate.Valid() || models.InvestmentType("CRYPTO").Valid() {
		t.Error("InvestmentType.Valid")
	}
	if !models.LoanPaid.Valid() || models.LoanStatus("OVERDUE").Valid() {
		t.Error("LoanStatus.Valid")
	}
	for _, it := range models.InvestmentTypes {
		if it.Label() == string(it) {
			t.Errorf("InvestmentType %s has no label", it)
		}
	}
	if models.RiskLow.Label() != "Low Risk" {
		t.Errorf("RiskLow.Label = %q", models.RiskLow.Label())
	}
}

func TestUser_DisplayName(t *testing.T) {
	tests := []struct {
		u    models.User
		want string
	}{
		{models.User{Username: "amina", FirstName: "Amina", LastName: "Otieno"}, "Amina Otieno"},
		{models.User{Username: "amina", FirstName: "Amina"}, "Amina"},
		{models.User{Username: "amina"}, "amina"},
	}
	for _, tt := range tests {
		if got := tt.u.DisplayName(); got != tt.want {
			t.Errorf("DisplayName = %q, want %q", got, tt.want)
		}
	}
}

func TestInvestment_DecodesDecimalStrings(t *testing.T) {
	var inv models.Investment
	raw := `{"id": 1, "amount": "50.10", "current_value": 60.25, "annual_return_rate": "8.5", "start_date": "2024-02-01"}`
	if err := json.Unmarshal([]byte(raw), &inv); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !inv.Amount.Equal(decimal.RequireFromString("50.10")) {
		t.Errorf("Amount = %s", inv.Amount)
	}
	if !inv.CurrentValue.Equal(decimal.RequireFromString("60.25")) {
		t.Errorf("CurrentValue = %s", inv.CurrentValue)
	}
}
