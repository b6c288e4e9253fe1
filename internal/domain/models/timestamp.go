// internal/domain/models/timestamp.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// timestampLayouts are tried in order when decoding API timestamps.
// The API emits RFC 3339 for created_at/start_date and bare dates for due_date.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// Timestamp is a calendar instant as returned by the API.
// The zero value means "not set".
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// ParseTimestamp parses s using every layout the API is known to emit.
// Values without a zone are interpreted as UTC.
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("models: unrecognised timestamp %q", s)
}

// MustTimestamp is ParseTimestamp for literals in tests and fixtures.
func MustTimestamp(s string) Timestamp {
	ts, err := ParseTimestamp(s)
	if err != nil {
		panic(err)
	}
	return ts
}

// UnmarshalJSON accepts a JSON string in any supported layout, or null.
func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*ts = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("models: timestamp must be a string: %w", err)
	}
	if s == "" {
		*ts = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

// MarshalJSON writes RFC 3339, or null for the zero value.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.Format(time.RFC3339Nano))
}

// After reports whether ts is strictly later than other as an instant.
func (ts Timestamp) After(other Timestamp) bool {
	return ts.Time.After(other.Time)
}

// DateLabel formats the date part for tables ("Jan 2, 2006"); empty when unset.
func (ts Timestamp) DateLabel() string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format("Jan 2, 2006")
}
