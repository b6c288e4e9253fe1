// internal/app/apiclient/errors.go
package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// APIError is any non-2xx response from the API.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
	RequestID  string

	retryAfter time.Duration
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("apiclient: %s %s: HTTP %d: %s [request_id=%s]", e.Method, e.Path, e.StatusCode, msg, e.RequestID)
}

func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized covers both 401 and 403, which the API uses interchangeably
// for an expired or missing token.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// ValidationError is a 400 or 422 response carrying field-level messages in
// the {"field": ["message", ...]} shape. It wraps the APIError.
type ValidationError struct {
	Fields   map[string][]string
	NonField []string
	Err      *APIError
}

func (e *ValidationError) Error() string {
	var parts []string
	parts = append(parts, e.NonField...)
	for _, name := range e.FieldNames() {
		parts = append(parts, name+": "+strings.Join(e.Fields[name], " "))
	}
	return fmt.Sprintf("apiclient: %s %s: validation failed: %s", e.Err.Method, e.Err.Path, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return e.Err }

// FieldNames returns the field keys in sorted order.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// First returns the first message for field, or "".
func (e *ValidationError) First(field string) string {
	if msgs := e.Fields[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// TransportError means no usable HTTP response arrived.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("apiclient: %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsValidation reports whether err carries field-level validation messages.
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// IsTransport reports whether err is a network-level failure.
func IsTransport(err error) bool {
	var terr *TransportError
	return errors.As(err, &terr)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsNotFound()
}

// IsUnauthorized reports whether the API rejected the caller's token.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsUnauthorized()
}

// IsForbidden reports whether err is a 403 from the API. Callers that can
// tell a permission refusal from an expired session check this before
// IsUnauthorized.
func IsForbidden(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden
}

// messageKeys are the keys the API uses for a single top-level message.
var messageKeys = []string{"detail", "error", "message"}

func newAPIError(method, path string, status int, requestID string, body []byte) *APIError {
	e := &APIError{StatusCode: status, Method: method, Path: path, RequestID: requestID}
	if len(body) == 0 {
		return e
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		e.Message = truncate(strings.TrimSpace(string(body)), 200)
		return e
	}
	for _, k := range messageKeys {
		var s string
		if raw, ok := obj[k]; ok && json.Unmarshal(raw, &s) == nil {
			e.Message = s
			break
		}
	}
	return e
}

// asValidation builds a ValidationError from a 400/422 body, or returns nil
// when the body carries no field or non-field messages.
func asValidation(apiErr *APIError, body []byte) *ValidationError {
	if apiErr.StatusCode != http.StatusBadRequest && apiErr.StatusCode != http.StatusUnprocessableEntity {
		return nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil
	}

	verr := &ValidationError{Fields: map[string][]string{}, Err: apiErr}
	for key, raw := range obj {
		msgs := decodeMessages(raw)
		if len(msgs) == 0 {
			continue
		}
		switch key {
		case "detail", "error", "message":
			continue
		case "non_field_errors":
			verr.NonField = append(verr.NonField, msgs...)
		default:
			verr.Fields[key] = msgs
		}
	}
	if len(verr.Fields) == 0 && len(verr.NonField) == 0 {
		return nil
	}
	return verr
}

// decodeMessages accepts "msg" or ["msg", ...].
func decodeMessages(raw json.RawMessage) []string {
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return many
	}
	var one string
	if err := json.Unmarshal(raw, &one); err == nil && one != "" {
		return []string{one}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "…"
}
