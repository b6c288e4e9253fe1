// internal/app/features/errors/logger.go
package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/wakaladigital/wakala/internal/app/apiclient"
	"go.uber.org/zap"
)

// ErrorLogger logs a failure with request context and renders the matching
// error page, so handlers can bail out in one line.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger creates an ErrorLogger writing to logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	return []zap.Field{
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
}

// LogServerError logs at error level and renders a 500 page with userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.Log.Error(msg, e.fields(r, err)...)
	RenderServerError(w, r, userMsg, backURL)
}

// LogBadRequest logs at warn level and renders a 400 page with userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.Log.Warn(msg, e.fields(r, err)...)
	RenderBadRequest(w, r, userMsg, backURL)
}

// LogAPIError renders the page that fits an API client error: sign-in for
// a rejected token, not-found for 404, unavailable for transport failures,
// and a server error with userMsg otherwise.
func (e *ErrorLogger) LogAPIError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	var apiErr *apiclient.APIError
	switch {
	case apiclient.IsUnauthorized(err):
		e.Log.Info(msg, e.fields(r, err)...)
		RenderUnauthorized(w, r, "/login")
	case apiclient.IsNotFound(err):
		e.Log.Info(msg, e.fields(r, err)...)
		RenderNotFound(w, r, userMsg, backURL)
	case apiclient.IsTransport(err):
		e.Log.Error(msg, e.fields(r, err)...)
		RenderUnavailable(w, r, "The service could not be reached. Please try again shortly.", backURL)
	case stderrors.As(err, &apiErr):
		e.Log.Error(msg, append(e.fields(r, err), zap.Int("status", apiErr.StatusCode), zap.String("request_id", apiErr.RequestID))...)
		RenderServerError(w, r, userMsg, backURL)
	default:
		e.LogServerError(w, r, msg, err, userMsg, backURL)
	}
}
