// internal/app/apiclient/client.go
//
// Package apiclient is the gateway to the remote savings, investment and
// loan REST API. One Client is built at startup and shared; per-user calls
// go through WithToken.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const Version = "0.3.0"

// ErrInvalidConfig is returned by NewClient for an unusable base URL.
var ErrInvalidConfig = errors.New("apiclient: invalid configuration")

// Client talks to the REST API.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	token        string
	userAgent    string
	log          *zap.Logger
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	metrics      *Metrics
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, ErrInvalidConfig
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base URL: %v", ErrInvalidConfig, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("%w: base URL scheme must be http or https", ErrInvalidConfig)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("%w: base URL has no host", ErrInvalidConfig)
	}

	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		userAgent:    "wakala/" + Version,
		log:          zap.NewNop(),
		retryMax:     2,
		retryWaitMin: 200 * time.Millisecond,
		retryWaitMax: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// WithToken returns a copy of c that authenticates as the holder of token.
// The copy shares the underlying http.Client and metrics.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// request describes one API call. route is the path template used as the
// metrics label so ids do not explode label cardinality.
type request struct {
	method string
	path   string
	route  string
	body   any
}

func (c *Client) get(ctx context.Context, path, route string, result any) error {
	return c.do(ctx, request{method: http.MethodGet, path: path, route: route}, result)
}

func (c *Client) post(ctx context.Context, path, route string, body, result any) error {
	return c.do(ctx, request{method: http.MethodPost, path: path, route: route, body: body}, result)
}

func (c *Client) patch(ctx context.Context, path, route string, body, result any) error {
	return c.do(ctx, request{method: http.MethodPatch, path: path, route: route, body: body}, result)
}

// do performs req and decodes a 2xx body into result. Only GETs are retried,
// on transport errors, 5xx responses, and 429 with Retry-After.
func (c *Client) do(ctx context.Context, req request, result any) error {
	if !strings.HasPrefix(req.path, "/") {
		req.path = "/" + req.path
	}
	fullURL := c.baseURL + req.path

	var payload []byte
	if req.body != nil {
		b, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("apiclient: encode %s %s: %w", req.method, req.route, err)
		}
		payload = b
	}

	retries := 0
	if req.method == http.MethodGet {
		retries = c.retryMax
	}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			wait := c.backoff(attempt)
			var apiErr *APIError
			if errors.As(lastErr, &apiErr) && apiErr.retryAfter > 0 {
				wait = apiErr.retryAfter
			}
			c.log.Debug("retrying API request",
				zap.String("method", req.method),
				zap.String("route", req.route),
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait))
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return &TransportError{Method: req.method, Path: req.path, Err: ctx.Err()}
			}
		}

		retry, err := c.attempt(ctx, req, fullURL, payload, result)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry {
			return err
		}
	}
	return lastErr
}

// attempt issues one HTTP round trip. The bool reports whether a failure
// is worth retrying.
func (c *Client) attempt(ctx context.Context, req request, fullURL string, payload []byte, result any) (bool, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, fullURL, body)
	if err != nil {
		return false, fmt.Errorf("apiclient: build %s %s: %w", req.method, req.route, err)
	}

	requestID := uuid.New().String()
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-Request-ID", requestID)
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.observe(req.method, req.route, "error", elapsed)
		c.log.Warn("API request failed",
			zap.String("method", req.method),
			zap.String("route", req.route),
			zap.String("request_id", requestID),
			zap.Error(err))
		// A cancelled caller is final; anything else on the wire may be transient.
		return ctx.Err() == nil, &TransportError{Method: req.method, Path: req.path, Err: err}
	}
	defer resp.Body.Close()

	c.metrics.observe(req.method, req.route, statusClass(resp.StatusCode), elapsed)
	c.log.Debug("API request",
		zap.String("method", req.method),
		zap.String("route", req.route),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", elapsed),
		zap.String("request_id", requestID))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return ctx.Err() == nil, &TransportError{Method: req.method, Path: req.path, Err: err}
	}

	if resp.StatusCode >= 400 {
		apiErr := newAPIError(req.method, req.path, resp.StatusCode, requestID, respBody)
		if resp.StatusCode == http.StatusTooManyRequests {
			if secs, perr := strconv.Atoi(resp.Header.Get("Retry-After")); perr == nil && secs > 0 {
				apiErr.retryAfter = time.Duration(secs) * time.Second
				return true, apiErr
			}
		}
		if verr := asValidation(apiErr, respBody); verr != nil {
			return false, verr
		}
		return apiErr.IsServerError(), apiErr
	}

	if result != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return false, fmt.Errorf("apiclient: decode %s %s: %w", req.method, req.route, err)
		}
	}
	return false, nil
}

func (c *Client) backoff(attempt int) time.Duration {
	wait := c.retryWaitMin * time.Duration(1<<uint(attempt-1))
	if wait > c.retryWaitMax {
		wait = c.retryWaitMax
	}
	if quarter := int64(wait / 4); quarter > 0 {
		wait += time.Duration(rand.Int63n(quarter))
	}
	return wait
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	}
	return "2xx"
}

// list decodes either a bare JSON array or a paginated
// {"results": [...], "next": "..."} envelope.
type list[T any] struct {
	Items []T
	Next  string
}

func (l *list[T]) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var page struct {
			Results []T     `json:"results"`
			Next    *string `json:"next"`
		}
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return err
		}
		l.Items = page.Results
		if page.Next != nil {
			l.Next = *page.Next
		}
		return nil
	}
	return json.Unmarshal(trimmed, &l.Items)
}

// maxPages bounds how many next links getList follows.
const maxPages = 100

// getList GETs path and follows the envelope's next links until the last
// page. A failure on any page fails the whole list.
func getList[T any](ctx context.Context, c *Client, path, route string) ([]T, error) {
	var first list[T]
	if err := c.get(ctx, path, route, &first); err != nil {
		return nil, err
	}
	items, next := first.Items, first.Next
	for pages := 1; next != ""; pages++ {
		if pages == maxPages {
			return nil, fmt.Errorf("apiclient: GET %s: more than %d pages", route, maxPages)
		}
		nextPath, err := c.pathOf(next)
		if err != nil {
			return nil, fmt.Errorf("apiclient: GET %s: %w", route, err)
		}
		var page list[T]
		if err := c.get(ctx, nextPath, route, &page); err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
		next = page.Next
	}
	return items, nil
}

// pathOf converts a next link into a path under the base URL. Links that
// leave the API are refused so the token is never sent elsewhere.
func (c *Client) pathOf(link string) (string, error) {
	if strings.HasPrefix(link, "/") && !strings.HasPrefix(link, "//") {
		base, err := url.Parse(c.baseURL)
		if err != nil {
			return "", err
		}
		link = base.Scheme + "://" + base.Host + link
	}
	rest, ok := strings.CutPrefix(link, c.baseURL)
	if !ok || (rest != "" && rest[0] != '/' && rest[0] != '?') {
		return "", fmt.Errorf("next link %q is outside %s", link, c.baseURL)
	}
	if rest == "" || rest[0] == '?' {
		rest = "/" + rest
	}
	return rest, nil
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}
