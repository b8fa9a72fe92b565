// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jeranaias/proskill-tui/internal/logging"
)

const (
	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize caps how much of a response body is read.
	MaxResponseSize = 10 * 1024 * 1024

	// RequestIDHeader correlates client and server logs.
	RequestIDHeader = "X-Request-ID"

	defaultUserAgent = "proskill-tui"
)

// Credentials is the token store as seen by the client.
type Credentials interface {
	AccessToken(ctx context.Context) (string, bool)
	RememberToken(ctx context.Context, token string) error
	RememberTeamID(ctx context.Context, id int) error
}

// =============================================================================
// CLIENT
// =============================================================================

// Client issues requests against one backend origin. It keeps no session
// state of its own: every authenticated call reads the token from the
// Credentials at call time.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      Credentials
	timeout    time.Duration
	limiter    *rate.Limiter
	userAgent  string
	log        *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit throttles outgoing requests. A limit of zero means unlimited.
func WithRateLimit(limit float64, burst int) Option {
	return func(c *Client) {
		if limit <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(limit), burst)
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.log = logging.OrNop(l)
	}
}

// New creates a client for baseURL.
func New(baseURL string, creds Credentials, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		creds:      creds,
		limiter:    rate.NewLimiter(rate.Inf, 1),
		userAgent:  defaultUserAgent,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// BaseURL returns the backend origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// token returns the bearer token, logging the no-session fast path.
func (c *Client) token(ctx context.Context, op string) (string, bool) {
	token, ok := c.creds.AccessToken(ctx)
	if !ok {
		c.log.Debug("no session, skipping request", zap.String("op", op))
	}
	return token, ok
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

type request struct {
	method string
	path   string
	query  url.Values
	token  string // empty for unauthenticated calls
	body   interface{}
}

// do sends req and decodes a 2xx JSON body into out (when non-nil).
func (c *Client) do(ctx context.Context, req request, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &TransportError{Method: req.method, Path: req.path, Err: err}
	}

	u := c.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	requestID := uuid.NewString()
	c.setHeaders(httpReq, req.token, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Debug("api request failed",
			zap.String("method", req.method),
			zap.String("path", req.path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return &TransportError{Method: req.method, Path: req.path, Err: err}
	}
	defer resp.Body.Close()

	data, err := readResponse(resp)
	c.log.Debug("api request",
		zap.String("method", req.method),
		zap.String("path", req.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
		zap.String("request_id", requestID))
	if err != nil {
		return &TransportError{Method: req.method, Path: req.path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{
			Method:     req.method,
			Path:       req.path,
			StatusCode: resp.StatusCode,
			Body:       data,
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &TransportError{Method: req.method, Path: req.path, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request, token, requestID string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)
}

// readResponse reads the body up to MaxResponseSize.
func readResponse(resp *http.Response) ([]byte, error) {
	limited := io.LimitReader(resp.Body, MaxResponseSize+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(data) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeds %d bytes", MaxResponseSize)
	}
	return data, nil
}
