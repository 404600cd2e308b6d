// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Configuration constants for the Jarvis API.
const (
	// DefaultBaseURL is the API root of a locally running Jarvis server.
	DefaultBaseURL = "http://localhost:8001/api"

	// DefaultTimeout bounds each request.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxResponseSize caps response bodies.
	// SECURITY: Response size limit prevents memory exhaustion.
	DefaultMaxResponseSize = 10 * 1024 * 1024

	// DefaultBreakerFailures is the consecutive failure count that opens the breaker.
	DefaultBreakerFailures = 5

	// DefaultBreakerCooldown is how long the open breaker rejects requests.
	DefaultBreakerCooldown = 30 * time.Second

	userAgent = "jarvis-tui"
)

// Client talks to the Jarvis REST API. It is safe for concurrent use.
//
// There is no retry policy: every call is one request. Repeated transport
// failures or 5xx replies open a circuit breaker so a dead server fails
// fast instead of stalling the UI for a full timeout on each action.
type Client struct {
	baseURL         string
	httpClient      *http.Client
	logger          *zap.Logger
	limiter         *rate.Limiter
	breaker         *gobreaker.CircuitBreaker
	maxResponseSize int64

	mu             sync.RWMutex
	token          string
	onUnauthorized func()
}

// NewClient creates a client for the API rooted at baseURL, for example
// "http://localhost:8001/api".
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// PERFORMANCE: Connection pooling, one server host.
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		logger:          zap.NewNop(),
		limiter:         rate.NewLimiter(rate.Inf, 1),
		maxResponseSize: DefaultMaxResponseSize,
	}
	c.breaker = c.newBreaker(DefaultBreakerFailures, DefaultBreakerCooldown)
	return c
}

// WithTimeout sets the per-request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

// WithLogger sets the logger used for request tracing.
func (c *Client) WithLogger(logger *zap.Logger) *Client {
	if logger != nil {
		c.logger = logger.Named("api")
	}
	return c
}

// WithRateLimit caps the sustained request rate. rps <= 0 disables limiting.
func (c *Client) WithRateLimit(rps float64, burst int) *Client {
	if rps <= 0 {
		c.limiter = rate.NewLimiter(rate.Inf, 1)
		return c
	}
	if burst < 1 {
		burst = 1
	}
	c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	return c
}

// WithBreaker configures the circuit breaker.
func (c *Client) WithBreaker(failures int, cooldown time.Duration) *Client {
	c.breaker = c.newBreaker(failures, cooldown)
	return c
}

// WithMaxResponseSize caps response bodies at n bytes.
func (c *Client) WithMaxResponseSize(n int64) *Client {
	if n > 0 {
		c.maxResponseSize = n
	}
	return c
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetToken sets the bearer token sent with every request. Empty clears it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// OnUnauthorized registers fn to run whenever an authenticated request gets
// a 401. It runs on the calling goroutine before the error is returned.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

// BreakerState reports the circuit breaker state: closed, half-open or open.
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

func (c *Client) newBreaker(failures int, cooldown time.Duration) *gobreaker.CircuitBreaker {
	if failures < 1 {
		failures = DefaultBreakerFailures
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "jarvis-api",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(failures)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			// Client errors and cancellations say nothing about server health.
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.Status < 500
			}
			return errors.Is(err, context.Canceled)
		},
	})
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, in, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, in, out)
}

func (c *Client) put(ctx context.Context, path string, in, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, in, out)
}

// do performs one request and decodes a 2xx body into out.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	token := c.Token()
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.send(ctx, method, path, payload, token)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: %v", ErrServerUnavailable, err)
		}
		if token != "" && IsUnauthorized(err) {
			c.mu.RLock()
			hook := c.onUnauthorized
			c.mu.RUnlock()
			if hook != nil {
				hook()
			}
		}
		return err
	}

	body, _ := result.([]byte)
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse %s %s response: %w", method, path, err)
	}
	return nil
}

// send issues the HTTP request and returns the body of a 2xx reply.
func (c *Client) send(ctx context.Context, method, path string, payload []byte, token string) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	// SECURITY: Log method, path and status only. Headers carry the token and
	// bodies carry passwords and SMTP credentials.
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	body, err := c.readResponse(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			Status: resp.StatusCode,
			Detail: parseDetail(body),
			Method: method,
			Path:   path,
		}
	}
	return body, nil
}

// readResponse reads at most maxResponseSize bytes.
// SECURITY: Response size limit prevents memory exhaustion.
func (c *Client) readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > c.maxResponseSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, c.maxResponseSize)
	}
	return body, nil
}
