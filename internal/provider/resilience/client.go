// Package resilience wraps outbound provider calls with retries and a
// circuit breaker so a flaky routing, geocoding or weather API degrades to
// the caller's fallback path instead of hanging the request.
package resilience

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

var (
	// ErrBreakerOpen is returned when the circuit breaker rejects the call.
	ErrBreakerOpen = errors.New("provider circuit breaker is open")
)

// ClientConfig holds configuration for the resilient HTTP client.
type ClientConfig struct {
	// Name identifies this client for breaker naming and logs.
	Name string

	// Timeout bounds each individual HTTP attempt (default 10s).
	Timeout time.Duration

	// MaxRetries is the number of retry attempts after the first try
	// (default 3).
	MaxRetries uint64

	// InitialBackoff is the first retry delay (default 100ms).
	InitialBackoff time.Duration

	// MaxBackoff caps the retry delay (default 5s).
	MaxBackoff time.Duration

	// BreakerTimeout is how long the breaker stays open before probing
	// (default 60s).
	BreakerTimeout time.Duration
}

// DefaultClientConfig returns sensible defaults for a named provider.
func DefaultClientConfig(name string) ClientConfig {
	return ClientConfig{
		Name:           name,
		Timeout:        10 * time.Second,
		MaxRetries:     3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
		BreakerTimeout: 60 * time.Second,
	}
}

// Client is an HTTP client with exponential-backoff retries behind a
// circuit breaker. Transient failures (network errors, 5xx) are retried;
// breaker-open and client errors are not.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	config     ClientConfig
}

// NewClient creates a new resilient HTTP client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.InitialBackoff == 0 {
		cfg.InitialBackoff = 100 * time.Millisecond
	}
	if cfg.MaxBackoff == 0 {
		cfg.MaxBackoff = 5 * time.Second
	}
	if cfg.BreakerTimeout == 0 {
		cfg.BreakerTimeout = 60 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    newBreaker[*http.Response](cfg.Name, cfg.BreakerTimeout),
		config:     cfg,
	}
}

// Do executes the request with retries and breaker protection.
// The response body is the caller's responsibility to close.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.config.InitialBackoff
	bo.MaxInterval = c.config.MaxBackoff
	bo.MaxElapsedTime = 0 // retries bounded by count, not wall clock

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.config.MaxRetries), ctx)

	var lastResp *http.Response

	attempt := func() error {
		resp, err := c.breaker.Execute(func() (*http.Response, error) { //nolint:bodyclose // returned to caller
			r, err := c.httpClient.Do(req.Clone(ctx))
			if err != nil {
				return nil, err
			}
			// 5xx counts as a breaker failure and is retried.
			if r.StatusCode >= 500 {
				return r, &UpstreamError{StatusCode: r.StatusCode}
			}
			return r, nil
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrBreakerOpen)
			}
			if resp != nil {
				lastResp = resp
			}
			return err
		}

		lastResp = resp
		return nil
	}

	if err := backoff.Retry(attempt, policy); err != nil {
		// A 5xx that exhausted retries still carries a usable response.
		if lastResp != nil {
			return lastResp, nil
		}
		return nil, err
	}

	return lastResp, nil
}

// BreakerState returns the current circuit breaker state.
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// Healthy reports whether the breaker is closed.
func (c *Client) Healthy() bool {
	return c.breaker.State() == gobreaker.StateClosed
}

// UpstreamError represents an HTTP 5xx from the provider.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return "upstream error: " + http.StatusText(e.StatusCode)
}

// Doer is the subset of Client that provider clients depend on, so tests
// can substitute a plain http.Client or a stub.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

var _ Doer = (*Client)(nil)

// DoCtx executes the request with the given context attached.
func (c *Client) DoCtx(ctx context.Context, req *http.Request) (*http.Response, error) {
	return c.Do(req.WithContext(ctx))
}
