// Package omdb is a client for the OMDb title lookup API.
//
// Every lookup is throttled, bounded by a timeout and guarded by a circuit
// breaker. Lookups resolve to metadata.Result values; transport problems
// become metadata.ReasonUnavailable rather than Go errors.
package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/popcornpicks/popcornpicks-server/internal/metrics"
	"github.com/popcornpicks/popcornpicks-server/internal/ratelimit"
)

const (
	defaultTimeout      = 5 * time.Second
	defaultRPS          = 5.0
	defaultRetryBackoff = 200 * time.Millisecond
	maxResponseBytes    = 1 << 20

	breakerName           = "omdb"
	breakerTripFailures   = 5
	breakerOpenTimeout    = 30 * time.Second
	breakerCountsInterval = time.Minute
)

// Config configures a Client.
type Config struct {
	BaseURL string
	APIKey  string
	// Timeout bounds each attempt, including waiting for the rate limiter.
	Timeout time.Duration
	// MaxRetries is the number of extra attempts after an unavailable result.
	MaxRetries int
	// RequestsPerSecond throttles outgoing calls.
	RequestsPerSecond float64
	// RetryBackoff is the first retry delay; it doubles per attempt.
	RetryBackoff time.Duration
}

// Client is a rate-limited OMDb API client.
type Client struct {
	http       *http.Client
	baseURL    *url.URL
	apiKey     string
	timeout    time.Duration
	maxRetries int
	backoff    time.Duration
	limiter    *ratelimit.KeyedRateLimiter
	breaker    *gobreaker.CircuitBreaker[[]byte]
	logger     *slog.Logger

	// decode is swapped in tests to exercise panic recovery.
	decode func([]byte, any) error
}

// New creates an OMDb client.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid OMDb base URL %q", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaultRPS
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = defaultRetryBackoff
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	burst := max(1, int(cfg.RequestsPerSecond))

	c := &Client{
		http:       &http.Client{Timeout: cfg.Timeout},
		baseURL:    base,
		apiKey:     cfg.APIKey,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.RetryBackoff,
		limiter:    ratelimit.New(cfg.RequestsPerSecond, burst),
		logger:     logger,
		decode:     json.Unmarshal,
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    breakerCountsInterval,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTripFailures
		},
		// A caller giving up is not a sign of an unhealthy upstream.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			metrics.SetBreakerState(name, from.String(), to.String(), breakerLevel(to))
		},
	})
	return c, nil
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// BreakerState reports the circuit breaker state, e.g. "closed".
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

// doRequest performs one throttled GET with the given lookup parameters and
// returns the body of a 2xx response.
func (c *Client) doRequest(ctx context.Context, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx, c.baseURL.Host); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	q := c.baseURL.Query()
	for k, v := range params {
		q[k] = v
	}
	if c.apiKey != "" {
		q.Set("apikey", c.apiKey)
	}
	u := *c.baseURL
	u.RawQuery = q.Encode()

	return c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "PopcornPicks/1.0")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("execute request: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return body, nil
		case resp.StatusCode == http.StatusUnauthorized:
			return nil, ErrUnauthorized
		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, ErrRateLimited
		case resp.StatusCode >= 500:
			return nil, ErrServer
		default:
			return nil, fmt.Errorf("%w %d", ErrUnexpected, resp.StatusCode)
		}
	})
}

func breakerLevel(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
