// Package fetch provides the outbound HTTP client used for every third-party API
// call: request pacing, exponential-backoff retry for transport-level failures and a
// circuit breaker in front of an unresponsive upstream.
package fetch

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"podcast_syncer/internal/domain"
	"podcast_syncer/internal/metrics"
)

// Config holds fetch client configuration.
type Config struct {
	// MaxRetries is the number of additional attempts after the first one.
	MaxRetries int
	// InitialBackoff is the base delay; attempt n waits InitialBackoff*2^n.
	InitialBackoff time.Duration
	// MaxBackoff caps the exponential part of the delay.
	MaxBackoff time.Duration
	// JitterFraction adds up to JitterFraction*delay on top of the delay.
	JitterFraction float64
	// Timeout for a single attempt.
	Timeout time.Duration
	// RequestsPerSecond paces attempts; zero disables pacing.
	RequestsPerSecond float64

	BreakerName     string
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// DefaultConfig returns a 1s base, 10s cap policy with three retries.
func DefaultConfig() Config {
	return Config{
		MaxRetries:        3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        10 * time.Second,
		JitterFraction:    0.1,
		Timeout:           30 * time.Second,
		RequestsPerSecond: 10,
		BreakerName:       "youtube-api",
		BreakerFailures:   5,
		BreakerTimeout:    time.Minute,
	}
}

var errServerStatus = errors.New("server error status")

// Client wraps an HTTP client with retry, pacing and circuit breaking. It also
// implements http.RoundTripper so higher level SDKs can be pointed at it.
type Client struct {
	base    *http.Client
	cfg     Config
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[*http.Response]
	logger  *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.JitterFraction == 0 {
		cfg.JitterFraction = 0.1
	}
	if cfg.BreakerName == "" {
		cfg.BreakerName = "upstream"
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	transport := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	c := &Client{
		base: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger.With("component", "fetch", "breaker", cfg.BreakerName),
	}

	metrics.CircuitBreakerState.WithLabelValues(cfg.BreakerName).Set(0)

	c.breaker = gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        cfg.BreakerName,
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state change", "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return c
}

// HTTPClient returns an *http.Client whose transport is this Client.
func (c *Client) HTTPClient() *http.Client {
	return &http.Client{Transport: c}
}

// RoundTrip implements http.RoundTripper using the configured MaxRetries.
func (c *Client) RoundTrip(req *http.Request) (*http.Response, error) {
	return c.FetchWithRetry(req, c.cfg.MaxRetries)
}

// FetchWithRetry issues req, retrying 5xx responses and network failures up to
// maxRetries more times. A 2xx or 4xx response is returned immediately. Once retries
// are exhausted the last 5xx response is returned as is, or the last network error.
func (c *Client) FetchWithRetry(req *http.Request, maxRetries int) (*http.Response, error) {
	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		resp, err := c.retry(req, maxRetries)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, errServerStatus
		}
		return resp, nil
	})

	switch {
	case errors.Is(err, errServerStatus):
		return resp, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.UpstreamRequests.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("%w: %w", domain.ErrTransientNetwork, err)
	}

	return resp, err
}

func (c *Client) retry(req *http.Request, maxRetries int) (*http.Response, error) {
	ctx := req.Context()

	var (
		resp *http.Response
		err  error
	)

	for attempt := 0; ; attempt++ {
		resp, err = c.attempt(req)

		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			metrics.UpstreamRequests.WithLabelValues("network_error").Inc()
		case resp.StatusCode >= http.StatusInternalServerError:
			metrics.UpstreamRequests.WithLabelValues("server_error").Inc()
		case resp.StatusCode >= http.StatusBadRequest:
			metrics.UpstreamRequests.WithLabelValues("client_error").Inc()
			return resp, nil
		default:
			metrics.UpstreamRequests.WithLabelValues("success").Inc()
			return resp, nil
		}

		if attempt >= maxRetries {
			break
		}

		backoff := c.Backoff(attempt)
		c.logger.Warn("request failed, retrying",
			"url", req.URL.Redacted(),
			"attempt", attempt+1,
			"backoff", backoff,
			"status", statusOf(resp),
			"error", err,
		)

		if resp != nil {
			drain(resp)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}

		metrics.UpstreamRetries.Inc()
	}

	if err != nil {
		return nil, fmt.Errorf("%w: after %d retries: %w", domain.ErrTransientNetwork, maxRetries, err)
	}
	return resp, nil
}

func (c *Client) attempt(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	r := req.Clone(ctx)
	if req.Body != nil && req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("reset request body: %w", err)
		}
		r.Body = body
	}

	return c.base.Do(r)
}

// Backoff returns the delay before retry number attempt+1:
// min(base*2^attempt, cap) plus up to JitterFraction of that.
func (c *Client) Backoff(attempt int) time.Duration {
	delay := c.cfg.InitialBackoff
	for i := 0; i < attempt && delay < c.cfg.MaxBackoff; i++ {
		delay *= 2
	}
	if c.cfg.MaxBackoff > 0 && delay > c.cfg.MaxBackoff {
		delay = c.cfg.MaxBackoff
	}

	if jitter := time.Duration(float64(delay) * c.cfg.JitterFraction); jitter > 0 {
		delay += rand.N(jitter)
	}
	return delay
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.base.CloseIdleConnections()
	return nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}

func statusOf(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

var _ http.RoundTripper = (*Client)(nil)
