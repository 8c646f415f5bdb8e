package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"placefinder-api/internal/metrics"

	"golang.org/x/time/rate"
)

const (
	defaultHTTPTimeout = 25 * time.Second
	maxResponseBytes   = 16 << 20
)

// StatusError is returned when an upstream answers with a non-2xx status.
type StatusError struct {
	Provider   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider: %s: unexpected upstream status %d", e.Provider, e.StatusCode)
}

// UpstreamStatus extracts the HTTP status carried by err, if any.
func UpstreamStatus(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode, true
	}
	return 0, false
}

// ClientOptions configures the HTTP client shared by one upstream.
type ClientOptions struct {
	UserAgent  string
	Timeout    time.Duration
	RPS        float64
	HTTPClient *http.Client
	Metrics    *metrics.Metrics
}

// upstreamClient sends requests to a single upstream with a fixed User-Agent and rate limit.
type upstreamClient struct {
	name      string
	http      *http.Client
	userAgent string
	limiter   *rate.Limiter
	metrics   *metrics.Metrics
}

func newUpstreamClient(name string, opts ClientOptions) *upstreamClient {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RPS), 1)
	}

	return &upstreamClient{
		name:      name,
		http:      httpClient,
		userAgent: opts.UserAgent,
		limiter:   limiter,
		metrics:   opts.Metrics,
	}
}

// do sends req and returns the body of a 2xx response.
func (c *upstreamClient) do(ctx context.Context, req *http.Request) (body []byte, err error) {
	defer func() { c.metrics.ProviderCall(c.name, err) }()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("provider: %s: rate limiter: %w", c.name, err)
	}

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider: %s: request failed: %w", c.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Provider: c.name, StatusCode: resp.StatusCode}
	}

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("provider: %s: failed to read response: %w", c.name, err)
	}
	return body, nil
}
