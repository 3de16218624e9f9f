// Package httpc provides the outbound HTTP client used by the extraction
// core. It wraps resty with timeout, retry with linear backoff, and
// same-origin request pacing.
package httpc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// FetchError is returned when the retry budget for a URL is exhausted. It is
// the transient half of the error taxonomy; parse failures use a different
// type so callers can tell them apart.
type FetchError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// StatusError is returned for a non-200 response below 500. These are raised
// explicitly rather than swallowed as empty content, and are not retried.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.StatusCode, e.URL)
}

// Client wraps resty.Client with retry logic and timeout handling.
type Client struct {
	resty      *resty.Client
	limiter    *rate.Limiter
	maxRetries int
	timeout    time.Duration
	logger     *slog.Logger
}

// Config holds configuration for the HTTP client.
type Config struct {
	Timeout           time.Duration
	MaxRetries        int
	RetryBaseDelay    time.Duration
	RequestsPerSecond float64
	UserAgent         string
	Logger            *slog.Logger
}

// DefaultConfig returns sensible defaults for the fetch client.
func DefaultConfig() Config {
	return Config{
		Timeout:           30 * time.Second,
		MaxRetries:        3,
		RetryBaseDelay:    500 * time.Millisecond,
		RequestsPerSecond: 4,
		UserAgent:         "filmveer/1.0",
	}
}

// New creates a fetch client with the given configuration.
func New(config Config) *Client {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.RetryBaseDelay == 0 {
		config.RetryBaseDelay = 500 * time.Millisecond
	}
	if config.RequestsPerSecond == 0 {
		config.RequestsPerSecond = 4
	}
	if config.UserAgent == "" {
		config.UserAgent = "filmveer/1.0"
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	restyClient := resty.New().
		SetTimeout(config.Timeout).
		SetRetryCount(config.MaxRetries).
		SetHeader("User-Agent", config.UserAgent).
		SetHeader("Accept", "text/html, application/xhtml+xml, */*").
		SetHeader("Accept-Language", "en-US,en;q=0.9")

	// Retry on network errors, upstream 5xx, and same-origin rate limiting.
	restyClient.AddRetryCondition(func(r *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		return r.StatusCode() >= 500 || r.StatusCode() == 429
	})

	// Linear backoff: baseDelay x attemptNumber.
	base := config.RetryBaseDelay
	restyClient.SetRetryAfter(func(c *resty.Client, r *resty.Response) (time.Duration, error) {
		attempt := 1
		if r != nil && r.Request != nil && r.Request.Attempt > 0 {
			attempt = r.Request.Attempt
		}
		return base * time.Duration(attempt), nil
	})

	limiter := rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1)
	restyClient.OnBeforeRequest(func(c *resty.Client, r *resty.Request) error {
		return limiter.Wait(r.Context())
	})

	return &Client{
		resty:      restyClient,
		limiter:    limiter,
		maxRetries: config.MaxRetries,
		timeout:    config.Timeout,
		logger:     config.Logger,
	}
}

// Get fetches a page and returns its HTML body.
func (c *Client) Get(ctx context.Context, url string) (string, error) {
	resp, err := c.resty.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", &FetchError{URL: url, Attempts: c.maxRetries + 1, Err: err}
	}

	status := resp.StatusCode()
	switch {
	case status == 200:
		return resp.String(), nil
	case status >= 500 || status == 429:
		// Retry budget already spent inside resty.
		return "", &FetchError{
			URL:      url,
			Attempts: c.maxRetries + 1,
			Err:      fmt.Errorf("upstream status %d", status),
		}
	default:
		return "", &StatusError{URL: url, StatusCode: status}
	}
}

// SetHeader sets a default header for all requests.
func (c *Client) SetHeader(key, value string) {
	c.resty.SetHeader(key, value)
}

// Timeout returns the configured per-request timeout.
func (c *Client) Timeout() time.Duration { return c.timeout }

// MaxRetries returns the configured retry budget.
func (c *Client) MaxRetries() int { return c.maxRetries }
