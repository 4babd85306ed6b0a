package glados

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"voicepack/internal/logging"
	"voicepack/internal/services"
)

// jitterWindow bounds the random delay added to each backoff so concurrent
// workers do not retry in lockstep.
const jitterWindow = 200 * time.Millisecond

// Settings carries the endpoint and retry knobs for the client.
type Settings struct {
	URL               string
	RequestTimeout    time.Duration
	MaxAttempts       int
	BackoffBase       time.Duration
	BackoffMultiplier float64
	BackoffCap        time.Duration
	RateLimit         float64 // requests per second, 0 disables pacing
}

// Client fetches synthesized audio with retry and backoff.
type Client struct {
	settings Settings
	http     *http.Client
	limiter  *rate.Limiter
	logger   *slog.Logger
	sleep    func(context.Context, time.Duration) error
	jitter   func() float64 // uniform in [0, 1)
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithSleep overrides the backoff sleep function (tests).
func WithSleep(sleep func(context.Context, time.Duration) error) Option {
	return func(c *Client) {
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

// WithJitter overrides the jitter source (tests). The function must return
// values in [0, 1).
func WithJitter(jitter func() float64) Option {
	return func(c *Client) {
		if jitter != nil {
			c.jitter = jitter
		}
	}
}

// NewClient constructs a client from settings.
func NewClient(settings Settings, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		settings: settings,
		http:     &http.Client{Timeout: settings.RequestTimeout},
		logger:   logging.NewComponentLogger(logger, "fetcher"),
		sleep:    sleepContext,
		jitter:   rand.Float64,
	}
	if settings.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(settings.RateLimit), 1)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Backoff returns the pre-jitter delay before retrying after the given
// 1-indexed attempt: min(cap, base * multiplier^(attempt-1)).
func (c *Client) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := float64(c.settings.BackoffBase) * math.Pow(c.settings.BackoffMultiplier, float64(attempt-1))
	if capped := float64(c.settings.BackoffCap); delay > capped {
		delay = capped
	}
	return time.Duration(delay)
}

type tag int

const (
	tagSuccess tag = iota
	tagTransient
	tagFatal
)

// Download fetches audio for text and streams it into the file at dst,
// creating parent directories as needed. On non-retryable failure or an
// exhausted attempt budget the last error is returned.
func (c *Client) Download(ctx context.Context, text, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("ensure output dir: %w", err)
	}

	maxAttempts := c.settings.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		result, err := c.attempt(ctx, text, dst)
		switch result {
		case tagSuccess:
			return nil
		case tagFatal:
			return err
		}
		lastErr = err

		if attempt == maxAttempts {
			break
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		delay := c.Backoff(attempt) + time.Duration(c.jitter()*float64(jitterWindow))
		retryLog := c.logger
		if index, ok := services.ItemIndexFromContext(ctx); ok {
			retryLog = retryLog.With(logging.Int("index", index))
		}
		retryLog.Debug("retrying fetch",
			logging.Int("attempt", attempt),
			logging.Duration("backoff", delay),
			logging.Error(err))
		if err := c.sleep(ctx, delay); err != nil {
			return err
		}
	}

	return &ExhaustedError{Attempts: maxAttempts, Err: lastErr}
}

// attempt performs one fetch and classifies the outcome. Transport-level
// errors are always tagged transient; HTTP statuses classify via
// StatusError.Transient.
func (c *Client) attempt(ctx context.Context, text, dst string) (tag, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.settings.URL, nil)
	if err != nil {
		return tagFatal, fmt.Errorf("build request: %w", err)
	}
	req.URL.RawQuery = url.Values{"text": {text}}.Encode()

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return tagFatal, ctx.Err()
		}
		return tagTransient, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{Code: resp.StatusCode}
		if statusErr.Transient() {
			return tagTransient, statusErr
		}
		return tagFatal, statusErr
	}

	out, err := os.Create(dst)
	if err != nil {
		return tagFatal, fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		_ = os.Remove(dst)
		return tagTransient, fmt.Errorf("stream body: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return tagTransient, fmt.Errorf("close %s: %w", dst, err)
	}
	return tagSuccess, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
