package errors

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"net"
	"net/http"
	"time"

	"benri/internal/logging"
)

// RetryConfig configures retry behavior.
type RetryConfig struct {
	MaxAttempts  int           // retries after the first attempt (default 3)
	BaseDelay    time.Duration // base delay for exponential backoff (default 1s)
	MaxDelay     time.Duration // cap on the backoff delay (default 30s)
	JitterFactor float64       // randomization factor, 0.25 = ±25%
}

// DefaultRetryConfig returns sensible defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		BaseDelay:    1 * time.Second,
		MaxDelay:     30 * time.Second,
		JitterFactor: 0.25,
	}
}

// HTTPStatusError carries an HTTP status from an API call so retry logic can
// distinguish transient server-side failures from permanent client errors.
type HTTPStatusError struct {
	Status int
	Body   string
}

func (e *HTTPStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http status %d", e.Status)
	}
	return fmt.Sprintf("http status %d: %s", e.Status, e.Body)
}

// IsTransient reports whether err is worth retrying: network timeouts,
// 429 and 5xx statuses.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status == http.StatusTooManyRequests ||
			statusErr.Status >= http.StatusInternalServerError
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

// Retry executes fn with exponential backoff, stopping on the first success,
// the first non-transient error, or context cancellation.
func Retry(ctx context.Context, config RetryConfig, logger logging.Logger, fn func(ctx context.Context) error) error {
	logger = logging.OrNop(logger)
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.BaseDelay <= 0 {
		config.BaseDelay = time.Second
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 30 * time.Second
	}

	var lastErr error
	for attempt := 0; attempt <= config.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		err := fn(ctx)
		if err == nil {
			if attempt > 0 {
				logger.Info("retry succeeded on attempt %d", attempt+1)
			}
			return nil
		}
		lastErr = err
		logger.Debug("attempt %d failed: %v", attempt+1, err)

		if !IsTransient(err) {
			return err
		}
		if attempt == config.MaxAttempts {
			logger.Warn("max retries (%d) exhausted", config.MaxAttempts+1)
			break
		}

		delay := calculateBackoff(attempt, config)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("context cancelled during retry: %w", ctx.Err())
		}
	}
	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// RetryWithResult executes a function returning a value with retry logic.
func RetryWithResult[T any](ctx context.Context, config RetryConfig, logger logging.Logger, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := Retry(ctx, config, logger, func(ctx context.Context) error {
		var innerErr error
		result, innerErr = fn(ctx)
		return innerErr
	})
	return result, err
}

func calculateBackoff(attempt int, config RetryConfig) time.Duration {
	delay := float64(config.BaseDelay) * math.Pow(2, float64(attempt))
	if config.JitterFactor > 0 {
		jitter := delay * config.JitterFactor * (2*rand.Float64() - 1)
		delay += jitter
	}
	if delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}
	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay)
}
