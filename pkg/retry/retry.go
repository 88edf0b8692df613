package retry

import (
	"context"
	"fmt"
	"time"
)

// Config holds retry behavior for transient failures
type Config struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	TotalTimeout  time.Duration
}

// DefaultConfig returns the retry policy used for startup connections
func DefaultConfig() Config {
	return Config{
		MaxAttempts:   10,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      10 * time.Second,
		BackoffFactor: 2.0,
		TotalTimeout:  time.Minute,
	}
}

// OnRetry is called after each failed attempt with the delay before the next one
type OnRetry func(attempt int, err error, nextDelay time.Duration)

// Do executes fn with exponential backoff. The optional notify callback fires
// between attempts; context cancellation or TotalTimeout aborts the loop.
func Do(ctx context.Context, cfg Config, fn func() error, notify OnRetry) error {
	if cfg.TotalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.TotalTimeout)
		defer cancel()
	}

	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return abortErr(attempt-1, err, lastErr)
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == cfg.MaxAttempts {
			return fmt.Errorf("max retry attempts (%d) exceeded: %w", cfg.MaxAttempts, lastErr)
		}

		if notify != nil {
			notify(attempt, lastErr, delay)
		}

		select {
		case <-ctx.Done():
			return abortErr(attempt, ctx.Err(), lastErr)
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * cfg.BackoffFactor)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}
}

func abortErr(attempts int, ctxErr, lastErr error) error {
	if lastErr != nil {
		return fmt.Errorf("retry aborted after %d attempts: %w (last error: %v)", attempts, ctxErr, lastErr)
	}
	return fmt.Errorf("retry aborted: %w", ctxErr)
}
