package resilience

import (
	"context"
	"errors"
	"time"
)

// ErrRetryExhausted wraps the last attempt's error once every retry has been
// spent.
var ErrRetryExhausted = errors.New("retry attempts exhausted")

// RetryConfig bounds a retried operation. Delay doubles after each failed
// attempt up to MaxDelay.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

func NormalizeRetryConfig(cfg RetryConfig) RetryConfig {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 250 * time.Millisecond
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 8 * time.Second
	}
	return cfg
}

// Retry runs fn up to cfg.MaxRetries+1 times with exponential backoff
// between attempts. It stops early when ctx is done or when fn reports the
// error as permanent via the shouldRetry filter (nil filter retries every
// error).
func Retry(ctx context.Context, cfg RetryConfig, shouldRetry func(error) bool, fn func(context.Context) error) error {
	cfg = NormalizeRetryConfig(cfg)

	var lastErr error
	delay := cfg.BaseDelay
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if shouldRetry != nil && !shouldRetry(lastErr) {
			return lastErr
		}
		if attempt == cfg.MaxRetries {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return errors.Join(ErrRetryExhausted, lastErr)
}
