package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	t.Parallel()

	attempts := 0
	err := Retry(context.Background(), RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond}, nil, func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetry_ExhaustsAndWrapsLastError(t *testing.T) {
	t.Parallel()

	lastErr := errors.New("still down")
	attempts := 0
	err := Retry(context.Background(), RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond}, nil, func(context.Context) error {
		attempts++
		return lastErr
	})
	if !errors.Is(err, ErrRetryExhausted) {
		t.Fatalf("expected ErrRetryExhausted, got %v", err)
	}
	if !errors.Is(err, lastErr) {
		t.Fatalf("expected wrapped last error, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetry_PermanentErrorStopsImmediately(t *testing.T) {
	t.Parallel()

	permanent := errors.New("bad request")
	attempts := 0
	err := Retry(context.Background(), RetryConfig{MaxRetries: 5, BaseDelay: time.Millisecond}, func(err error) bool {
		return !errors.Is(err, permanent)
	}, func(context.Context) error {
		attempts++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", attempts)
	}
}

func TestRetry_ContextCancelStopsBackoff(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	errCh := make(chan error, 1)
	go func() {
		errCh <- Retry(ctx, RetryConfig{MaxRetries: 10, BaseDelay: time.Minute}, nil, func(context.Context) error {
			attempts++
			return errors.New("transient")
		})
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("retry did not stop after cancellation")
	}
}
