package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

var errUnexpectedValue = errors.New("unexpected value")

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore()
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", time.Minute, loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_ExpiresPerEntryTTL(t *testing.T) {
	t.Parallel()

	current := time.Unix(1700000000, 0)
	var mu sync.Mutex
	now := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return current
	}
	advance := func(d time.Duration) {
		mu.Lock()
		current = current.Add(d)
		mu.Unlock()
	}

	store := NewStoreWithClock(now)
	ctx := context.Background()

	store.Set(ctx, "short", "a", 30*time.Second)
	store.Set(ctx, "long", "b", time.Hour)

	advance(45 * time.Second)

	if _, ok := store.Get(ctx, "short"); ok {
		t.Fatal("short entry should have expired")
	}
	if v, ok := store.Get(ctx, "long"); !ok || v != "b" {
		t.Fatal("long entry should still be cached")
	}
}

func TestStore_GetOrLoad_FailedLoadIsNotCached(t *testing.T) {
	t.Parallel()

	store := NewStore()
	ctx := context.Background()
	var calls atomic.Int32

	boom := errors.New("upstream down")
	_, err := store.GetOrLoad(ctx, "key", time.Minute, func(context.Context) (any, error) {
		calls.Add(1)
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}

	v, err := store.GetOrLoad(ctx, "key", time.Minute, func(context.Context) (any, error) {
		calls.Add(1)
		return "recovered", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "recovered" {
		t.Fatalf("unexpected value: %v", v)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("loader called %d times, want 2", got)
	}
}

func TestStore_GetOrLoad_AbandonedCallerStillPopulatesCache(t *testing.T) {
	t.Parallel()

	store := NewStore()
	release := make(chan struct{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := store.GetOrLoad(ctx, "key", time.Minute, func(context.Context) (any, error) {
		<-release
		return "late", nil
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}

	close(release)

	deadline := time.After(time.Second)
	for {
		if v, ok := store.Get(context.Background(), "key"); ok {
			if v != "late" {
				t.Fatalf("unexpected cached value: %v", v)
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("detached load never populated the cache")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore()
	ctx := context.Background()

	store.Set(ctx, "snapshot:2025:a", 1, 0)
	store.Set(ctx, "snapshot:2025:b", 2, 0)
	store.Set(ctx, "snapshot:2026:a", 3, 0)

	store.DeletePrefix(ctx, "snapshot:2025:")

	if _, ok := store.Get(ctx, "snapshot:2025:a"); ok {
		t.Fatal("prefixed entry should be gone")
	}
	if _, ok := store.Get(ctx, "snapshot:2026:a"); !ok {
		t.Fatal("unrelated entry should survive")
	}
}
