package promotions

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/stashline/stashline-backend/pkg/db/models"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type countingLister struct {
	mu      sync.Mutex
	calls   int
	rows    []models.Promotion
	err     error
	release chan struct{} // when set, loads block until closed
}

func (l *countingLister) ListActiveByStore(ctx context.Context, storeID uuid.UUID) ([]models.Promotion, error) {
	l.mu.Lock()
	l.calls++
	release := l.release
	l.mu.Unlock()
	if release != nil {
		<-release
	}
	return l.rows, l.err
}

func (l *countingLister) callCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func TestListCache_ServesFromCacheWithinTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC)}
	lister := &countingLister{rows: []models.Promotion{{ID: uuid.New()}}}
	cache := NewListCache(lister, time.Minute, clock.Now)
	storeID := uuid.New()

	first, err := cache.Get(context.Background(), storeID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := cache.Get(context.Background(), storeID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lister.callCount() != 1 {
		t.Fatalf("expected a single load, got %d", lister.callCount())
	}
	if len(first) != 1 || len(second) != 1 || first[0].ID != second[0].ID {
		t.Fatal("expected cached rows to match")
	}
}

func TestListCache_ReloadsAfterTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC)}
	lister := &countingLister{}
	cache := NewListCache(lister, time.Minute, clock.Now)
	storeID := uuid.New()

	if _, err := cache.Get(context.Background(), storeID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clock.Advance(time.Minute + time.Second)
	if _, err := cache.Get(context.Background(), storeID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lister.callCount() != 2 {
		t.Fatalf("expected reload after TTL, got %d loads", lister.callCount())
	}
}

func TestListCache_DedupesConcurrentLoads(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC)}
	release := make(chan struct{})
	lister := &countingLister{release: release}
	cache := NewListCache(lister, time.Minute, clock.Now)
	storeID := uuid.New()

	const waiters = 8
	var wg sync.WaitGroup
	errs := make([]error, waiters)
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, errs[idx] = cache.Get(context.Background(), storeID)
		}(i)
	}

	// let the goroutines pile up on the in-flight load, then release it
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for idx, err := range errs {
		if err != nil {
			t.Fatalf("waiter %d: unexpected error: %v", idx, err)
		}
	}
	if lister.callCount() != 1 {
		t.Fatalf("expected concurrent gets to share one load, got %d", lister.callCount())
	}
}

func TestListCache_DoesNotCacheFailures(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC)}
	lister := &countingLister{err: errors.New("boom")}
	cache := NewListCache(lister, time.Minute, clock.Now)
	storeID := uuid.New()

	if _, err := cache.Get(context.Background(), storeID); err == nil {
		t.Fatal("expected load error")
	}

	lister.mu.Lock()
	lister.err = nil
	lister.mu.Unlock()

	if _, err := cache.Get(context.Background(), storeID); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if lister.callCount() != 2 {
		t.Fatalf("expected failed load to be retried, got %d loads", lister.callCount())
	}
}

func TestListCache_InvalidateForcesReload(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC)}
	lister := &countingLister{}
	cache := NewListCache(lister, time.Minute, clock.Now)
	storeID := uuid.New()
	otherStore := uuid.New()

	if _, err := cache.Get(context.Background(), storeID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := cache.Get(context.Background(), otherStore); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cache.Invalidate(storeID)

	if _, err := cache.Get(context.Background(), storeID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := cache.Get(context.Background(), otherStore); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lister.callCount() != 3 {
		t.Fatalf("expected invalidation to reload only the target store, got %d loads", lister.callCount())
	}
}
