package promotions

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stashline/stashline-backend/pkg/db/models"
)

// ActiveLister is the read path the cache fronts.
type ActiveLister interface {
	ListActiveByStore(ctx context.Context, storeID uuid.UUID) ([]models.Promotion, error)
}

const defaultCacheTTL = 60 * time.Second

// ListCache is a per-instance TTL cache over the active-promotion list query.
// Concurrent misses for the same store share a single load: the first caller
// performs the query and the rest wait on its result instead of stampeding
// the database. Expiry is driven by an injected clock so tests control time.
type ListCache struct {
	loader ActiveLister
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[uuid.UUID]*cacheEntry
}

type cacheEntry struct {
	done      chan struct{}
	promos    []models.Promotion
	err       error
	expiresAt time.Time
}

// NewListCache builds a cache over loader. A non-positive ttl falls back to
// the default; a nil clock uses time.Now.
func NewListCache(loader ActiveLister, ttl time.Duration, now func() time.Time) *ListCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if now == nil {
		now = time.Now
	}
	return &ListCache{
		loader:  loader,
		ttl:     ttl,
		now:     now,
		entries: make(map[uuid.UUID]*cacheEntry),
	}
}

// Get returns the store's active promotions, serving from cache when fresh.
func (c *ListCache) Get(ctx context.Context, storeID uuid.UUID) ([]models.Promotion, error) {
	for {
		c.mu.Lock()
		entry, ok := c.entries[storeID]
		if ok {
			select {
			case <-entry.done:
				if c.now().Before(entry.expiresAt) {
					promos, err := entry.promos, entry.err
					c.mu.Unlock()
					return promos, err
				}
				// stale: evict and reload below
				if c.entries[storeID] == entry {
					delete(c.entries, storeID)
				}
				c.mu.Unlock()
				continue
			default:
				// a load is already in flight; wait for it
				c.mu.Unlock()
				select {
				case <-entry.done:
					return entry.promos, entry.err
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
		}

		entry = &cacheEntry{done: make(chan struct{})}
		c.entries[storeID] = entry
		c.mu.Unlock()

		promos, err := c.loader.ListActiveByStore(ctx, storeID)

		c.mu.Lock()
		entry.promos = promos
		entry.err = err
		entry.expiresAt = c.now().Add(c.ttl)
		if err != nil && c.entries[storeID] == entry {
			// do not cache failures; the next caller retries
			delete(c.entries, storeID)
		}
		close(entry.done)
		c.mu.Unlock()
		return promos, err
	}
}

// Invalidate drops the cached list for a store. In-flight loads are left to
// finish; their waiters still receive the loaded result.
func (c *ListCache) Invalidate(storeID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[storeID]; ok {
		select {
		case <-entry.done:
			delete(c.entries, storeID)
		default:
		}
	}
}
