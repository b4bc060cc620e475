package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cartribe/backend/internal/domain"
	lru "github.com/hashicorp/golang-lru/v2"
)

// MemoryCache is a bounded, thread-safe in-memory listing cache.
// Entries older than the TTL read as misses but stay in place until they are
// overwritten or pushed out by the LRU capacity limit.
type MemoryCache struct {
	entries *lru.Cache[string, domain.CacheEntry]
	ttl     time.Duration

	mu  sync.RWMutex
	now func() time.Time
}

// NewMemoryCache creates an in-memory cache holding at most capacity listings
func NewMemoryCache(capacity int, ttl time.Duration) (*MemoryCache, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive, got %s", ttl)
	}
	entries, err := lru.New[string, domain.CacheEntry](capacity)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}
	return &MemoryCache{
		entries: entries,
		ttl:     ttl,
		now:     time.Now,
	}, nil
}

// SetClock replaces the time source used for freshness checks
func (c *MemoryCache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *MemoryCache) clock() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now()
}

// Get retrieves a fresh entry from the cache. Only fresh entries are marked as recently used.
func (c *MemoryCache) Get(ctx context.Context, key string) (*domain.CacheEntry, error) {
	entry, ok := c.entries.Peek(key)
	if !ok {
		return nil, domain.ErrCacheMiss
	}

	// Stale entries are left for the next Set to overwrite
	if c.clock().Sub(entry.StoredAt) >= c.ttl {
		return nil, domain.ErrCacheMiss
	}
	c.entries.Get(key)

	return &domain.CacheEntry{Listing: entry.Listing.Clone(), StoredAt: entry.StoredAt}, nil
}

// Set stores a listing, replacing any previous entry for the key
func (c *MemoryCache) Set(ctx context.Context, key string, listing *domain.Listing) error {
	if listing == nil {
		return fmt.Errorf("%w: nil listing", domain.ErrInvalidRequest)
	}
	c.entries.Add(key, domain.CacheEntry{Listing: listing.Clone(), StoredAt: c.clock()})
	return nil
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.entries.Remove(key)
	return nil
}

// Len returns the number of entries held, stale ones included
func (c *MemoryCache) Len() int {
	return c.entries.Len()
}

// Purge removes all items from the cache
func (c *MemoryCache) Purge() {
	c.entries.Purge()
}
