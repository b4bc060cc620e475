package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cartribe/backend/internal/domain"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "listing:"

// RedisCache stores listings in Redis so several API instances share lookups.
// Redis expires keys after the TTL; StoredAt is still checked on read.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisClient builds a client from a redis:// URL
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

// NewRedisCache creates a Redis-backed listing cache
func NewRedisCache(client *redis.Client, ttl time.Duration) (*RedisCache, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive, got %s", ttl)
	}
	return &RedisCache{client: client, ttl: ttl, now: time.Now}, nil
}

// SetClock replaces the time source used for freshness checks
func (c *RedisCache) SetClock(now func() time.Time) {
	c.now = now
}

// Ping checks connectivity
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrCacheUnavailable, err)
	}
	return nil
}

// Get retrieves a fresh entry from Redis
func (c *RedisCache) Get(ctx context.Context, key string) (*domain.CacheEntry, error) {
	raw, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCacheUnavailable, err)
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil || entry.Listing == nil {
		return nil, domain.ErrCacheMiss
	}
	if c.now().Sub(entry.StoredAt) >= c.ttl {
		return nil, domain.ErrCacheMiss
	}
	return &entry, nil
}

// Set stores a listing with the cache TTL
func (c *RedisCache) Set(ctx context.Context, key string, listing *domain.Listing) error {
	if listing == nil {
		return fmt.Errorf("%w: nil listing", domain.ErrInvalidRequest)
	}
	raw, err := json.Marshal(domain.CacheEntry{Listing: listing, StoredAt: c.now()})
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, redisKeyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrCacheUnavailable, err)
	}
	return nil
}

// Delete removes a value from Redis
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrCacheUnavailable, err)
	}
	return nil
}
