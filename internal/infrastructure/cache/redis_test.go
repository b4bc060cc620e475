package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cartribe/backend/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis, *fakeClock) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	c, err := NewRedisCache(client, 10*time.Minute)
	require.NoError(t, err)
	clock := newFakeClock()
	c.SetClock(clock.Now)
	return c, mr, clock
}

func TestRedisCache_SetAndGet(t *testing.T) {
	c, mr, clock := newTestRedisCache(t)
	ctx := context.Background()

	listing := &domain.Listing{
		ID:     "mc-VIN1-a",
		Make:   "Nissan",
		Model:  "Skyline",
		Tag:    domain.TribeJDM,
		Images: []string{"https://img.test/a.jpg"},
	}
	require.NoError(t, c.Set(ctx, listing.ID, listing))

	assert.True(t, mr.Exists("listing:mc-VIN1-a"))
	assert.Equal(t, 10*time.Minute, mr.TTL("listing:mc-VIN1-a"))

	got, err := c.Get(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, listing, got.Listing)
	assert.True(t, clock.Now().Equal(got.StoredAt))
}

func TestRedisCache_Miss(t *testing.T) {
	c, _, _ := newTestRedisCache(t)

	_, err := c.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCache_ExpiresAfterTTL(t *testing.T) {
	c, mr, _ := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", &domain.Listing{ID: "k"}))
	mr.FastForward(10 * time.Minute)

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCache_StaleByStoredAt(t *testing.T) {
	c, _, clock := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", &domain.Listing{ID: "k"}))
	clock.Advance(11 * time.Minute)

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCache_CorruptEntryIsMiss(t *testing.T) {
	c, mr, _ := newTestRedisCache(t)

	require.NoError(t, mr.Set("listing:k", "not json"))

	_, err := c.Get(context.Background(), "k")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCache_Delete(t *testing.T) {
	c, mr, _ := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", &domain.Listing{ID: "k"}))
	require.NoError(t, c.Delete(ctx, "k"))
	assert.False(t, mr.Exists("listing:k"))
}

func TestRedisCache_Unavailable(t *testing.T) {
	c, mr, _ := newTestRedisCache(t)
	mr.Close()

	_, err := c.Get(context.Background(), "k")
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)
	assert.ErrorIs(t, c.Ping(context.Background()), domain.ErrCacheUnavailable)
}

func TestNewRedisClient(t *testing.T) {
	client, err := NewRedisClient("redis://localhost:6379/2")
	require.NoError(t, err)
	assert.Equal(t, 2, client.Options().DB)
	client.Close()

	_, err = NewRedisClient("://bad")
	assert.Error(t, err)
}
