package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisRateLimiter_Allow_PerMinute(t *testing.T) {
	_, client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client, "portal", Window{Duration: time.Minute, Limit: 5})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		allowed, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed, "6th request should be denied")
}

func TestRedisRateLimiter_SameInstantRequestsAllCount(t *testing.T) {
	_, client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client, "portal", Window{Duration: time.Minute, Limit: 2})
	fixed := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return fixed }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, err := limiter.Allow(ctx, "k")
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	allowed, err := limiter.Allow(ctx, "k")
	require.NoError(t, err)
	assert.False(t, allowed)

	n, err := limiter.Count(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestRedisRateLimiter_SlidingWindow(t *testing.T) {
	_, client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client, "portal", Window{Duration: time.Minute, Limit: 2})
	clock := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return clock }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, err := limiter.Allow(ctx, "k")
		require.NoError(t, err)
		require.True(t, allowed)
	}

	clock = clock.Add(30 * time.Second)
	allowed, err := limiter.Allow(ctx, "k")
	require.NoError(t, err)
	assert.False(t, allowed, "still inside the window")

	clock = clock.Add(91 * time.Second)
	allowed, err = limiter.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, allowed, "earlier requests slid out")
}

func TestRedisRateLimiter_MultipleWindows(t *testing.T) {
	_, client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client, "portal",
		Window{Duration: time.Minute, Limit: 10},
		Window{Duration: time.Hour, Limit: 3},
	)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := limiter.Allow(ctx, "k")
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	allowed, err := limiter.Allow(ctx, "k")
	require.NoError(t, err)
	assert.False(t, allowed, "denied by the hourly window")
}

func TestRedisRateLimiter_KeysAreIndependent(t *testing.T) {
	_, client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client, "portal", Window{Duration: time.Minute, Limit: 1})
	ctx := context.Background()

	allowed, err := limiter.Allow(ctx, "a")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.Allow(ctx, "a")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = limiter.Allow(ctx, "b")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisRateLimiter_Reset(t *testing.T) {
	mr, client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client, "portal", Window{Duration: time.Minute, Limit: 1})
	ctx := context.Background()

	_, err := limiter.Allow(ctx, "k")
	require.NoError(t, err)
	require.NotEmpty(t, mr.Keys())

	require.NoError(t, limiter.Reset(ctx, "k"))
	assert.Empty(t, mr.Keys())

	allowed, err := limiter.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisRateLimiter_ZeroLimitAllowsEverything(t *testing.T) {
	_, client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client, "portal", Window{Duration: time.Minute, Limit: 0})

	for i := 0; i < 20; i++ {
		allowed, err := limiter.Allow(context.Background(), "k")
		require.NoError(t, err)
		assert.True(t, allowed)
	}
}

func TestRedisRateLimiter_RedisDown(t *testing.T) {
	mr, client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client, "portal", Window{Duration: time.Minute, Limit: 1})
	mr.Close()

	_, err := limiter.Allow(context.Background(), "k")
	assert.Error(t, err)
}
