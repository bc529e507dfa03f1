// Package ratelimit counts requests per key in Redis sorted sets so that all
// portal instances share one sliding window.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Window allows at most Limit requests in any span of Duration.
// A non-positive Limit disables the window.
type Window struct {
	Duration time.Duration
	Limit    int
}

type RedisRateLimiter struct {
	client  *redis.Client
	prefix  string
	windows []Window
	now     func() time.Time
}

func NewRedisRateLimiter(client *redis.Client, prefix string, windows ...Window) *RedisRateLimiter {
	return &RedisRateLimiter{
		client:  client,
		prefix:  prefix,
		windows: windows,
		now:     time.Now,
	}
}

// Allow records one request for key and reports whether every window still
// has room. Refused requests are recorded too.
func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := l.now()
	for _, w := range l.windows {
		if w.Limit <= 0 {
			continue
		}
		allowed, err := l.checkWindow(ctx, key, w, now)
		if err != nil {
			return false, err
		}
		if !allowed {
			return false, nil
		}
	}
	return true, nil
}

func (l *RedisRateLimiter) checkWindow(ctx context.Context, key string, w Window, now time.Time) (bool, error) {
	redisKey := l.key(key, w.Duration)
	windowStart := now.Add(-w.Duration).UnixNano()
	nowNano := now.UnixNano()

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart))
	zcard := pipe.ZCard(ctx, redisKey)
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(nowNano), Member: fmt.Sprintf("%d-%s", nowNano, uuid.NewString())})
	pipe.Expire(ctx, redisKey, w.Duration+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to execute pipeline: %w", err)
	}

	return zcard.Val() < int64(w.Limit), nil
}

// Count returns the requests recorded for key in the window of the given duration.
func (l *RedisRateLimiter) Count(ctx context.Context, key string, window time.Duration) (int64, error) {
	redisKey := l.key(key, window)
	windowStart := l.now().Add(-window).UnixNano()

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart))
	zcard := pipe.ZCard(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to count requests: %w", err)
	}
	return zcard.Val(), nil
}

// Reset forgets every window of key.
func (l *RedisRateLimiter) Reset(ctx context.Context, key string) error {
	keys := make([]string, 0, len(l.windows))
	for _, w := range l.windows {
		keys = append(keys, l.key(key, w.Duration))
	}
	if len(keys) == 0 {
		return nil
	}
	if err := l.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to reset rate limit for %s: %w", key, err)
	}
	return nil
}

func (l *RedisRateLimiter) key(identifier string, window time.Duration) string {
	return fmt.Sprintf("ratelimit:%s:%s:%s", l.prefix, identifier, window.String())
}
