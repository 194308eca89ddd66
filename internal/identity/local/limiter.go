package local

import (
	"context"
	"time"

	"github.com/Rpoore10/health-hire/internal/infrastructure/cache"
)

type AttemptLimiter interface {
	TooMany(ctx context.Context, key string) bool
	RecordFailure(ctx context.Context, key string)
	Clear(ctx context.Context, key string)
}

// RedisLimiter counts failed attempts per key in a rolling window. With
// redis bypassed it never limits.
type RedisLimiter struct {
	cache  *cache.Redis
	max    int64
	window time.Duration
}

func NewRedisLimiter(c *cache.Redis, max int64, window time.Duration) *RedisLimiter {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RedisLimiter{cache: c, max: max, window: window}
}

func (l *RedisLimiter) TooMany(ctx context.Context, key string) bool {
	if l == nil {
		return false
	}
	n, ok, err := l.cache.GetInt64(ctx, key)
	if err != nil || !ok {
		return false
	}
	return n >= l.max
}

func (l *RedisLimiter) RecordFailure(ctx context.Context, key string) {
	if l == nil {
		return
	}
	_, _ = l.cache.IncrWindow(ctx, key, l.window)
}

func (l *RedisLimiter) Clear(ctx context.Context, key string) {
	if l == nil {
		return
	}
	_ = l.cache.Delete(ctx, key)
}
