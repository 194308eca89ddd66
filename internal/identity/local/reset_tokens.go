package local

import (
	"context"
	"time"

	"github.com/Rpoore10/health-hire/internal/infrastructure/cache"
)

const resetKeyPrefix = "auth:reset:"

type RedisResetTokens struct {
	cache *cache.Redis
}

func NewRedisResetTokens(c *cache.Redis) *RedisResetTokens {
	return &RedisResetTokens{cache: c}
}

func (s *RedisResetTokens) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	return s.cache.SetJSON(ctx, resetKeyPrefix+token, userID, ttl)
}
