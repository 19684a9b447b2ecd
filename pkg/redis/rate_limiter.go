package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/ikkim/weddingfilm-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// RateLimiter 고정 윈도우 요청 제한 (여러 인스턴스가 같은 카운터를 공유)
type RateLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func NewRateLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
	}
}

// Allow increments the counter for key and reports whether it is still within the limit.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}

	redisKey := fmt.Sprintf("rate_limit:%s:%s", l.prefix, key)
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit: %w", err)
	}

	// 윈도우 시작 시점에만 만료 설정
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			logger.Warn("Failed to set rate limit expiry", map[string]interface{}{
				"key":   redisKey,
				"error": err.Error(),
			})
		}
	}

	return count <= int64(l.limit), nil
}
