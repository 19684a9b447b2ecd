package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/weddingfilm-backend/internal/errors"
	"github.com/ikkim/weddingfilm-backend/internal/metrics"
)

// Limiter 요청 카운터 (pkg/redis.RateLimiter)
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

const limiterTimeout = 200 * time.Millisecond

// RateLimit 클라이언트 IP 기준 요청 제한. 카운터 저장소 장애 시 요청을 통과시킨다
func RateLimit(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		log := GetLoggerFromContext(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), limiterTimeout)
		allowed, err := limiter.Allow(ctx, c.ClientIP())
		cancel()

		if err != nil {
			log.Warn("Rate limiter unavailable, allowing request", map[string]interface{}{
				"error": err.Error(),
			})
			c.Next()
			return
		}
		if !allowed {
			metrics.IncRateLimited(c.FullPath())
			log.Warn("Rate limit exceeded", map[string]interface{}{
				"ip": c.ClientIP(),
			})
			errors.TooManyRequests(c)
			c.Abort()
			return
		}

		c.Next()
	}
}
