package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/ikkim/weddingfilm-backend/config"
	"github.com/ikkim/weddingfilm-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// Address host:port 형식 주소
func Address(cfg *config.RedisConfig) string {
	return net.JoinHostPort(cfg.Host, cfg.Port)
}

// Connect 클라이언트를 만들고 PING 으로 연결을 확인한다.
// 실패하면 클라이언트를 닫고 에러를 돌려준다.
func Connect(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	addr := Address(cfg)
	logger.Info("Connecting to Redis", map[string]interface{}{
		"addr": addr,
		"db":   cfg.DB,
	})

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		logger.Error("Redis ping failed", err, map[string]interface{}{
			"addr": addr,
		})
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}

	logger.Info("Redis connection established", map[string]interface{}{
		"addr": addr,
	})
	return client, nil
}

// Close 클라이언트 종료 (nil 허용)
func Close(client *redis.Client) error {
	if client == nil {
		return nil
	}
	logger.Info("Closing Redis connection")
	return client.Close()
}
