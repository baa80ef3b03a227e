package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/iSnowdy/Frostel/internal/config"
)

// NewClient はRedisクライアントを作成する
// 接続確認は行わないため、起動時に Ping を呼ぶこと
func NewClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
	})
}

// Ping はRedis接続を確認する
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("Redis接続に失敗しました: %w", err)
	}
	return nil
}
