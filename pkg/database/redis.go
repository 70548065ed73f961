package database

import (
	"context"
	"time"

	"event-ticketing-backend/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// NewRedisClient returns nil when REDIS_ADDR is unset or the server does not
// answer a ping; callers then run without rate limiting.
func NewRedisClient(cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logrus.WithError(err).WithField("addr", cfg.RedisAddr).Warn("redis unavailable, rate limiting disabled")
		_ = client.Close()
		return nil
	}

	return client
}
