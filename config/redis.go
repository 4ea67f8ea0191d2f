package config

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// InitRedis connects the config cache. It returns a nil client when REDIS_URL is
// empty.
func InitRedis(ctx context.Context, c CacheConfig, log *logrus.Logger) (*redis.Client, error) {
	if c.RedisURL == "" {
		log.Info("REDIS_URL not set, config cache disabled")
		return nil, nil
	}
	opts, err := redis.ParseURL(c.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	log.WithField("addr", opts.Addr).Info("connected to redis")
	return client, nil
}
