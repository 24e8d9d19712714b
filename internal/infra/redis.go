package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// The cache sits on the request path and its callers fail open, so slow
// commands are cut short.
const redisCommandTimeout = 2 * time.Second

// NewRedisClient builds the cache client used for idempotency replay and
// prequal rate limiting, and verifies connectivity.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, fmt.Errorf("redis url is required")
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if opt.ReadTimeout == 0 {
		opt.ReadTimeout = redisCommandTimeout
	}
	if opt.WriteTimeout == 0 {
		opt.WriteTimeout = redisCommandTimeout
	}

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}
