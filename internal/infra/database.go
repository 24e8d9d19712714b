package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgConnectTimeout    = 5 * time.Second
	pgMaxConnIdleTime   = 5 * time.Minute
	pgApplicationName   = "forward-prequal"
	pgApplicationNameKV = "application_name"
)

// NewPostgresPool parses url, tags connections with the service name and
// verifies connectivity before returning the pool.
func NewPostgresPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := postgresConfig(url)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pgConnectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return pool, nil
}

func postgresConfig(url string) (*pgxpool.Config, error) {
	if url == "" {
		return nil, fmt.Errorf("database url is required")
	}

	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	if cfg.ConnConfig.ConnectTimeout == 0 {
		cfg.ConnConfig.ConnectTimeout = pgConnectTimeout
	}
	if _, ok := cfg.ConnConfig.RuntimeParams[pgApplicationNameKV]; !ok {
		cfg.ConnConfig.RuntimeParams[pgApplicationNameKV] = pgApplicationName
	}
	cfg.MaxConnIdleTime = pgMaxConnIdleTime
	return cfg, nil
}
