// Package cache builds the Redis client backing report and dashboard caches.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/school-portal-api/pkg/config"
)

// NewRedis dials Redis and verifies it answers a PING within the dial
// timeout. A disabled config yields a nil client and nil error; callers then
// serve every read from PostgreSQL.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}
	opts := &redis.Options{
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: dialTimeout,
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	return client, nil
}

// HealthCheck exposes the client to the readiness probe.
type HealthCheck struct {
	Client *redis.Client
}

// PingContext reports whether Redis answers. A nil client is healthy since
// the cache is optional.
func (h HealthCheck) PingContext(ctx context.Context) error {
	if h.Client == nil {
		return nil
	}
	return h.Client.Ping(ctx).Err()
}
