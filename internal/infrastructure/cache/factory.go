package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/domain/shared"
	"github.com/PURUSHOTHAM-REDDY-N/disk-babu-backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisPingTimeout = 5 * time.Second

// NewRedisClient connects to redis and pings it. It returns (nil, nil)
// when no host is configured so callers can run without redis.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Host == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr(), err)
	}
	return client, nil
}

// NewIdempotencyStore picks the redis store when a client is available and
// the in-memory store otherwise
func NewIdempotencyStore(client redis.UniversalClient, logger *zap.Logger) shared.IdempotencyStore {
	if client != nil {
		logger.Info("using redis idempotency store")
		return NewRedisIdempotencyStore(client, "")
	}
	logger.Warn("redis not configured, event deduplication is local to this instance")
	return NewInMemoryIdempotencyStore()
}

// NewAggregationCache builds the closed-period cache from configuration. It
// returns nil when caching is disabled.
func NewAggregationCache(cfg config.CacheConfig, client redis.UniversalClient, logger *zap.Logger) *TieredAggregationCache {
	if !cfg.Enabled {
		return nil
	}
	opts := []AggregationCacheOption{WithCacheLogger(logger)}
	if client != nil {
		opts = append(opts, WithRedis(client, cfg.RedisTTL))
	}
	return NewTieredAggregationCache(cfg.LocalSize, cfg.LocalTTL, opts...)
}
