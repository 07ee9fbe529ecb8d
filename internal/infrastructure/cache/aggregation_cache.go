package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	aggregationLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "diskbabu_aggregation_cache_lookups_total",
		Help: "Aggregation cache lookups by tier and result (hit, miss, error).",
	}, []string{"tier", "result"})
	aggregationWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "diskbabu_aggregation_cache_writes_total",
		Help: "Aggregation cache writes by tier and result (ok, error).",
	}, []string{"tier", "result"})
)

const (
	tierLocal = "local"
	tierRedis = "redis"

	defaultAggregationKeyPrefix = "diskbabu:"
)

// TieredAggregationCache caches encoded totals of closed analytics periods.
// L1 is a per-process expirable LRU; L2 is redis and shared between
// instances. Closed periods never change, so entries are only evicted by
// size and TTL and there is no invalidation channel.
type TieredAggregationCache struct {
	local     *expirable.LRU[string, []byte]
	redis     redis.UniversalClient
	redisTTL  time.Duration
	keyPrefix string
	logger    *zap.Logger
}

// AggregationCacheOption configures a TieredAggregationCache
type AggregationCacheOption func(*TieredAggregationCache)

// WithRedis enables the shared L2 tier
func WithRedis(client redis.UniversalClient, ttl time.Duration) AggregationCacheOption {
	return func(c *TieredAggregationCache) {
		c.redis = client
		c.redisTTL = ttl
	}
}

// WithKeyPrefix namespaces the redis keys
func WithKeyPrefix(prefix string) AggregationCacheOption {
	return func(c *TieredAggregationCache) {
		c.keyPrefix = prefix
	}
}

// WithCacheLogger sets the logger
func WithCacheLogger(logger *zap.Logger) AggregationCacheOption {
	return func(c *TieredAggregationCache) {
		c.logger = logger
	}
}

// NewTieredAggregationCache creates a cache holding up to localSize entries
// in process for localTTL each
func NewTieredAggregationCache(localSize int, localTTL time.Duration, opts ...AggregationCacheOption) *TieredAggregationCache {
	if localSize <= 0 {
		localSize = 1024
	}
	c := &TieredAggregationCache{
		local:     expirable.NewLRU[string, []byte](localSize, nil, localTTL),
		keyPrefix: defaultAggregationKeyPrefix,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get looks key up in L1 then L2. An L2 hit is copied into L1. A redis
// failure is returned together with ok=false so callers can log and recompute.
func (c *TieredAggregationCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if v, ok := c.local.Get(key); ok {
		aggregationLookups.WithLabelValues(tierLocal, "hit").Inc()
		return v, true, nil
	}
	aggregationLookups.WithLabelValues(tierLocal, "miss").Inc()

	if c.redis == nil {
		return nil, false, nil
	}
	v, err := c.redis.Get(ctx, c.keyPrefix+key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		aggregationLookups.WithLabelValues(tierRedis, "miss").Inc()
		return nil, false, nil
	case err != nil:
		aggregationLookups.WithLabelValues(tierRedis, "error").Inc()
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	aggregationLookups.WithLabelValues(tierRedis, "hit").Inc()
	c.local.Add(key, v)
	return v, true, nil
}

// Set writes value to both tiers. L1 is always written; the returned error
// only reports an L2 failure.
func (c *TieredAggregationCache) Set(ctx context.Context, key string, value []byte) error {
	c.local.Add(key, value)
	aggregationWrites.WithLabelValues(tierLocal, "ok").Inc()

	if c.redis == nil {
		return nil
	}
	if err := c.redis.Set(ctx, c.keyPrefix+key, value, c.redisTTL).Err(); err != nil {
		aggregationWrites.WithLabelValues(tierRedis, "error").Inc()
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	aggregationWrites.WithLabelValues(tierRedis, "ok").Inc()
	return nil
}

// Purge drops every L1 entry. L2 entries expire on their own.
func (c *TieredAggregationCache) Purge() {
	c.local.Purge()
	c.logger.Debug("aggregation cache purged")
}

// Len returns the number of L1 entries
func (c *TieredAggregationCache) Len() int {
	return c.local.Len()
}
