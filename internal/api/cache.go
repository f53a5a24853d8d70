package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"suivi-kpi/internal/stats"
)

// StatsCache is a short-lived Redis cache for computed dashboard aggregates,
// keyed by filter. The engine itself stays pure and stateless; caching lives
// here in the serving layer only.
type StatsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStatsCache connects to Redis. An empty URL returns a nil cache, which
// every method treats as a miss.
func NewStatsCache(redisURL string, ttl time.Duration) (*StatsCache, error) {
	if redisURL == "" {
		return nil, nil
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &StatsCache{rdb: client, ttl: ttl}, nil
}

// Key derives a stable cache key from a filter.
func Key(f stats.Filter) string {
	return fmt.Sprintf("dashboard:%s:%s:%d:%d", f.Dimension, f.Value, f.From.Unix(), f.To.Unix())
}

// Get returns the cached aggregate for key, reporting whether it was present.
func (c *StatsCache) Get(ctx context.Context, key string) (stats.DashboardStats, bool) {
	var zero stats.DashboardStats
	if c == nil {
		return zero, false
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		}
		return zero, false
	}
	var s stats.DashboardStats
	if err := json.Unmarshal(data, &s); err != nil {
		return zero, false
	}
	return s, true
}

// Set stores an aggregate under key for the configured TTL. Failures are
// logged and ignored; the cache is an optimization, never a dependency.
func (c *StatsCache) Set(ctx context.Context, key string, s stats.DashboardStats) {
	if c == nil {
		return
	}
	data, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}
