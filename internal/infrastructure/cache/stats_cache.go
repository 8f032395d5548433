package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	applinking "github.com/channelbridge/backend/internal/application/linking"
	"github.com/channelbridge/backend/internal/domain/linking"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const statsKeyPrefix = "linking:stats:"

// RedisStatsCache caches hierarchy statistics in Redis so repeated dashboard
// polls do not rescan the link store. All operations are best-effort: Redis
// failures degrade to recomputation, never to request errors.
type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStatsCache creates a cache backed by a new Redis connection
func NewRedisStatsCache(addr, password string, db int, ttl time.Duration, logger *zap.Logger) (*RedisStatsCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStatsCacheWithClient(client, ttl, logger), nil
}

// NewRedisStatsCacheWithClient creates a cache sharing an existing Redis client
func NewRedisStatsCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisStatsCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStatsCache{client: client, ttl: ttl, logger: logger}
}

func statsKey(accountID *uuid.UUID) string {
	if accountID == nil {
		return statsKeyPrefix + "all"
	}
	return statsKeyPrefix + accountID.String()
}

// Get returns cached statistics for the scope, if present
func (c *RedisStatsCache) Get(ctx context.Context, accountID *uuid.UUID) (*linking.HierarchyStats, bool) {
	payload, err := c.client.Get(ctx, statsKey(accountID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("stats cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var stats linking.HierarchyStats
	if err := json.Unmarshal(payload, &stats); err != nil {
		c.logger.Warn("stats cache entry corrupt", zap.Error(err))
		return nil, false
	}
	return &stats, true
}

// Set stores statistics for the scope with the configured TTL
func (c *RedisStatsCache) Set(ctx context.Context, accountID *uuid.UUID, stats *linking.HierarchyStats) {
	payload, err := json.Marshal(stats)
	if err != nil {
		c.logger.Warn("stats cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, statsKey(accountID), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("stats cache write failed", zap.Error(err))
	}
}

// Invalidate drops every cached statistics entry
func (c *RedisStatsCache) Invalidate(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, statsKeyPrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("stats cache scan failed", zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("stats cache invalidation failed", zap.Error(err))
	}
}

// Close closes the Redis client
func (c *RedisStatsCache) Close() error {
	return c.client.Close()
}

// Ensure RedisStatsCache implements the application's StatsCache
var _ applinking.StatsCache = (*RedisStatsCache)(nil)
