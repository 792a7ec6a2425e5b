package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/cryptocallout/cryptocallout-go/internal/models"
)

// LeaderboardCacheEntry wraps a cached ranked board with metadata.
type LeaderboardCacheEntry struct {
	Entries   []models.LeaderboardEntry `json:"entries"`
	CachedAt  time.Time                 `json:"cached_at"`
	ExpiresAt time.Time                 `json:"expires_at"`
}

// LeaderboardCacheStats tracks cache performance metrics.
type LeaderboardCacheStats struct {
	Hits          int64 `json:"hits"`
	Misses        int64 `json:"misses"`
	Sets          int64 `json:"sets"`
	Invalidations int64 `json:"invalidations"`
	mu            sync.RWMutex
}

// RedisLeaderboardCache memoizes fully ranked leaderboards in Redis, keyed
// by period. Scores are recomputed from the prediction snapshot on every
// miss; the cache only bounds how often that happens. Resolving a
// prediction invalidates every period.
type RedisLeaderboardCache struct {
	redis  *redis.Client
	ttl    time.Duration
	stats  *LeaderboardCacheStats
	prefix string
	logger *logrus.Logger
}

// NewRedisLeaderboardCache creates a new Redis-backed leaderboard cache.
func NewRedisLeaderboardCache(redisClient *redis.Client, ttl time.Duration, logger *logrus.Logger) *RedisLeaderboardCache {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &RedisLeaderboardCache{
		redis:  redisClient,
		ttl:    ttl,
		stats:  &LeaderboardCacheStats{},
		prefix: "leaderboard:",
		logger: logger,
	}
}

// Get retrieves the cached ranked board for a period.
func (c *RedisLeaderboardCache) Get(ctx context.Context, period string) ([]models.LeaderboardEntry, bool) {
	cacheKey := c.prefix + period

	data, err := c.redis.Get(ctx, cacheKey).Result()
	if err == redis.Nil {
		c.recordMiss()
		return nil, false
	}
	if err != nil {
		c.logger.WithError(err).WithField("period", period).Warn("Leaderboard cache read failed")
		c.recordMiss()
		return nil, false
	}

	var entry LeaderboardCacheEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		c.logger.WithError(err).WithField("period", period).Warn("Leaderboard cache entry corrupt")
		c.recordMiss()
		return nil, false
	}

	c.stats.mu.Lock()
	c.stats.Hits++
	c.stats.mu.Unlock()

	return entry.Entries, true
}

// Set stores the ranked board for a period.
func (c *RedisLeaderboardCache) Set(ctx context.Context, period string, entries []models.LeaderboardEntry) {
	cacheKey := c.prefix + period

	now := time.Now()
	entry := LeaderboardCacheEntry{
		Entries:   entries,
		CachedAt:  now,
		ExpiresAt: now.Add(c.ttl),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		c.logger.WithError(err).WithField("period", period).Warn("Leaderboard cache encode failed")
		return
	}

	if err := c.redis.Set(ctx, cacheKey, data, c.ttl).Err(); err != nil {
		c.logger.WithError(err).WithField("period", period).Warn("Leaderboard cache write failed")
		return
	}

	c.stats.mu.Lock()
	c.stats.Sets++
	c.stats.mu.Unlock()
}

// Invalidate drops every cached period. Called when a prediction resolves,
// since a single resolution can reorder any board.
func (c *RedisLeaderboardCache) Invalidate(ctx context.Context) error {
	iter := c.redis.Scan(ctx, 0, c.prefix+"*", 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan leaderboard cache keys: %w", err)
	}

	if len(keys) > 0 {
		if err := c.redis.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to invalidate leaderboard cache: %w", err)
		}
	}

	c.stats.mu.Lock()
	c.stats.Invalidations++
	c.stats.mu.Unlock()

	return nil
}

// Stats returns a snapshot of the cache counters.
func (c *RedisLeaderboardCache) Stats() LeaderboardCacheStats {
	c.stats.mu.RLock()
	defer c.stats.mu.RUnlock()
	return LeaderboardCacheStats{
		Hits:          c.stats.Hits,
		Misses:        c.stats.Misses,
		Sets:          c.stats.Sets,
		Invalidations: c.stats.Invalidations,
	}
}

func (c *RedisLeaderboardCache) recordMiss() {
	c.stats.mu.Lock()
	c.stats.Misses++
	c.stats.mu.Unlock()
}
