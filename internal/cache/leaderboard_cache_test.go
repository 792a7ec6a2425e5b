package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptocallout/cryptocallout-go/internal/models"
)

// setupTestRedis creates a test Redis instance using miniredis
func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	s, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})

	cleanup := func() {
		client.Close()
		s.Close()
	}

	return client, cleanup
}

func testEntries() []models.LeaderboardEntry {
	return []models.LeaderboardEntry{
		{
			Rank:           1,
			Influencer:     models.Influencer{ID: "inf-1", Handle: "moon_caller"},
			CompositeScore: 82.5,
			Streak:         4,
			Trend:          models.TrendUp,
			SparklineData:  []int{50, 50, 60, 60, 70, 80, 90, 100},
		},
		{
			Rank:           2,
			Influencer:     models.Influencer{ID: "inf-2", Handle: "bear_watch"},
			CompositeScore: 61.0,
			Streak:         -1,
			Trend:          models.TrendDown,
			SparklineData:  []int{50, 50, 50, 50, 50, 50, 50, 50},
		},
	}
}

func TestRedisLeaderboardCache_SetAndGet(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	c := NewRedisLeaderboardCache(client, 5*time.Minute, nil)
	ctx := context.Background()

	c.Set(ctx, "30d", testEntries())

	entries, found := c.Get(ctx, "30d")
	require.True(t, found)
	require.Len(t, entries, 2)
	assert.Equal(t, "inf-1", entries[0].Influencer.ID)
	assert.Equal(t, 82.5, entries[0].CompositeScore)
	assert.Equal(t, models.TrendDown, entries[1].Trend)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Sets)
}

func TestRedisLeaderboardCache_Miss(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	c := NewRedisLeaderboardCache(client, 5*time.Minute, nil)

	_, found := c.Get(context.Background(), "7d")
	assert.False(t, found)
	assert.Equal(t, int64(1), c.Stats().Misses)
}

func TestRedisLeaderboardCache_PeriodsAreIndependent(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	c := NewRedisLeaderboardCache(client, 5*time.Minute, nil)
	ctx := context.Background()

	c.Set(ctx, "7d", testEntries()[:1])
	c.Set(ctx, "all", testEntries())

	weekly, found := c.Get(ctx, "7d")
	require.True(t, found)
	assert.Len(t, weekly, 1)

	all, found := c.Get(ctx, "all")
	require.True(t, found)
	assert.Len(t, all, 2)
}

func TestRedisLeaderboardCache_Invalidate(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	c := NewRedisLeaderboardCache(client, 5*time.Minute, nil)
	ctx := context.Background()

	c.Set(ctx, "7d", testEntries())
	c.Set(ctx, "30d", testEntries())

	require.NoError(t, c.Invalidate(ctx))

	_, found := c.Get(ctx, "7d")
	assert.False(t, found)
	_, found = c.Get(ctx, "30d")
	assert.False(t, found)
	assert.Equal(t, int64(1), c.Stats().Invalidations)
}

func TestRedisLeaderboardCache_CorruptEntryIsAMiss(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	c := NewRedisLeaderboardCache(client, 5*time.Minute, nil)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "leaderboard:30d", "{not json", 0).Err())

	_, found := c.Get(ctx, "30d")
	assert.False(t, found)
	assert.Equal(t, int64(1), c.Stats().Misses)
}
