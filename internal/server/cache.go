package server

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const leaderboardTTL = 30 * time.Second

// LeaderboardCache keeps rendered zone leaderboards in Redis for a short
// TTL and is invalidated whenever a collect lands in that zone. A nil
// client disables the cache entirely; every method becomes a no-op miss.
type LeaderboardCache struct {
	rdb *redis.Client
}

func NewLeaderboardCache(rdb *redis.Client) *LeaderboardCache {
	return &LeaderboardCache{rdb: rdb}
}

func (c *LeaderboardCache) key(zoneID string, limit int) string {
	return "leaderboard:" + zoneID + ":" + strconv.Itoa(limit)
}

func (c *LeaderboardCache) Get(ctx context.Context, zoneID string, limit int) ([]LeaderboardEntry, bool) {
	if c.rdb == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, c.key(zoneID, limit)).Bytes()
	if err != nil {
		return nil, false
	}
	var entries []LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false
	}
	return entries, true
}

func (c *LeaderboardCache) Set(ctx context.Context, zoneID string, limit int, entries []LeaderboardEntry) {
	if c.rdb == nil {
		return
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, c.key(zoneID, limit), data, leaderboardTTL)
}

func (c *LeaderboardCache) Invalidate(ctx context.Context, zoneID string) {
	if c.rdb == nil {
		return
	}
	iter := c.rdb.Scan(ctx, 0, "leaderboard:"+zoneID+":*", 0).Iterator()
	for iter.Next(ctx) {
		c.rdb.Del(ctx, iter.Val())
	}
}
