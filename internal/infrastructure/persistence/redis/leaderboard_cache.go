// Package redis implements Redis caching for the community engagement bot.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mailforstudy46-bot/central-discord-bot/internal/application/query"

	"github.com/redis/go-redis/v9"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD CACHE
// ══════════════════════════════════════════════════════════════════════════════

// LeaderboardCache serves the leaderboard command from Redis Sorted Sets.
//
// Layout:
//   - Sorted set "leaderboard:xp" stores discordID -> XP
//   - Hash "leaderboard:info" stores discordID -> entry JSON
//
// Rank comes from the sorted set, display data from the hash. Both keys share
// a TTL so a stale board expires as a unit. Implements query.LeaderboardCache.
type LeaderboardCache struct {
	cache *Cache
}

// Key patterns for leaderboard cache.
const (
	// keyLeaderboardXP is the sorted set for XP rankings.
	keyLeaderboardXP = PrefixLeaderboard + "xp"

	// keyLeaderboardInfo is the hash for entry details.
	keyLeaderboardInfo = PrefixLeaderboard + "info"
)

// cachedEntry is the JSON shape stored in the info hash.
type cachedEntry struct {
	DiscordID   string `json:"discord_id"`
	DisplayName string `json:"display_name"`
	XP          int    `json:"xp"`
	Level       int    `json:"level"`
}

// NewLeaderboardCache creates a new LeaderboardCache instance.
func NewLeaderboardCache(cache *Cache) *LeaderboardCache {
	return &LeaderboardCache{cache: cache}
}

// Top returns up to limit cached entries ordered by XP descending.
// A missing sorted set reads as a cache miss, never an error.
func (l *LeaderboardCache) Top(ctx context.Context, limit int) ([]query.LeaderboardEntry, bool, error) {
	if limit <= 0 {
		return nil, false, nil
	}

	ids, err := l.cache.Client().ZRevRange(ctx, keyLeaderboardXP, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, false, fmt.Errorf("leaderboard_cache: range failed: %w", err)
	}
	if len(ids) == 0 {
		return nil, false, nil
	}

	raw, err := l.cache.Client().HMGet(ctx, keyLeaderboardInfo, ids...).Result()
	if err != nil {
		return nil, false, fmt.Errorf("leaderboard_cache: info lookup failed: %w", err)
	}

	entries := make([]query.LeaderboardEntry, 0, len(ids))
	for i, val := range raw {
		str, ok := val.(string)
		if !ok {
			// Info hash out of sync with the sorted set, treat as a miss
			// so the caller repopulates from the repository.
			return nil, false, nil
		}

		var ce cachedEntry
		if err := json.Unmarshal([]byte(str), &ce); err != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrCacheSerialization, err)
		}

		entries = append(entries, query.LeaderboardEntry{
			Rank:        i + 1,
			DiscordID:   ce.DiscordID,
			DisplayName: ce.DisplayName,
			XP:          ce.XP,
			Level:       ce.Level,
		})
	}

	return entries, true, nil
}

// Store replaces the cached board with the given entries.
func (l *LeaderboardCache) Store(ctx context.Context, entries []query.LeaderboardEntry) error {
	pipe := l.cache.Client().Pipeline()

	pipe.Del(ctx, keyLeaderboardXP, keyLeaderboardInfo)

	for _, e := range entries {
		pipe.ZAdd(ctx, keyLeaderboardXP, redis.Z{
			Score:  float64(e.XP),
			Member: e.DiscordID,
		})

		data, err := json.Marshal(cachedEntry{
			DiscordID:   e.DiscordID,
			DisplayName: e.DisplayName,
			XP:          e.XP,
			Level:       e.Level,
		})
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCacheSerialization, err)
		}
		pipe.HSet(ctx, keyLeaderboardInfo, e.DiscordID, data)
	}

	pipe.Expire(ctx, keyLeaderboardXP, TTLLeaderboardCache)
	pipe.Expire(ctx, keyLeaderboardInfo, TTLLeaderboardCache)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("leaderboard_cache: store failed: %w", err)
	}
	return nil
}

// Invalidate drops the cached board. The next read falls through to the
// repository.
func (l *LeaderboardCache) Invalidate(ctx context.Context) error {
	return l.cache.Delete(ctx, keyLeaderboardXP, keyLeaderboardInfo)
}
