// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"fmt"

	"github.com/mailforstudy46-bot/central-discord-bot/internal/domain/member"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEADERBOARD QUERY
// Top members by XP. A Redis sorted-set cache sits in front of Postgres;
// a cold or disabled cache falls through to the repository and repopulates.
// ══════════════════════════════════════════════════════════════════════════════

// DefaultLeaderboardLimit is used when the caller does not ask for a size.
const DefaultLeaderboardLimit = 10

// LeaderboardEntry is one row of the leaderboard.
type LeaderboardEntry struct {
	// Rank is the 1-based position.
	Rank int

	// DiscordID identifies the member.
	DiscordID string

	// DisplayName is the member's last observed name.
	DisplayName string

	// XP is the member's score.
	XP int

	// Level is derived from XP.
	Level int
}

// LeaderboardCache is the optional hot cache in front of the repository.
type LeaderboardCache interface {
	// Top returns cached entries, or a miss (false) when the cache is cold.
	Top(ctx context.Context, limit int) ([]LeaderboardEntry, bool, error)

	// Store replaces the cached board, best effort.
	Store(ctx context.Context, entries []LeaderboardEntry) error

	// Invalidate drops the cached board, best effort.
	Invalidate(ctx context.Context) error
}

// GetLeaderboardQuery asks for the top N members.
type GetLeaderboardQuery struct {
	// Limit is the maximum number of entries (DefaultLeaderboardLimit when <= 0).
	Limit int
}

// GetLeaderboardResult contains the ordered board.
type GetLeaderboardResult struct {
	// Entries are ordered by XP descending.
	Entries []LeaderboardEntry

	// FromCache marks a cache hit.
	FromCache bool
}

// GetLeaderboardHandler handles GetLeaderboardQuery.
type GetLeaderboardHandler struct {
	repo  member.Repository
	cache LeaderboardCache
}

// NewGetLeaderboardHandler creates a new GetLeaderboardHandler.
// The cache may be nil; the handler then reads straight from the repository.
func NewGetLeaderboardHandler(repo member.Repository, cache LeaderboardCache) *GetLeaderboardHandler {
	return &GetLeaderboardHandler{repo: repo, cache: cache}
}

// Handle returns at most Limit members ordered by XP descending.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, q GetLeaderboardQuery) (*GetLeaderboardResult, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	if h.cache != nil {
		entries, hit, err := h.cache.Top(ctx, limit)
		if err == nil && hit {
			return &GetLeaderboardResult{Entries: entries, FromCache: true}, nil
		}
		// Cache failures fall through to the repository.
	}

	members, err := h.repo.GetTopByXP(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("get_leaderboard: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(members))
	for i, m := range members {
		entries = append(entries, LeaderboardEntry{
			Rank:        i + 1,
			DiscordID:   m.DiscordID.String(),
			DisplayName: m.DisplayName,
			XP:          int(m.XP),
			Level:       int(m.Level),
		})
	}

	if h.cache != nil {
		_ = h.cache.Store(ctx, entries)
	}

	return &GetLeaderboardResult{Entries: entries}, nil
}
