package handler

import (
	"context"

	"github.com/mailforstudy46-bot/central-discord-bot/internal/application/query"
	"github.com/mailforstudy46-bot/central-discord-bot/internal/interface/discord/presenter"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// LeaderboardHandler handles /leaderboard.
type LeaderboardHandler struct {
	leaderboardQuery *query.GetLeaderboardHandler
	limit            int
}

// NewLeaderboardHandler creates a new LeaderboardHandler.
func NewLeaderboardHandler(leaderboardQuery *query.GetLeaderboardHandler, limit int) *LeaderboardHandler {
	if limit <= 0 {
		limit = query.DefaultLeaderboardLimit
	}
	return &LeaderboardHandler{
		leaderboardQuery: leaderboardQuery,
		limit:            limit,
	}
}

// Handle serves the top members embed.
func (h *LeaderboardHandler) Handle(ctx context.Context) (*Response, error) {
	result, err := h.leaderboardQuery.Handle(ctx, query.GetLeaderboardQuery{Limit: h.limit})
	if err != nil {
		return errorResponse("Could not load the leaderboard. Try again later."), nil
	}

	return &Response{Embed: presenter.Leaderboard(result)}, nil
}
