package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/mailforstudy46-bot/central-discord-bot/internal/domain/member"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET PROFILE QUERY
// A member's XP, level and progress toward the next level, as shown on the
// profile card.
// ══════════════════════════════════════════════════════════════════════════════

// GetProfileQuery asks for a member's profile.
type GetProfileQuery struct {
	DiscordID member.DiscordID
}

// GetProfileResult contains the profile data.
type GetProfileResult struct {
	// Found is false when the member has no record yet.
	Found bool

	// DiscordID identifies the member.
	DiscordID string

	// DisplayName is the member's last observed name.
	DisplayName string

	// XP is the member's total score.
	XP int

	// Level is derived from XP.
	Level int

	// NextLevelXP is the threshold shown on the card: (level+1)*100.
	NextLevelXP int

	// ProgressPercent is min(xp/nextLevelXP, 1)*100, rounded down.
	ProgressPercent int

	// WordCount is the vocabulary size.
	WordCount int
}

// GetProfileHandler handles GetProfileQuery.
type GetProfileHandler struct {
	repo member.Repository
}

// NewGetProfileHandler creates a new GetProfileHandler.
func NewGetProfileHandler(repo member.Repository) *GetProfileHandler {
	return &GetProfileHandler{repo: repo}
}

// Handle loads the profile. A missing record is not an error: the result just
// reports Found=false so the caller can answer with a friendly hint.
func (h *GetProfileHandler) Handle(ctx context.Context, q GetProfileQuery) (*GetProfileResult, error) {
	m, err := h.repo.GetByDiscordID(ctx, q.DiscordID)
	if err != nil {
		if errors.Is(err, member.ErrMemberNotFound) {
			return &GetProfileResult{Found: false}, nil
		}
		return nil, fmt.Errorf("get_profile: %w", err)
	}

	next := m.Level.NextLevelXP()
	percent := ProgressPercent(int(m.XP), int(next))

	return &GetProfileResult{
		Found:           true,
		DiscordID:       m.DiscordID.String(),
		DisplayName:     m.DisplayName,
		XP:              int(m.XP),
		Level:           int(m.Level),
		NextLevelXP:     int(next),
		ProgressPercent: percent,
		WordCount:       len(m.Vocabulary),
	}, nil
}

// ProgressPercent computes min(xp/next, 1)*100 truncated to an integer,
// matching the original profile card math.
func ProgressPercent(xp, next int) int {
	if next <= 0 {
		return 100
	}
	ratio := float64(xp) / float64(next)
	if ratio > 1 {
		ratio = 1
	}
	return int(ratio * 100)
}
