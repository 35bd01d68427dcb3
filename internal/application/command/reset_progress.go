package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/mailforstudy46-bot/central-discord-bot/internal/domain/member"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESET PROGRESS COMMAND
// The one path that moves XP backwards: an explicit user request. Vocabulary
// survives the reset.
// ══════════════════════════════════════════════════════════════════════════════

// ResetProgressCommand resets a member's XP and level.
type ResetProgressCommand struct {
	DiscordID member.DiscordID
}

// ResetProgressResult reports the reset outcome.
type ResetProgressResult struct {
	// HadRecord is false when there was nothing to reset.
	HadRecord bool

	// OldXP is the XP before the reset.
	OldXP int
}

// ResetProgressHandler handles ResetProgressCommand.
type ResetProgressHandler struct {
	repo      member.Repository
	publisher member.EventPublisher
}

// NewResetProgressHandler creates a new ResetProgressHandler.
func NewResetProgressHandler(repo member.Repository, publisher member.EventPublisher) *ResetProgressHandler {
	return &ResetProgressHandler{repo: repo, publisher: publisher}
}

// Handle resets xp=0, level=1 and clears the last message.
func (h *ResetProgressHandler) Handle(ctx context.Context, cmd ResetProgressCommand) (*ResetProgressResult, error) {
	m, err := h.repo.GetByDiscordID(ctx, cmd.DiscordID)
	if errors.Is(err, member.ErrMemberNotFound) {
		return &ResetProgressResult{HadRecord: false}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reset_progress: load member: %w", err)
	}

	oldXP := m.XP
	if err := h.repo.ResetProgress(ctx, cmd.DiscordID); err != nil {
		return nil, fmt.Errorf("reset_progress: %w", err)
	}

	if h.publisher != nil {
		_ = h.publisher.Publish(member.NewProgressResetEvent(cmd.DiscordID, oldXP))
	}

	return &ResetProgressResult{HadRecord: true, OldXP: int(oldXP)}, nil
}
