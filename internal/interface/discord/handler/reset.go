package handler

import (
	"context"
	"fmt"

	"github.com/mailforstudy46-bot/central-discord-bot/internal/application/command"
	"github.com/mailforstudy46-bot/central-discord-bot/internal/domain/member"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESET HANDLER
// /resetlevel wipes the invoker's own progress. There is no confirmation
// dialog; the command is self-inflicted and the vocabulary survives.
// ══════════════════════════════════════════════════════════════════════════════

// ResetHandler handles /resetlevel.
type ResetHandler struct {
	reset *command.ResetProgressHandler
}

// NewResetHandler creates a new ResetHandler.
func NewResetHandler(reset *command.ResetProgressHandler) *ResetHandler {
	return &ResetHandler{reset: reset}
}

// Handle resets the invoker's XP and level.
func (h *ResetHandler) Handle(ctx context.Context, id member.DiscordID) (*Response, error) {
	result, err := h.reset.Handle(ctx, command.ResetProgressCommand{DiscordID: id})
	if err != nil {
		return errorResponse("Could not reset your progress. Try again later."), nil
	}

	if !result.HadRecord {
		return &Response{Content: "Nothing to reset yet.", Ephemeral: true}, nil
	}

	return &Response{
		Content:   fmt.Sprintf("Progress reset. %d XP gone, back to level 1.", result.OldXP),
		Ephemeral: true,
	}, nil
}
