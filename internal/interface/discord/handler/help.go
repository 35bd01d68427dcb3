package handler

import (
	"context"

	"github.com/mailforstudy46-bot/central-discord-bot/internal/interface/discord/presenter"
)

// HelpHandler handles /help.
type HelpHandler struct{}

// NewHelpHandler creates a new HelpHandler.
func NewHelpHandler() *HelpHandler {
	return &HelpHandler{}
}

// Handle serves the command reference.
func (h *HelpHandler) Handle(ctx context.Context) (*Response, error) {
	return &Response{Embed: presenter.Help(), Ephemeral: true}, nil
}
