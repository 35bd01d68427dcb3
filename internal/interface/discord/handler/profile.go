package handler

import (
	"context"

	"github.com/mailforstudy46-bot/central-discord-bot/internal/application/query"
	"github.com/mailforstudy46-bot/central-discord-bot/internal/domain/member"
	"github.com/mailforstudy46-bot/central-discord-bot/internal/interface/discord/presenter"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE HANDLER
// Serves /profile (full card) and /xp (one-line summary). /xp accepts an
// optional target user, so members can look each other up.
// ══════════════════════════════════════════════════════════════════════════════

// ProfileHandler handles /profile and /xp.
type ProfileHandler struct {
	profileQuery *query.GetProfileHandler
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileQuery *query.GetProfileHandler) *ProfileHandler {
	return &ProfileHandler{profileQuery: profileQuery}
}

// ProfileRequest identifies whose profile to show.
type ProfileRequest struct {
	// TargetID is the member being looked up.
	TargetID member.DiscordID

	// IsSelf is true when the invoker looks up their own record.
	IsSelf bool
}

// HandleProfile serves the full profile card.
func (h *ProfileHandler) HandleProfile(ctx context.Context, req ProfileRequest) (*Response, error) {
	result, err := h.profileQuery.Handle(ctx, query.GetProfileQuery{DiscordID: req.TargetID})
	if err != nil {
		return errorResponse("Could not load the profile. Try again later."), nil
	}

	if !result.Found {
		return &Response{Content: presenter.NoRecordNotice(), Ephemeral: true}, nil
	}

	return &Response{Embed: presenter.ProfileCard(result), Ephemeral: req.IsSelf}, nil
}

// HandleXP serves the short XP summary.
func (h *ProfileHandler) HandleXP(ctx context.Context, req ProfileRequest) (*Response, error) {
	result, err := h.profileQuery.Handle(ctx, query.GetProfileQuery{DiscordID: req.TargetID})
	if err != nil {
		return errorResponse("Could not load XP. Try again later."), nil
	}

	if !result.Found {
		return &Response{Content: presenter.NoRecordNotice(), Ephemeral: true}, nil
	}

	return &Response{Content: presenter.XPSummary(result)}, nil
}
