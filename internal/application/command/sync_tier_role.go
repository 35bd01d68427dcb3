package command

import (
	"context"
	"fmt"

	"github.com/mailforstudy46-bot/central-discord-bot/internal/domain/member"
	"github.com/mailforstudy46-bot/central-discord-bot/internal/domain/progression"
)

// ══════════════════════════════════════════════════════════════════════════════
// SYNC TIER ROLE COMMAND
// Reconciles a member's Discord roles against the tier table: exactly one tier
// role, the highest whose threshold the member's XP reaches. Role mutations
// against Discord are best effort - a failed removal must not stop the rest
// of the reconciliation, and nothing here ever fails the caller.
// ══════════════════════════════════════════════════════════════════════════════

// RoleOpResult is the outcome of a single role mutation. The resolver inspects
// it to decide whether to proceed, never to abort.
type RoleOpResult struct {
	// OK is true when the mutation went through.
	OK bool

	// Err holds the failure (for logging only).
	Err error
}

// RoleManager is the port to the guild's role membership state.
type RoleManager interface {
	// MemberRoles returns the role IDs the user currently holds.
	MemberRoles(ctx context.Context, userID string) ([]string, error)

	// AddRole grants a role, best effort.
	AddRole(ctx context.Context, userID, roleID string) RoleOpResult

	// RemoveRole revokes a role, best effort.
	RemoveRole(ctx context.Context, userID, roleID string) RoleOpResult
}

// SyncTierRoleCommand asks for a member's tier roles to be reconciled.
type SyncTierRoleCommand struct {
	// DiscordID is the member whose roles are reconciled.
	DiscordID member.DiscordID

	// XP is the member's current XP.
	XP member.XP

	// ChannelID is where the tier announcement goes.
	ChannelID string
}

// SyncTierRoleResult reports what the reconciliation did.
type SyncTierRoleResult struct {
	// TargetRoleID is the resolved tier role (empty when no threshold matched).
	TargetRoleID string

	// Granted is true when the target role was newly granted.
	Granted bool

	// RemovedRoles lists tier roles that were revoked.
	RemovedRoles []string
}

// SyncTierRoleHandler handles the SyncTierRoleCommand.
type SyncTierRoleHandler struct {
	tiers     *progression.TierTable
	roles     RoleManager
	publisher member.EventPublisher
}

// NewSyncTierRoleHandler creates a new SyncTierRoleHandler.
func NewSyncTierRoleHandler(
	tiers *progression.TierTable,
	roles RoleManager,
	publisher member.EventPublisher,
) *SyncTierRoleHandler {
	return &SyncTierRoleHandler{
		tiers:     tiers,
		roles:     roles,
		publisher: publisher,
	}
}

// Handle reconciles the member's tier roles. The returned error covers only
// the membership lookup; mutation failures are swallowed per operation.
func (h *SyncTierRoleHandler) Handle(ctx context.Context, cmd SyncTierRoleCommand) (*SyncTierRoleResult, error) {
	target, ok := h.tiers.Resolve(cmd.XP)
	if !ok {
		// No threshold qualifies: leave everything as is.
		return &SyncTierRoleResult{}, nil
	}

	held, err := h.roles.MemberRoles(ctx, cmd.DiscordID.String())
	if err != nil {
		return nil, fmt.Errorf("sync_tier_role: member roles: %w", err)
	}

	heldSet := make(map[string]struct{}, len(held))
	for _, id := range held {
		heldSet[id] = struct{}{}
	}

	result := &SyncTierRoleResult{TargetRoleID: target.RoleID}

	// Revoke every other tier role the member holds. Failures are skipped,
	// not propagated: a transient permission error on one role must not
	// leave the rest of the tiers unreconciled.
	for _, tier := range h.tiers.Tiers() {
		if tier.RoleID == target.RoleID {
			continue
		}
		if _, holds := heldSet[tier.RoleID]; !holds {
			continue
		}
		if res := h.roles.RemoveRole(ctx, cmd.DiscordID.String(), tier.RoleID); res.OK {
			result.RemovedRoles = append(result.RemovedRoles, tier.RoleID)
		}
	}

	// Grant the target tier only when absent; holding it already means the
	// reconciliation is idempotent and silent.
	if _, holds := heldSet[target.RoleID]; !holds {
		if res := h.roles.AddRole(ctx, cmd.DiscordID.String(), target.RoleID); res.OK {
			result.Granted = true
			if h.publisher != nil {
				_ = h.publisher.Publish(member.NewTierGrantedEvent(
					cmd.DiscordID, cmd.ChannelID, target.RoleID, target.Threshold, cmd.XP,
				))
			}
		}
	}

	return result, nil
}
