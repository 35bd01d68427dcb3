package discord

import (
	"context"
	"fmt"

	"github.com/mailforstudy46-bot/central-discord-bot/internal/application/command"
	"github.com/mailforstudy46-bot/central-discord-bot/pkg/logger"
	"github.com/mailforstudy46-bot/central-discord-bot/pkg/retry"

	"github.com/bwmarrin/discordgo"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROLE MANAGER
// ══════════════════════════════════════════════════════════════════════════════

// roleSession is the slice of the Discord REST API the role manager uses.
// *discordgo.Session satisfies it.
type roleSession interface {
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error
}

// RoleManager grants and revokes reward roles through the Discord REST API.
// Implements command.RoleManager. Mutations are best effort: the award
// pipeline must not fail because a role is missing or the bot lacks
// permission, so errors surface in the RoleOpResult instead of aborting.
type RoleManager struct {
	session roleSession
	guildID string
	retrier *retry.Retrier
	log     *logger.Logger
}

// NewRoleManager creates a RoleManager bound to one guild.
func NewRoleManager(session roleSession, guildID string, log *logger.Logger) *RoleManager {
	if log == nil {
		log = logger.Default()
	}

	return &RoleManager{
		session: session,
		guildID: guildID,
		retrier: retry.DiscordRetrier(),
		log:     log.With(logger.Component("role_manager")),
	}
}

// MemberRoles returns the role IDs the user currently holds.
func (r *RoleManager) MemberRoles(ctx context.Context, userID string) ([]string, error) {
	m, err := retry.DoWithData(ctx, func(ctx context.Context) (*discordgo.Member, error) {
		member, err := r.session.GuildMember(r.guildID, userID)
		if err != nil {
			return nil, retry.Retryable(err)
		}
		return member, nil
	})
	if err != nil {
		return nil, fmt.Errorf("discord: failed to fetch member %s: %w", userID, err)
	}

	return m.Roles, nil
}

// AddRole grants a role, best effort.
func (r *RoleManager) AddRole(ctx context.Context, userID, roleID string) command.RoleOpResult {
	err := r.retrier.Do(ctx, func(ctx context.Context) error {
		if err := r.session.GuildMemberRoleAdd(r.guildID, userID, roleID); err != nil {
			return retry.Retryable(err)
		}
		return nil
	})
	if err != nil {
		r.log.Warn("role grant failed",
			logger.MemberID(userID),
			logger.RoleID(roleID),
			logger.Err(err),
		)
		return command.RoleOpResult{OK: false, Err: err}
	}

	return command.RoleOpResult{OK: true}
}

// RemoveRole revokes a role, best effort.
func (r *RoleManager) RemoveRole(ctx context.Context, userID, roleID string) command.RoleOpResult {
	err := r.retrier.Do(ctx, func(ctx context.Context) error {
		if err := r.session.GuildMemberRoleRemove(r.guildID, userID, roleID); err != nil {
			return retry.Retryable(err)
		}
		return nil
	})
	if err != nil {
		r.log.Warn("role revoke failed",
			logger.MemberID(userID),
			logger.RoleID(roleID),
			logger.Err(err),
		)
		return command.RoleOpResult{OK: false, Err: err}
	}

	return command.RoleOpResult{OK: true}
}
