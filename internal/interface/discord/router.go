// Package discord routes gateway events to the application layer: inbound
// messages feed the XP pipeline, interactions feed the slash-command
// handlers.
package discord

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/mailforstudy46-bot/central-discord-bot/internal/application/command"
	"github.com/mailforstudy46-bot/central-discord-bot/internal/domain/member"
	"github.com/mailforstudy46-bot/central-discord-bot/internal/interface/discord/handler"
	"github.com/mailforstudy46-bot/central-discord-bot/pkg/logger"

	"github.com/bwmarrin/discordgo"
)

// handlerTimeout bounds a single message or interaction handling.
const handlerTimeout = 15 * time.Second

// ══════════════════════════════════════════════════════════════════════════════
// ROUTER
// ══════════════════════════════════════════════════════════════════════════════

// RouterConfig contains the router's dependencies.
type RouterConfig struct {
	AwardXP  *command.AwardXPHandler
	SyncTier *command.SyncTierRoleHandler

	Profile     *handler.ProfileHandler
	Leaderboard *handler.LeaderboardHandler
	Vocabulary  *handler.VocabularyHandler
	Reset       *handler.ResetHandler
	Help        *handler.HelpHandler

	Logger *logger.Logger
}

// Router dispatches gateway events. One instance is registered on the
// session before it opens.
type Router struct {
	cfg RouterConfig
	log *logger.Logger
}

// NewRouter creates a new Router.
func NewRouter(cfg RouterConfig) *Router {
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	return &Router{
		cfg: cfg,
		log: cfg.Logger.With(logger.Component("discord_router")),
	}
}

// Register attaches the router's handlers to the session.
func (r *Router) Register(session *discordgo.Session) {
	session.AddHandler(r.onMessageCreate)
	session.AddHandler(r.onInteractionCreate)
}

// ══════════════════════════════════════════════════════════════════════════════
// MESSAGE PIPELINE
// ══════════════════════════════════════════════════════════════════════════════

// onMessageCreate feeds every inbound guild message into the award pipeline.
// A panic in the pipeline must not take down the gateway connection.
func (r *Router) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	defer r.recoverPanic("message_create")

	if m.Author == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	cmd := command.AwardXPCommand{
		DiscordID:   member.DiscordID(m.Author.ID),
		DisplayName: displayName(m),
		ChannelID:   m.ChannelID,
		RawText:     m.Content,
		IsBot:       m.Author.Bot,
	}

	result, err := r.cfg.AwardXP.Handle(ctx, cmd)
	if err != nil {
		r.log.Error("award pipeline failed",
			logger.MemberID(m.Author.ID),
			logger.ChannelID(m.ChannelID),
			logger.Err(err),
		)
		return
	}

	if !result.Applied {
		return
	}

	// Role rewards follow the new total. The sync is best effort; a missing
	// role or permission never blocks the award that already happened.
	if r.cfg.SyncTier != nil {
		_, err := r.cfg.SyncTier.Handle(ctx, command.SyncTierRoleCommand{
			DiscordID: cmd.DiscordID,
			XP:        result.Member.XP,
			ChannelID: m.ChannelID,
		})
		if err != nil {
			r.log.Warn("tier sync failed",
				logger.MemberID(m.Author.ID),
				logger.Err(err),
			)
		}
	}
}

// displayName prefers the guild nickname over the account username.
func displayName(m *discordgo.MessageCreate) string {
	if m.Member != nil && m.Member.Nick != "" {
		return m.Member.Nick
	}
	if m.Author.GlobalName != "" {
		return m.Author.GlobalName
	}
	return m.Author.Username
}

// ══════════════════════════════════════════════════════════════════════════════
// SLASH COMMANDS
// ══════════════════════════════════════════════════════════════════════════════

// Commands returns the slash-command definitions the bot registers.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "xp",
			Description: "Show XP and level",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Member to look up (defaults to you)",
					Required:    false,
				},
			},
		},
		{
			Name:        "profile",
			Description: "Show your profile card",
		},
		{
			Name:        "leaderboard",
			Description: "Show the top members by XP",
		},
		{
			Name:        "addword",
			Description: "Track a word in your vocabulary",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "word",
					Description: "The word to track",
					Required:    true,
				},
			},
		},
		{
			Name:        "delword",
			Description: "Remove a tracked word by its number",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "number",
					Description: "The word's number from /reviewwords",
					Required:    true,
				},
			},
		},
		{
			Name:        "clearwords",
			Description: "Remove all tracked words",
		},
		{
			Name:        "reviewwords",
			Description: "List your tracked words",
		},
		{
			Name:        "resetlevel",
			Description: "Reset your XP and level",
		},
		{
			Name:        "help",
			Description: "Show the command reference",
		},
	}
}

// onInteractionCreate dispatches slash commands to their handlers.
func (r *Router) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer r.recoverPanic("interaction_create")

	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	data := i.ApplicationCommandData()
	invoker := interactionUser(i)
	if invoker == nil {
		return
	}
	invokerID := member.DiscordID(invoker.ID)

	var (
		resp *handler.Response
		err  error
	)

	switch data.Name {
	case "xp":
		target, isSelf := targetUser(data, invoker)
		resp, err = r.cfg.Profile.HandleXP(ctx, handler.ProfileRequest{
			TargetID: member.DiscordID(target.ID),
			IsSelf:   isSelf,
		})
	case "profile":
		resp, err = r.cfg.Profile.HandleProfile(ctx, handler.ProfileRequest{
			TargetID: invokerID,
			IsSelf:   true,
		})
	case "leaderboard":
		resp, err = r.cfg.Leaderboard.Handle(ctx)
	case "addword":
		resp, err = r.cfg.Vocabulary.HandleAddWord(ctx, invokerID, invokerName(i, invoker), stringOption(data, "word"))
	case "delword":
		resp, err = r.cfg.Vocabulary.HandleDelWord(ctx, invokerID, intOption(data, "number"))
	case "clearwords":
		resp, err = r.cfg.Vocabulary.HandleClearWords(ctx, invokerID)
	case "reviewwords":
		resp, err = r.cfg.Vocabulary.HandleReviewWords(ctx, invokerID)
	case "resetlevel":
		resp, err = r.cfg.Reset.Handle(ctx, invokerID)
	case "help":
		resp, err = r.cfg.Help.Handle(ctx)
	default:
		r.log.Warn("unknown command", logger.CommandName(data.Name))
		return
	}

	if err != nil {
		r.log.Error("command handler failed",
			logger.CommandName(data.Name),
			logger.MemberID(invoker.ID),
			logger.Err(err),
		)
		resp = &handler.Response{Content: "Something went wrong. Try again later.", Ephemeral: true}
	}

	r.respond(s, i, resp)
}

// respond sends the handler's answer back to the interaction.
func (r *Router) respond(s *discordgo.Session, i *discordgo.InteractionCreate, resp *handler.Response) {
	if resp == nil {
		return
	}

	data := &discordgo.InteractionResponseData{Content: resp.Content}
	if resp.Embed != nil {
		data.Embeds = []*discordgo.MessageEmbed{resp.Embed}
	}
	if resp.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		r.log.Error("interaction respond failed", logger.Err(err))
	}
}

// recoverPanic keeps a handler panic from crashing the gateway goroutine.
func (r *Router) recoverPanic(scope string) {
	if rec := recover(); rec != nil {
		r.log.Error("handler panic",
			logger.String("scope", scope),
			logger.String("panic", fmt.Sprint(rec)),
			logger.String("stack", string(debug.Stack())),
		)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Interaction helpers
// ─────────────────────────────────────────────────────────────────────────────

// interactionUser returns the invoking user for guild and DM interactions.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

// invokerName prefers the guild nickname.
func invokerName(i *discordgo.InteractionCreate, u *discordgo.User) string {
	if i.Member != nil && i.Member.Nick != "" {
		return i.Member.Nick
	}
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

// targetUser resolves the optional "user" option, defaulting to the invoker.
func targetUser(data discordgo.ApplicationCommandInteractionData, invoker *discordgo.User) (*discordgo.User, bool) {
	for _, opt := range data.Options {
		if opt.Name == "user" && opt.Type == discordgo.ApplicationCommandOptionUser {
			if u, ok := opt.Value.(string); ok && u != "" {
				return &discordgo.User{ID: u}, u == invoker.ID
			}
		}
	}
	return invoker, true
}

// stringOption returns a string option by name.
func stringOption(data discordgo.ApplicationCommandInteractionData, name string) string {
	for _, opt := range data.Options {
		if opt.Name == name {
			return opt.StringValue()
		}
	}
	return ""
}

// intOption returns an integer option by name.
func intOption(data discordgo.ApplicationCommandInteractionData, name string) int {
	for _, opt := range data.Options {
		if opt.Name == name {
			return int(opt.IntValue())
		}
	}
	return 0
}
