// Package discord wraps the Discord gateway and REST API for the bot.
// It owns the session lifecycle, slash-command registration, role grants
// and transient channel notices; interaction routing lives in the
// interface layer.
package discord

import (
	"errors"
	"fmt"

	"github.com/mailforstudy46-bot/central-discord-bot/pkg/logger"

	"github.com/bwmarrin/discordgo"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// GatewayConfig contains configuration for the Discord gateway.
type GatewayConfig struct {
	// Token is the bot token.
	Token string

	// ApplicationID is the application the slash commands register under.
	ApplicationID string

	// GuildID scopes command registration to a single guild.
	GuildID string

	// Logger for structured logging.
	Logger *logger.Logger
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrMissingToken indicates the bot token is empty.
	ErrMissingToken = errors.New("discord: bot token is required")

	// ErrNotConnected indicates the gateway session is not open.
	ErrNotConnected = errors.New("discord: gateway not connected")
)

// ══════════════════════════════════════════════════════════════════════════════
// GATEWAY
// ══════════════════════════════════════════════════════════════════════════════

// Gateway owns the websocket session to Discord. The message-content intent
// is required for the XP pipeline to see message text.
type Gateway struct {
	session *discordgo.Session
	config  GatewayConfig
	log     *logger.Logger
	open    bool
}

// NewGateway creates a Gateway with the intents the bot needs.
func NewGateway(cfg GatewayConfig) (*Gateway, error) {
	if cfg.Token == "" {
		return nil, ErrMissingToken
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("discord: failed to create session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentMessageContent

	return &Gateway{
		session: session,
		config:  cfg,
		log:     cfg.Logger.With(logger.Component("discord_gateway")),
	}, nil
}

// Session returns the underlying discordgo session for handler registration.
func (g *Gateway) Session() *discordgo.Session {
	return g.session
}

// AddHandler registers an event handler on the session.
// Must be called before Open so no early events are missed.
func (g *Gateway) AddHandler(handler interface{}) {
	g.session.AddHandler(handler)
}

// Open connects to the gateway.
func (g *Gateway) Open() error {
	if err := g.session.Open(); err != nil {
		return fmt.Errorf("discord: failed to open gateway: %w", err)
	}
	g.open = true

	g.log.Info("gateway connected", logger.GuildID(g.config.GuildID))
	return nil
}

// Close disconnects from the gateway.
func (g *Gateway) Close() error {
	if !g.open {
		return nil
	}
	g.open = false

	if err := g.session.Close(); err != nil {
		return fmt.Errorf("discord: failed to close gateway: %w", err)
	}

	g.log.Info("gateway disconnected")
	return nil
}

// RegisterCommands replaces the guild's slash-command set with the given
// definitions. Bulk overwrite keeps stale commands from lingering after a
// deploy.
func (g *Gateway) RegisterCommands(commands []*discordgo.ApplicationCommand) error {
	if !g.open {
		return ErrNotConnected
	}

	registered, err := g.session.ApplicationCommandBulkOverwrite(
		g.config.ApplicationID,
		g.config.GuildID,
		commands,
	)
	if err != nil {
		return fmt.Errorf("discord: failed to register commands: %w", err)
	}

	g.log.Info("slash commands registered", logger.Int("count", len(registered)))
	return nil
}
