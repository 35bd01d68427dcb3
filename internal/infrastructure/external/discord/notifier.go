package discord

import (
	"fmt"
	"time"

	"github.com/mailforstudy46-bot/central-discord-bot/pkg/logger"

	"github.com/bwmarrin/discordgo"
)

// ══════════════════════════════════════════════════════════════════════════════
// CHANNEL NOTIFIER
// ══════════════════════════════════════════════════════════════════════════════

// noticeSession is the slice of the Discord REST API the notifier uses.
// *discordgo.Session satisfies it.
type noticeSession interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
}

// Notifier posts channel messages for the bot: transient XP and level-up
// notices that delete themselves, and persistent announcements.
type Notifier struct {
	session noticeSession
	log     *logger.Logger
}

// NewNotifier creates a Notifier.
func NewNotifier(session noticeSession, log *logger.Logger) *Notifier {
	if log == nil {
		log = logger.Default()
	}

	return &Notifier{
		session: session,
		log:     log.With(logger.Component("notifier")),
	}
}

// Send posts a persistent message to a channel.
func (n *Notifier) Send(channelID, content string) error {
	if _, err := n.session.ChannelMessageSend(channelID, content); err != nil {
		return fmt.Errorf("discord: failed to send message: %w", err)
	}
	return nil
}

// SendEmbed posts a persistent embed to a channel.
func (n *Notifier) SendEmbed(channelID string, embed *discordgo.MessageEmbed) error {
	if _, err := n.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		return fmt.Errorf("discord: failed to send embed: %w", err)
	}
	return nil
}

// SendTransient posts a message and deletes it after ttl. The deletion runs
// on a timer off the calling goroutine; a failed delete only logs, the
// notice has already served its purpose.
func (n *Notifier) SendTransient(channelID, content string, ttl time.Duration) error {
	msg, err := n.session.ChannelMessageSend(channelID, content)
	if err != nil {
		return fmt.Errorf("discord: failed to send notice: %w", err)
	}

	n.scheduleDelete(channelID, msg.ID, ttl)
	return nil
}

// SendTransientEmbed posts an embed that deletes itself after ttl.
func (n *Notifier) SendTransientEmbed(channelID string, embed *discordgo.MessageEmbed, ttl time.Duration) error {
	msg, err := n.session.ChannelMessageSendEmbed(channelID, embed)
	if err != nil {
		return fmt.Errorf("discord: failed to send notice embed: %w", err)
	}

	n.scheduleDelete(channelID, msg.ID, ttl)
	return nil
}

func (n *Notifier) scheduleDelete(channelID, messageID string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	time.AfterFunc(ttl, func() {
		if err := n.session.ChannelMessageDelete(channelID, messageID); err != nil {
			n.log.Debug("transient notice delete failed",
				logger.ChannelID(channelID),
				logger.Err(err),
			)
		}
	})
}
