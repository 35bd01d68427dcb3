package discord

import (
	"context"

	"github.com/mailforstudy46-bot/central-discord-bot/internal/interface/discord/presenter"

	"github.com/bwmarrin/discordgo"
)

// embedSender posts an embed into a channel.
type embedSender interface {
	SendEmbed(channelID string, embed *discordgo.MessageEmbed) error
}

// Announcer posts event announcements received over the webhook.
type Announcer struct {
	sender embedSender
}

// NewAnnouncer creates a new Announcer.
func NewAnnouncer(sender embedSender) *Announcer {
	return &Announcer{sender: sender}
}

// Announce posts the announcement embed into the target channel.
func (a *Announcer) Announce(ctx context.Context, channelID, title, startTime string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return a.sender.SendEmbed(channelID, presenter.EventAnnouncement(title, startTime))
}
