// Package presenter formats query results into Discord embeds and messages.
// Презентеры переводят доменные данные в дружелюбный вид для участников.
package presenter

import (
	"fmt"
	"strings"

	"github.com/mailforstudy46-bot/central-discord-bot/internal/application/query"

	"github.com/bwmarrin/discordgo"
)

// Embed colors.
const (
	colorPrimary = 0x5865F2 // blurple
	colorGold    = 0xF1C40F
	colorMuted   = 0x95A5A6
)

const progressBarWidth = 10

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE CARD
// ══════════════════════════════════════════════════════════════════════════════

// ProfileCard renders a member's XP, level and progress toward the next level.
func ProfileCard(p *query.GetProfileResult) *discordgo.MessageEmbed {
	bar := progressBar(p.ProgressPercent)

	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("📊 %s", p.DisplayName),
		Color: colorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Level", Value: fmt.Sprintf("%d", p.Level), Inline: true},
			{Name: "XP", Value: fmt.Sprintf("%d / %d", p.XP, p.NextLevelXP), Inline: true},
			{Name: "Words tracked", Value: fmt.Sprintf("%d", p.WordCount), Inline: true},
			{
				Name:  "Progress to next level",
				Value: fmt.Sprintf("%s %d%%", bar, p.ProgressPercent),
			},
		},
	}
}

// XPSummary is the short /xp answer.
func XPSummary(p *query.GetProfileResult) string {
	return fmt.Sprintf("**%s** has **%d XP** (level %d)", p.DisplayName, p.XP, p.Level)
}

// NoRecordNotice is shown when the member has not earned anything yet.
func NoRecordNotice() string {
	return "No progress yet. Write something in an XP channel to get started!"
}

// progressBar renders percent as a fixed-width bar of filled and empty cells.
func progressBar(percent int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := percent * progressBarWidth / 100
	return strings.Repeat("▰", filled) + strings.Repeat("▱", progressBarWidth-filled)
}

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD
// ══════════════════════════════════════════════════════════════════════════════

// Leaderboard renders the top members ordered by XP.
func Leaderboard(result *query.GetLeaderboardResult) *discordgo.MessageEmbed {
	var sb strings.Builder

	if len(result.Entries) == 0 {
		sb.WriteString("*Nobody has earned XP yet.*")
	} else {
		for _, entry := range result.Entries {
			sb.WriteString(fmt.Sprintf(
				"%s **%s** — %d XP (level %d)\n",
				rankBadge(entry.Rank),
				entry.DisplayName,
				entry.XP,
				entry.Level,
			))
		}
	}

	return &discordgo.MessageEmbed{
		Title:       "🏆 Leaderboard",
		Description: sb.String(),
		Color:       colorGold,
	}
}

// rankBadge returns the medal for the podium and a plain number otherwise.
func rankBadge(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("`#%d`", rank)
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// VOCABULARY
// ══════════════════════════════════════════════════════════════════════════════

// VocabularyList renders the numbered word list used by /reviewwords.
// The numbers are the indexes /delword accepts.
func VocabularyList(result *query.ReviewWordsResult) *discordgo.MessageEmbed {
	var sb strings.Builder

	if len(result.Words) == 0 {
		sb.WriteString("*Your vocabulary is empty. Add words with `/addword`.*")
	} else {
		for _, w := range result.Words {
			sb.WriteString(fmt.Sprintf("`%d.` %s\n", w.Index, w.Word))
		}
	}

	return &discordgo.MessageEmbed{
		Title:       "📖 Your vocabulary",
		Description: sb.String(),
		Color:       colorMuted,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// HELP
// ══════════════════════════════════════════════════════════════════════════════

// Help renders the command reference.
func Help() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "ℹ️ Commands",
		Color: colorPrimary,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "/xp", Value: "Show your (or another member's) XP and level."},
			{Name: "/profile", Value: "Show your full profile card."},
			{Name: "/leaderboard", Value: "Show the top members by XP."},
			{Name: "/addword <word>", Value: "Track a word. Tracked words stop earning XP."},
			{Name: "/delword <number>", Value: "Remove a word by its `/reviewwords` number."},
			{Name: "/clearwords", Value: "Remove all tracked words."},
			{Name: "/reviewwords", Value: "List your tracked words."},
			{Name: "/resetlevel", Value: "Reset your XP and level to zero."},
			{Name: "/help", Value: "Show this message."},
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// TRANSIENT NOTICES
// ══════════════════════════════════════════════════════════════════════════════

// XPNotice is the short channel notice after an award.
func XPNotice(displayName string, amount, newTotal int) string {
	return fmt.Sprintf("✨ **%s** earned **%d XP** (total %d)", displayName, amount, newTotal)
}

// LevelUpNotice celebrates crossing a level boundary.
func LevelUpNotice(displayName string, newLevel int) string {
	return fmt.Sprintf("🎉 **%s** reached **level %d**!", displayName, newLevel)
}

// TierNotice announces a new reward role.
func TierNotice(userID string, threshold int) string {
	return fmt.Sprintf("🏅 <@%s> unlocked the **%d XP** reward role!", userID, threshold)
}

// ══════════════════════════════════════════════════════════════════════════════
// EVENT ANNOUNCEMENT
// ══════════════════════════════════════════════════════════════════════════════

// EventAnnouncement renders a community event posted through the webhook.
func EventAnnouncement(title, startTime string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("📅 %s", title),
		Description: fmt.Sprintf("Starts at **%s**", startTime),
		Color:       colorPrimary,
	}
}
