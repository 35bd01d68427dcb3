package presenter

import (
	"testing"

	"github.com/mailforstudy46-bot/central-discord-bot/internal/application/query"

	"github.com/stretchr/testify/assert"
)

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "▱▱▱▱▱▱▱▱▱▱", progressBar(0))
	assert.Equal(t, "▰▰▰▰▰▱▱▱▱▱", progressBar(50))
	assert.Equal(t, "▰▰▰▰▰▰▰▰▰▰", progressBar(100))
	// Values outside 0..100 are clamped.
	assert.Equal(t, "▱▱▱▱▱▱▱▱▱▱", progressBar(-10))
	assert.Equal(t, "▰▰▰▰▰▰▰▰▰▰", progressBar(150))
	// Partial cells round down.
	assert.Equal(t, "▰▱▱▱▱▱▱▱▱▱", progressBar(19))
}

func TestProfileCard(t *testing.T) {
	card := ProfileCard(&query.GetProfileResult{
		Found:           true,
		DisplayName:     "Alice",
		XP:              150,
		Level:           2,
		NextLevelXP:     300,
		ProgressPercent: 50,
		WordCount:       3,
	})

	assert.Contains(t, card.Title, "Alice")
	assert.Len(t, card.Fields, 4)
	assert.Equal(t, "150 / 300", card.Fields[1].Value)
	assert.Contains(t, card.Fields[3].Value, "50%")
}

func TestRankBadge(t *testing.T) {
	assert.Equal(t, "🥇", rankBadge(1))
	assert.Equal(t, "🥈", rankBadge(2))
	assert.Equal(t, "🥉", rankBadge(3))
	assert.Equal(t, "`#4`", rankBadge(4))
}

func TestLeaderboard_Empty(t *testing.T) {
	embed := Leaderboard(&query.GetLeaderboardResult{})
	assert.Contains(t, embed.Description, "Nobody has earned XP yet")
}

func TestLeaderboard_Entries(t *testing.T) {
	embed := Leaderboard(&query.GetLeaderboardResult{
		Entries: []query.LeaderboardEntry{
			{Rank: 1, DisplayName: "Alice", XP: 500, Level: 6},
			{Rank: 2, DisplayName: "Bob", XP: 300, Level: 4},
		},
	})

	assert.Contains(t, embed.Description, "🥇 **Alice** — 500 XP (level 6)")
	assert.Contains(t, embed.Description, "🥈 **Bob**")
}

func TestVocabularyList(t *testing.T) {
	embed := VocabularyList(&query.ReviewWordsResult{
		Words: []query.WordEntry{
			{Index: 1, Word: "alpha"},
			{Index: 2, Word: "beta"},
		},
	})

	assert.Contains(t, embed.Description, "`1.` alpha")
	assert.Contains(t, embed.Description, "`2.` beta")

	empty := VocabularyList(&query.ReviewWordsResult{})
	assert.Contains(t, empty.Description, "vocabulary is empty")
}

func TestNotices(t *testing.T) {
	assert.Equal(t, "✨ **Alice** earned **25 XP** (total 125)", XPNotice("Alice", 25, 125))
	assert.Equal(t, "🎉 **Alice** reached **level 2**!", LevelUpNotice("Alice", 2))
	assert.Equal(t, "🏅 <@42> unlocked the **100 XP** reward role!", TierNotice("42", 100))
}

func TestEventAnnouncement(t *testing.T) {
	embed := EventAnnouncement("Movie night", "Friday 20:00")
	assert.Equal(t, "📅 Movie night", embed.Title)
	assert.Contains(t, embed.Description, "Friday 20:00")
}
