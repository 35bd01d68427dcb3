package member

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscordID_IsValid(t *testing.T) {
	assert.True(t, DiscordID("123456789012345678").IsValid())
	assert.False(t, DiscordID("").IsValid())
	assert.False(t, DiscordID("abc123").IsValid())
	assert.False(t, DiscordID("123456789012345678901").IsValid())
}

func TestCalculateLevel(t *testing.T) {
	assert.Equal(t, Level(1), CalculateLevel(0))
	assert.Equal(t, Level(1), CalculateLevel(99))
	assert.Equal(t, Level(2), CalculateLevel(100))
	assert.Equal(t, Level(2), CalculateLevel(199))
	assert.Equal(t, Level(3), CalculateLevel(200))
	assert.Equal(t, Level(1), CalculateLevel(-5))
}

func TestLevel_NextLevelXP(t *testing.T) {
	assert.Equal(t, XP(200), Level(1).NextLevelXP())
	assert.Equal(t, XP(400), Level(3).NextLevelXP())
}

func TestNewMember(t *testing.T) {
	m, err := NewMember("123456789012345678", "Alice")
	assert.NoError(t, err)
	assert.Equal(t, XP(0), m.XP)
	assert.Equal(t, Level(1), m.Level)
	assert.Empty(t, m.Vocabulary)

	_, err = NewMember("not-a-snowflake", "Alice")
	assert.ErrorIs(t, err, ErrInvalidDiscordID)

	_, err = NewMember("123456789012345678", "  ")
	assert.ErrorIs(t, err, ErrInvalidDisplayName)
}

func TestMember_AddXP(t *testing.T) {
	m, _ := NewMember("123456789012345678", "Alice")

	leveledUp, err := m.AddXP(50)
	assert.NoError(t, err)
	assert.False(t, leveledUp)
	assert.Equal(t, XP(50), m.XP)
	assert.Equal(t, Level(1), m.Level)

	// Crossing the 100 XP boundary bumps the level.
	leveledUp, err = m.AddXP(60)
	assert.NoError(t, err)
	assert.True(t, leveledUp)
	assert.Equal(t, XP(110), m.XP)
	assert.Equal(t, Level(2), m.Level)

	_, err = m.AddXP(-1)
	assert.ErrorIs(t, err, ErrInvalidXP)
}

func TestMember_RecordMessage(t *testing.T) {
	m, _ := NewMember("123456789012345678", "Alice")

	m.RecordMessage("hello world", "Alice the Great")
	assert.Equal(t, "hello world", m.LastMessage)
	assert.Equal(t, "Alice the Great", m.DisplayName)

	// Empty name keeps the previous one.
	m.RecordMessage("second", "  ")
	assert.Equal(t, "Alice the Great", m.DisplayName)
}

func TestMember_Vocabulary(t *testing.T) {
	m, _ := NewMember("123456789012345678", "Alice")

	assert.NoError(t, m.AddWord("serendipity", "Alice"))
	assert.NoError(t, m.AddWord("ephemeral", "Alice"))
	assert.True(t, m.HasWord("serendipity"))
	assert.False(t, m.HasWord("Serendipity"))

	assert.ErrorIs(t, m.AddWord("serendipity", "Alice"), ErrDuplicateWord)
	assert.ErrorIs(t, m.AddWord("   ", "Alice"), ErrEmptyWord)

	removed, err := m.RemoveWordAt(0)
	assert.NoError(t, err)
	assert.Equal(t, "serendipity", removed.Word)
	assert.Len(t, m.Vocabulary, 1)
	assert.Equal(t, "ephemeral", m.Vocabulary[0].Word)

	_, err = m.RemoveWordAt(5)
	assert.ErrorIs(t, err, ErrWordIndexOutOfRange)

	assert.Equal(t, 1, m.ClearWords())
	assert.Empty(t, m.Vocabulary)
}

func TestMember_ResetProgress(t *testing.T) {
	m, _ := NewMember("123456789012345678", "Alice")
	_, _ = m.AddXP(250)
	m.RecordMessage("last one", "Alice")
	_ = m.AddWord("keepsake", "Alice")

	m.ResetProgress()

	assert.Equal(t, XP(0), m.XP)
	assert.Equal(t, Level(1), m.Level)
	assert.Empty(t, m.LastMessage)
	// The vocabulary survives a reset.
	assert.Len(t, m.Vocabulary, 1)
}

func TestMember_Clone(t *testing.T) {
	m, _ := NewMember("123456789012345678", "Alice")
	_ = m.AddWord("original", "Alice")

	clone := m.Clone()
	_ = clone.AddWord("extra", "Alice")

	assert.Len(t, m.Vocabulary, 1)
	assert.Len(t, clone.Vocabulary, 2)
}
