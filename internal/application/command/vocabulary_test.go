package command

import (
	"context"
	"testing"

	"github.com/mailforstudy46-bot/central-discord-bot/internal/domain/member"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddWord_CreatesRecordLazily(t *testing.T) {
	repo := newFakeRepo()
	h := NewAddWordHandler(repo)

	result, err := h.Handle(context.Background(), AddWordCommand{
		DiscordID:   testUserID,
		DisplayName: "Alice",
		Word:        "serendipity",
	})
	require.NoError(t, err)
	assert.True(t, result.Added)
	assert.Equal(t, 1, result.TotalWords)

	stored, err := repo.GetByDiscordID(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Equal(t, member.XP(0), stored.XP)
	assert.Equal(t, "serendipity", stored.Vocabulary[0].Word)
	assert.Equal(t, "Alice", stored.Vocabulary[0].AddedBy)
}

func TestAddWord_DuplicateKeptOnce(t *testing.T) {
	repo := newFakeRepo()
	h := NewAddWordHandler(repo)
	cmd := AddWordCommand{DiscordID: testUserID, DisplayName: "Alice", Word: "echo"}

	first, err := h.Handle(context.Background(), cmd)
	require.NoError(t, err)
	assert.True(t, first.Added)

	second, err := h.Handle(context.Background(), cmd)
	require.NoError(t, err)
	assert.False(t, second.Added)
	assert.Equal(t, 1, second.TotalWords)
}

func TestAddWord_EmptyWordRejected(t *testing.T) {
	h := NewAddWordHandler(newFakeRepo())

	_, err := h.Handle(context.Background(), AddWordCommand{
		DiscordID:   testUserID,
		DisplayName: "Alice",
		Word:        "   ",
	})
	assert.ErrorIs(t, err, member.ErrEmptyWord)
}

func TestDeleteWord_OneBasedIndex(t *testing.T) {
	repo := newFakeRepo()
	add := NewAddWordHandler(repo)
	del := NewDeleteWordHandler(repo)

	for _, w := range []string{"alpha", "beta", "gamma"} {
		_, err := add.Handle(context.Background(), AddWordCommand{
			DiscordID: testUserID, DisplayName: "Alice", Word: w,
		})
		require.NoError(t, err)
	}

	result, err := del.Handle(context.Background(), DeleteWordCommand{DiscordID: testUserID, Index: 2})
	require.NoError(t, err)
	assert.Equal(t, "beta", result.Removed.Word)
	assert.Equal(t, 2, result.TotalWords)

	stored, _ := repo.GetByDiscordID(context.Background(), testUserID)
	assert.Equal(t, "alpha", stored.Vocabulary[0].Word)
	assert.Equal(t, "gamma", stored.Vocabulary[1].Word)
}

func TestDeleteWord_IndexOutOfRange(t *testing.T) {
	repo := newFakeRepo()
	add := NewAddWordHandler(repo)
	del := NewDeleteWordHandler(repo)

	_, err := add.Handle(context.Background(), AddWordCommand{
		DiscordID: testUserID, DisplayName: "Alice", Word: "only",
	})
	require.NoError(t, err)

	_, err = del.Handle(context.Background(), DeleteWordCommand{DiscordID: testUserID, Index: 0})
	assert.ErrorIs(t, err, member.ErrWordIndexOutOfRange)

	_, err = del.Handle(context.Background(), DeleteWordCommand{DiscordID: testUserID, Index: 2})
	assert.ErrorIs(t, err, member.ErrWordIndexOutOfRange)
}

func TestDeleteWord_NoRecord(t *testing.T) {
	del := NewDeleteWordHandler(newFakeRepo())

	_, err := del.Handle(context.Background(), DeleteWordCommand{DiscordID: testUserID, Index: 1})
	assert.ErrorIs(t, err, member.ErrMemberNotFound)
}

func TestClearWords(t *testing.T) {
	repo := newFakeRepo()
	add := NewAddWordHandler(repo)
	clear := NewClearWordsHandler(repo)

	for _, w := range []string{"one", "two"} {
		_, err := add.Handle(context.Background(), AddWordCommand{
			DiscordID: testUserID, DisplayName: "Alice", Word: w,
		})
		require.NoError(t, err)
	}

	result, err := clear.Handle(context.Background(), ClearWordsCommand{DiscordID: testUserID})
	require.NoError(t, err)
	assert.Equal(t, 2, result.RemovedCount)

	stored, _ := repo.GetByDiscordID(context.Background(), testUserID)
	assert.Empty(t, stored.Vocabulary)
}

func TestClearWords_NoRecordIsNoop(t *testing.T) {
	clear := NewClearWordsHandler(newFakeRepo())

	result, err := clear.Handle(context.Background(), ClearWordsCommand{DiscordID: testUserID})
	require.NoError(t, err)
	assert.Equal(t, 0, result.RemovedCount)
}
