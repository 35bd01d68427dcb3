package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/mailforstudy46-bot/central-discord-bot/internal/domain/member"
)

// ══════════════════════════════════════════════════════════════════════════════
// VOCABULARY COMMANDS
// addword / delword / clearwords. The record is created lazily on first use,
// like the award path, so /addword works before the member ever earned XP.
// ══════════════════════════════════════════════════════════════════════════════

// AddWordCommand adds a word to a member's vocabulary.
type AddWordCommand struct {
	DiscordID   member.DiscordID
	DisplayName string
	Word        string
}

// AddWordResult reports the insert outcome.
type AddWordResult struct {
	// Added is false when the word was already present (kept once).
	Added bool

	// Word is the stored word.
	Word string

	// TotalWords is the vocabulary size after the command.
	TotalWords int
}

// AddWordHandler handles AddWordCommand.
type AddWordHandler struct {
	repo member.Repository
}

// NewAddWordHandler creates a new AddWordHandler.
func NewAddWordHandler(repo member.Repository) *AddWordHandler {
	return &AddWordHandler{repo: repo}
}

// Handle inserts the word, rejecting duplicates without error.
func (h *AddWordHandler) Handle(ctx context.Context, cmd AddWordCommand) (*AddWordResult, error) {
	m, err := member.GetOrCreate(ctx, h.repo, cmd.DiscordID, cmd.DisplayName)
	if err != nil {
		return nil, fmt.Errorf("add_word: load member: %w", err)
	}

	err = m.AddWord(cmd.Word, cmd.DisplayName)
	if errors.Is(err, member.ErrDuplicateWord) {
		return &AddWordResult{Added: false, Word: cmd.Word, TotalWords: len(m.Vocabulary)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("add_word: %w", err)
	}

	if err := h.repo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("add_word: persist member: %w", err)
	}

	return &AddWordResult{Added: true, Word: cmd.Word, TotalWords: len(m.Vocabulary)}, nil
}

// ══════════════════════════════════════════════════════════════════════════════

// DeleteWordCommand removes a word by its position in the review list.
type DeleteWordCommand struct {
	DiscordID member.DiscordID

	// Index is 1-based, matching the numbering shown by /reviewwords.
	Index int
}

// DeleteWordResult reports the removal outcome.
type DeleteWordResult struct {
	// Removed is the deleted entry.
	Removed member.VocabularyEntry

	// TotalWords is the vocabulary size after the command.
	TotalWords int
}

// DeleteWordHandler handles DeleteWordCommand.
type DeleteWordHandler struct {
	repo member.Repository
}

// NewDeleteWordHandler creates a new DeleteWordHandler.
func NewDeleteWordHandler(repo member.Repository) *DeleteWordHandler {
	return &DeleteWordHandler{repo: repo}
}

// Handle removes the word at the given 1-based index.
// Returns member.ErrWordIndexOutOfRange when the index does not exist.
func (h *DeleteWordHandler) Handle(ctx context.Context, cmd DeleteWordCommand) (*DeleteWordResult, error) {
	m, err := h.repo.GetByDiscordID(ctx, cmd.DiscordID)
	if err != nil {
		return nil, fmt.Errorf("delete_word: load member: %w", err)
	}

	removed, err := m.RemoveWordAt(cmd.Index - 1)
	if err != nil {
		return nil, err
	}

	if err := h.repo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("delete_word: persist member: %w", err)
	}

	return &DeleteWordResult{Removed: removed, TotalWords: len(m.Vocabulary)}, nil
}

// ══════════════════════════════════════════════════════════════════════════════

// ClearWordsCommand wipes a member's vocabulary.
type ClearWordsCommand struct {
	DiscordID member.DiscordID
}

// ClearWordsResult reports how many entries were dropped.
type ClearWordsResult struct {
	RemovedCount int
}

// ClearWordsHandler handles ClearWordsCommand.
type ClearWordsHandler struct {
	repo member.Repository
}

// NewClearWordsHandler creates a new ClearWordsHandler.
func NewClearWordsHandler(repo member.Repository) *ClearWordsHandler {
	return &ClearWordsHandler{repo: repo}
}

// Handle clears the vocabulary. A missing record counts as already empty.
func (h *ClearWordsHandler) Handle(ctx context.Context, cmd ClearWordsCommand) (*ClearWordsResult, error) {
	m, err := h.repo.GetByDiscordID(ctx, cmd.DiscordID)
	if errors.Is(err, member.ErrMemberNotFound) {
		return &ClearWordsResult{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("clear_words: load member: %w", err)
	}

	removed := m.ClearWords()
	if removed == 0 {
		return &ClearWordsResult{}, nil
	}

	if err := h.repo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("clear_words: persist member: %w", err)
	}

	return &ClearWordsResult{RemovedCount: removed}, nil
}
