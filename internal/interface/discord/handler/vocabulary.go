package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/mailforstudy46-bot/central-discord-bot/internal/application/command"
	"github.com/mailforstudy46-bot/central-discord-bot/internal/application/query"
	"github.com/mailforstudy46-bot/central-discord-bot/internal/domain/member"
	"github.com/mailforstudy46-bot/central-discord-bot/internal/interface/discord/presenter"
)

// ══════════════════════════════════════════════════════════════════════════════
// VOCABULARY HANDLERS
// /addword, /delword, /clearwords, /reviewwords. All answers are ephemeral:
// a member's word list is their own business.
// ══════════════════════════════════════════════════════════════════════════════

// VocabularyHandler handles the vocabulary commands.
type VocabularyHandler struct {
	addWord    *command.AddWordHandler
	deleteWord *command.DeleteWordHandler
	clearWords *command.ClearWordsHandler
	review     *query.ReviewWordsHandler
}

// NewVocabularyHandler creates a new VocabularyHandler.
func NewVocabularyHandler(
	addWord *command.AddWordHandler,
	deleteWord *command.DeleteWordHandler,
	clearWords *command.ClearWordsHandler,
	review *query.ReviewWordsHandler,
) *VocabularyHandler {
	return &VocabularyHandler{
		addWord:    addWord,
		deleteWord: deleteWord,
		clearWords: clearWords,
		review:     review,
	}
}

// HandleAddWord tracks a new word.
func (h *VocabularyHandler) HandleAddWord(ctx context.Context, id member.DiscordID, displayName, word string) (*Response, error) {
	result, err := h.addWord.Handle(ctx, command.AddWordCommand{
		DiscordID:   id,
		DisplayName: displayName,
		Word:        word,
	})
	if errors.Is(err, member.ErrEmptyWord) {
		return errorResponse("Give me a word to track."), nil
	}
	if err != nil {
		return errorResponse("Could not save the word. Try again later."), nil
	}

	if !result.Added {
		return &Response{
			Content:   fmt.Sprintf("**%s** is already in your vocabulary (%d words).", result.Word, result.TotalWords),
			Ephemeral: true,
		}, nil
	}

	return &Response{
		Content:   fmt.Sprintf("Added **%s** to your vocabulary (%d words).", result.Word, result.TotalWords),
		Ephemeral: true,
	}, nil
}

// HandleDelWord removes a word by its 1-based review number.
func (h *VocabularyHandler) HandleDelWord(ctx context.Context, id member.DiscordID, index int) (*Response, error) {
	result, err := h.deleteWord.Handle(ctx, command.DeleteWordCommand{DiscordID: id, Index: index})
	if errors.Is(err, member.ErrWordIndexOutOfRange) {
		return errorResponse("No word with that number. Check `/reviewwords`."), nil
	}
	if errors.Is(err, member.ErrMemberNotFound) {
		return errorResponse("Your vocabulary is empty."), nil
	}
	if err != nil {
		return errorResponse("Could not remove the word. Try again later."), nil
	}

	return &Response{
		Content:   fmt.Sprintf("Removed **%s** (%d words left).", result.Removed.Word, result.TotalWords),
		Ephemeral: true,
	}, nil
}

// HandleClearWords wipes the vocabulary.
func (h *VocabularyHandler) HandleClearWords(ctx context.Context, id member.DiscordID) (*Response, error) {
	result, err := h.clearWords.Handle(ctx, command.ClearWordsCommand{DiscordID: id})
	if err != nil {
		return errorResponse("Could not clear your vocabulary. Try again later."), nil
	}

	if result.RemovedCount == 0 {
		return &Response{Content: "Your vocabulary was already empty.", Ephemeral: true}, nil
	}

	return &Response{
		Content:   fmt.Sprintf("Cleared %d words from your vocabulary.", result.RemovedCount),
		Ephemeral: true,
	}, nil
}

// HandleReviewWords lists the tracked words.
func (h *VocabularyHandler) HandleReviewWords(ctx context.Context, id member.DiscordID) (*Response, error) {
	result, err := h.review.Handle(ctx, query.ReviewWordsQuery{DiscordID: id})
	if err != nil {
		return errorResponse("Could not load your vocabulary. Try again later."), nil
	}

	return &Response{Embed: presenter.VocabularyList(result), Ephemeral: true}, nil
}
