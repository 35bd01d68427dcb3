package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/mailforstudy46-bot/central-discord-bot/internal/domain/member"
)

// ══════════════════════════════════════════════════════════════════════════════
// REVIEW WORDS QUERY
// Lists a member's tracked vocabulary in insertion order.
// ══════════════════════════════════════════════════════════════════════════════

// ReviewWordsQuery asks for a member's vocabulary list.
type ReviewWordsQuery struct {
	DiscordID member.DiscordID
}

// WordEntry is a single vocabulary word with its 1-based position, the way
// the list command numbers them.
type WordEntry struct {
	// Index is the 1-based position used by the delete command.
	Index int

	// Word is the tracked word.
	Word string
}

// ReviewWordsResult contains the vocabulary listing.
type ReviewWordsResult struct {
	// Words is empty when the member has no record or no words.
	Words []WordEntry
}

// ReviewWordsHandler handles ReviewWordsQuery.
type ReviewWordsHandler struct {
	repo member.Repository
}

// NewReviewWordsHandler creates a new ReviewWordsHandler.
func NewReviewWordsHandler(repo member.Repository) *ReviewWordsHandler {
	return &ReviewWordsHandler{repo: repo}
}

// Handle lists the member's words. A missing record reads as an empty list.
func (h *ReviewWordsHandler) Handle(ctx context.Context, q ReviewWordsQuery) (*ReviewWordsResult, error) {
	m, err := h.repo.GetByDiscordID(ctx, q.DiscordID)
	if err != nil {
		if errors.Is(err, member.ErrMemberNotFound) {
			return &ReviewWordsResult{}, nil
		}
		return nil, fmt.Errorf("review_words: %w", err)
	}

	words := make([]WordEntry, 0, len(m.Vocabulary))
	for i, entry := range m.Vocabulary {
		words = append(words, WordEntry{Index: i + 1, Word: entry.Word})
	}
	return &ReviewWordsResult{Words: words}, nil
}
