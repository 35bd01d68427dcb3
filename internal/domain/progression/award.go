// Package progression содержит чистую логику начисления XP и ролевых ступеней.
// Здесь нет ни хранилища, ни шлюза - только правила.
package progression

import (
	"regexp"
	"strings"

	"github.com/mailforstudy46-bot/central-discord-bot/internal/domain/member"
)

// ══════════════════════════════════════════════════════════════════════════════
// TEXT FILTER
// ══════════════════════════════════════════════════════════════════════════════

// latinRuns выделяет максимальные последовательности латинских букв и цифр.
var latinRuns = regexp.MustCompile(`[A-Za-z0-9]+`)

// FilterText выделяет из сырого текста последовательности [A-Za-z0-9]+
// и соединяет их одиночными пробелами. Пустая строка означает,
// что в сообщении нет засчитываемого текста.
func FilterText(raw string) string {
	runs := latinRuns.FindAllString(raw, -1)
	if len(runs) == 0 {
		return ""
	}
	return strings.Join(runs, " ")
}

// MaxXPPerMessage - потолок начисления за одно сообщение.
const MaxXPPerMessage = 200

// XPForText возвращает начисление за отфильтрованный текст:
// длина текста в символах, но не больше MaxXPPerMessage.
func XPForText(filtered string) member.XP {
	gain := len(filtered)
	if gain > MaxXPPerMessage {
		gain = MaxXPPerMessage
	}
	return member.XP(gain)
}

// ══════════════════════════════════════════════════════════════════════════════
// ELIGIBILITY
// ══════════════════════════════════════════════════════════════════════════════

// IneligibleReason объясняет, почему сообщение не зачтено.
type IneligibleReason string

const (
	// ReasonChannelNotAllowed - канал не входит в список начисления.
	ReasonChannelNotAllowed IneligibleReason = "channel_not_allowed"

	// ReasonNoLatinText - после фильтрации текст пуст.
	ReasonNoLatinText IneligibleReason = "no_latin_text"

	// ReasonRepeatedMessage - дословный повтор предыдущего сообщения.
	ReasonRepeatedMessage IneligibleReason = "repeated_message"

	// ReasonVocabularyWord - текст уже сохранён в словаре участника.
	// Слова из словаря навсегда выбывают из начисления: это защита от
	// накрутки через повтор уже выученных слов.
	ReasonVocabularyWord IneligibleReason = "vocabulary_word"
)

// AwardRules - правила начисления XP за сообщения.
type AwardRules struct {
	// allowedChannels - каналы, в которых сообщения засчитываются.
	allowedChannels map[string]struct{}
}

// NewAwardRules создаёт правила с указанным списком каналов.
func NewAwardRules(channelIDs []string) *AwardRules {
	allowed := make(map[string]struct{}, len(channelIDs))
	for _, id := range channelIDs {
		if id = strings.TrimSpace(id); id != "" {
			allowed[id] = struct{}{}
		}
	}
	return &AwardRules{allowedChannels: allowed}
}

// ChannelAllowed проверяет, входит ли канал в список начисления.
func (r *AwardRules) ChannelAllowed(channelID string) bool {
	_, ok := r.allowedChannels[channelID]
	return ok
}

// Evaluation - результат проверки сообщения.
type Evaluation struct {
	// Eligible - true, если сообщение засчитывается.
	Eligible bool

	// Reason - причина отказа (пустая при Eligible).
	Reason IneligibleReason

	// FilteredText - текст после фильтрации.
	FilteredText string

	// Gain - начисление XP (0 при отказе).
	Gain member.XP
}

// Evaluate применяет все правила начисления к сообщению.
// Проверка автора (боты не засчитываются) остаётся на шлюзе.
func (r *AwardRules) Evaluate(m *member.Member, channelID, rawText string) Evaluation {
	if !r.ChannelAllowed(channelID) {
		return Evaluation{Reason: ReasonChannelNotAllowed}
	}

	filtered := FilterText(rawText)
	if filtered == "" {
		return Evaluation{Reason: ReasonNoLatinText}
	}

	if m != nil && m.LastMessage == rawText {
		return Evaluation{Reason: ReasonRepeatedMessage, FilteredText: filtered}
	}

	if m != nil && m.HasWord(filtered) {
		return Evaluation{Reason: ReasonVocabularyWord, FilteredText: filtered}
	}

	return Evaluation{
		Eligible:     true,
		FilteredText: filtered,
		Gain:         XPForText(filtered),
	}
}
