// Package member содержит доменную модель участника сообщества.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package member

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// DiscordID представляет уникальный идентификатор пользователя Discord
// (snowflake в строковом формате).
type DiscordID string

// IsValid проверяет, что DiscordID непустой и состоит только из цифр.
func (d DiscordID) IsValid() bool {
	s := string(d)
	if len(s) == 0 || len(s) > 20 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// String возвращает строковое представление идентификатора.
func (d DiscordID) String() string {
	return string(d)
}

// XP представляет очки опыта участника.
type XP int

// IsValid проверяет, что XP неотрицательный.
func (x XP) IsValid() bool {
	return x >= 0
}

// Add складывает XP.
func (x XP) Add(delta XP) XP {
	return x + delta
}

// Level представляет уровень участника, вычисляемый из XP.
type Level int

// XPPerLevel - количество XP на один уровень.
const XPPerLevel = 100

// CalculateLevel вычисляет уровень на основе XP.
// Формула: каждые 100 XP = 1 уровень, отсчёт с первого.
func CalculateLevel(xp XP) Level {
	if xp < 0 {
		return 1
	}
	return Level(int(xp)/XPPerLevel + 1)
}

// NextLevelXP возвращает порог XP для следующего уровня.
// Совпадает с формулой профильной карточки исходного бота.
func (l Level) NextLevelXP() XP {
	return XP((int(l) + 1) * XPPerLevel)
}

// VocabularyEntry - одно слово в личном словаре участника.
type VocabularyEntry struct {
	// Word - сохранённое слово или фраза.
	Word string

	// AddedBy - отображаемое имя того, кто добавил слово.
	AddedBy string

	// AddedAt - время добавления.
	AddedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: MEMBER
// ══════════════════════════════════════════════════════════════════════════════

// Member - центральная сущность системы: прогресс участника сообщества.
// Запись создаётся лениво при первом взаимодействии и никогда не удаляется.
type Member struct {
	// DiscordID - идентификатор пользователя в Discord, уникальный ключ.
	DiscordID DiscordID

	// DisplayName - последнее наблюдавшееся отображаемое имя.
	DisplayName string

	// XP - накопленные очки опыта.
	XP XP

	// Level - уровень, всегда пересчитывается вместе с XP.
	Level Level

	// LastMessage - текст последнего зачтённого сообщения (сырой,
	// без фильтрации). Используется для подавления дословных повторов.
	LastMessage string

	// Vocabulary - личный словарь, порядок вставки сохраняется.
	Vocabulary []VocabularyEntry

	// CreatedAt - время создания записи.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidDiscordID - невалидный Discord ID.
	ErrInvalidDiscordID = errors.New("invalid discord id: must be a numeric snowflake")

	// ErrInvalidDisplayName - невалидное отображаемое имя.
	ErrInvalidDisplayName = errors.New("invalid display name: must be 1-100 chars")

	// ErrInvalidXP - невалидное значение XP.
	ErrInvalidXP = errors.New("invalid xp: must be non-negative")

	// ErrMemberNotFound - участник не найден.
	ErrMemberNotFound = errors.New("member not found")

	// ErrMemberAlreadyExists - участник уже существует.
	ErrMemberAlreadyExists = errors.New("member already exists")

	// ErrDuplicateWord - слово уже есть в словаре.
	ErrDuplicateWord = errors.New("word already in vocabulary")

	// ErrEmptyWord - пустое слово нельзя добавить в словарь.
	ErrEmptyWord = errors.New("word cannot be empty")

	// ErrWordIndexOutOfRange - индекс слова вне границ словаря.
	ErrWordIndexOutOfRange = errors.New("word index out of range")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewMember создаёт нового участника с нулевым прогрессом.
// Инвариант: xp=0, level=1, пустой словарь.
func NewMember(id DiscordID, displayName string) (*Member, error) {
	if !id.IsValid() {
		return nil, ErrInvalidDiscordID
	}

	displayName = strings.TrimSpace(displayName)
	if len(displayName) == 0 || len(displayName) > 100 {
		return nil, ErrInvalidDisplayName
	}

	now := time.Now().UTC()

	return &Member{
		DiscordID:   id,
		DisplayName: displayName,
		XP:          0,
		Level:       1,
		LastMessage: "",
		Vocabulary:  nil,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS (Business Logic)
// ══════════════════════════════════════════════════════════════════════════════

// AddXP начисляет XP и пересчитывает уровень.
// Возвращает true, если уровень вырос. XP и Level меняются только вместе.
func (m *Member) AddXP(gain XP) (leveledUp bool, err error) {
	if gain < 0 {
		return false, ErrInvalidXP
	}

	oldLevel := m.Level
	m.XP = m.XP.Add(gain)
	m.Level = CalculateLevel(m.XP)
	m.UpdatedAt = time.Now().UTC()

	return m.Level > oldLevel, nil
}

// RecordMessage запоминает сырой текст зачтённого сообщения и имя автора.
func (m *Member) RecordMessage(rawText, displayName string) {
	m.LastMessage = rawText
	if name := strings.TrimSpace(displayName); name != "" {
		m.DisplayName = name
	}
	m.UpdatedAt = time.Now().UTC()
}

// HasWord проверяет, есть ли слово в словаре (точное совпадение).
func (m *Member) HasWord(word string) bool {
	for _, entry := range m.Vocabulary {
		if entry.Word == word {
			return true
		}
	}
	return false
}

// AddWord добавляет слово в словарь. Дубликаты отклоняются.
func (m *Member) AddWord(word, addedBy string) error {
	word = strings.TrimSpace(word)
	if word == "" {
		return ErrEmptyWord
	}
	if m.HasWord(word) {
		return ErrDuplicateWord
	}

	m.Vocabulary = append(m.Vocabulary, VocabularyEntry{
		Word:    word,
		AddedBy: addedBy,
		AddedAt: time.Now().UTC(),
	})
	m.UpdatedAt = time.Now().UTC()

	return nil
}

// RemoveWordAt удаляет слово по индексу (с нуля), сохраняя порядок остальных.
func (m *Member) RemoveWordAt(index int) (VocabularyEntry, error) {
	if index < 0 || index >= len(m.Vocabulary) {
		return VocabularyEntry{}, ErrWordIndexOutOfRange
	}

	removed := m.Vocabulary[index]
	m.Vocabulary = append(m.Vocabulary[:index], m.Vocabulary[index+1:]...)
	m.UpdatedAt = time.Now().UTC()

	return removed, nil
}

// ClearWords очищает словарь целиком.
func (m *Member) ClearWords() int {
	removed := len(m.Vocabulary)
	m.Vocabulary = nil
	m.UpdatedAt = time.Now().UTC()
	return removed
}

// ResetProgress сбрасывает XP, уровень и последнее сообщение.
// Словарь при этом не трогается.
func (m *Member) ResetProgress() {
	m.XP = 0
	m.Level = 1
	m.LastMessage = ""
	m.UpdatedAt = time.Now().UTC()
}

// String возвращает строковое представление участника для логирования.
func (m *Member) String() string {
	return fmt.Sprintf(
		"Member{ID: %s, Name: %s, XP: %d, Level: %d, Words: %d}",
		m.DiscordID, m.DisplayName, m.XP, m.Level, len(m.Vocabulary),
	)
}

// Clone создаёт копию участника (словарь копируется отдельно).
func (m *Member) Clone() *Member {
	if m == nil {
		return nil
	}

	clone := *m
	if m.Vocabulary != nil {
		clone.Vocabulary = make([]VocabularyEntry, len(m.Vocabulary))
		copy(clone.Vocabulary, m.Vocabulary)
	}
	return &clone
}
