// Package postgres implements the PostgreSQL persistence layer for the
// community engagement bot.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mailforstudy46-bot/central-discord-bot/internal/domain/member"
)

// ══════════════════════════════════════════════════════════════════════════════
// MEMBER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// MemberRepository implements member.Repository for PostgreSQL.
type MemberRepository struct {
	conn *Connection
}

// NewMemberRepository creates a new MemberRepository.
func NewMemberRepository(conn *Connection) *MemberRepository {
	return &MemberRepository{conn: conn}
}

// vocabularyEntry is the JSONB shape of one vocabulary word.
type vocabularyEntry struct {
	Word    string    `json:"word"`
	AddedBy string    `json:"added_by,omitempty"`
	AddedAt time.Time `json:"added_at"`
}

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Create creates a new member record.
func (r *MemberRepository) Create(ctx context.Context, m *member.Member) error {
	query := `
		INSERT INTO members (
			discord_id, display_name, xp, level, last_message,
			vocabulary, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	vocabJSON, err := marshalVocabulary(m.Vocabulary)
	if err != nil {
		return err
	}

	_, err = r.conn.Exec(ctx, query,
		m.DiscordID.String(),
		m.DisplayName,
		int(m.XP),
		int(m.Level),
		m.LastMessage,
		vocabJSON,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return member.ErrMemberAlreadyExists
		}
		return fmt.Errorf("failed to create member: %w", err)
	}

	return nil
}

// GetByDiscordID returns a member by Discord ID.
func (r *MemberRepository) GetByDiscordID(ctx context.Context, id member.DiscordID) (*member.Member, error) {
	query := `
		SELECT discord_id, display_name, xp, level, last_message,
			   vocabulary, created_at, updated_at
		FROM members
		WHERE discord_id = $1
	`

	row := r.conn.QueryRow(ctx, query, id.String())
	return r.scanMember(row)
}

// Update saves member changes.
func (r *MemberRepository) Update(ctx context.Context, m *member.Member) error {
	query := `
		UPDATE members SET
			display_name = $1,
			xp = $2,
			level = $3,
			last_message = $4,
			vocabulary = $5,
			updated_at = $6
		WHERE discord_id = $7
	`

	vocabJSON, err := marshalVocabulary(m.Vocabulary)
	if err != nil {
		return err
	}

	result, err := r.conn.Exec(ctx, query,
		m.DisplayName,
		int(m.XP),
		int(m.Level),
		m.LastMessage,
		vocabJSON,
		time.Now().UTC(),
		m.DiscordID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}

	if result.RowsAffected() == 0 {
		return member.ErrMemberNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Leaderboard & Progress
// ─────────────────────────────────────────────────────────────────────────────

// GetTopByXP returns members sorted by XP descending, up to limit records.
func (r *MemberRepository) GetTopByXP(ctx context.Context, limit int) ([]*member.Member, error) {
	query := `
		SELECT discord_id, display_name, xp, level, last_message,
			   vocabulary, created_at, updated_at
		FROM members
		ORDER BY xp DESC, discord_id ASC
		LIMIT $1
	`

	rows, err := r.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top members: %w", err)
	}
	defer rows.Close()

	var members []*member.Member
	for rows.Next() {
		m, err := r.scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}

	return members, rows.Err()
}

// ResetProgress zeroes xp, level and last message without touching the
// vocabulary.
func (r *MemberRepository) ResetProgress(ctx context.Context, id member.DiscordID) error {
	query := `
		UPDATE members SET
			xp = 0,
			level = 1,
			last_message = '',
			updated_at = $1
		WHERE discord_id = $2
	`

	result, err := r.conn.Exec(ctx, query, time.Now().UTC(), id.String())
	if err != nil {
		return fmt.Errorf("failed to reset member progress: %w", err)
	}

	if result.RowsAffected() == 0 {
		return member.ErrMemberNotFound
	}

	return nil
}

// Count returns the total number of member records.
func (r *MemberRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, "SELECT COUNT(*) FROM members").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Audit Log
// ─────────────────────────────────────────────────────────────────────────────

// RecordAward appends an XP grant to the audit log. Failures here must not
// block the award itself, so callers treat the error as advisory.
func (r *MemberRepository) RecordAward(ctx context.Context, id member.DiscordID, channelID string, amount, newTotal int) error {
	query := `
		INSERT INTO xp_awards (discord_id, channel_id, amount, new_total)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.conn.Exec(ctx, query, id.String(), channelID, amount, newTotal)
	if err != nil {
		return fmt.Errorf("failed to record xp award: %w", err)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Row Scanning
// ─────────────────────────────────────────────────────────────────────────────

// rowScanner abstracts pgx.Row and pgx.Rows for scanning.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *MemberRepository) scanMember(row rowScanner) (*member.Member, error) {
	var (
		discordID   string
		displayName string
		xp          int
		level       int
		lastMessage string
		vocabJSON   []byte
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := row.Scan(
		&discordID,
		&displayName,
		&xp,
		&level,
		&lastMessage,
		&vocabJSON,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, member.ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to scan member: %w", err)
	}

	vocabulary, err := unmarshalVocabulary(vocabJSON)
	if err != nil {
		return nil, err
	}

	return &member.Member{
		DiscordID:   member.DiscordID(discordID),
		DisplayName: displayName,
		XP:          member.XP(xp),
		Level:       member.Level(level),
		LastMessage: lastMessage,
		Vocabulary:  vocabulary,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

func marshalVocabulary(entries []member.VocabularyEntry) ([]byte, error) {
	rows := make([]vocabularyEntry, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, vocabularyEntry{
			Word:    e.Word,
			AddedBy: e.AddedBy,
			AddedAt: e.AddedAt,
		})
	}

	data, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal vocabulary: %w", err)
	}
	return data, nil
}

func unmarshalVocabulary(data []byte) ([]member.VocabularyEntry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var rows []vocabularyEntry
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vocabulary: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	entries := make([]member.VocabularyEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, member.VocabularyEntry{
			Word:    row.Word,
			AddedBy: row.AddedBy,
			AddedAt: row.AddedAt,
		})
	}
	return entries, nil
}
