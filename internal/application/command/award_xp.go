// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mailforstudy46-bot/central-discord-bot/internal/domain/member"
	"github.com/mailforstudy46-bot/central-discord-bot/internal/domain/progression"
)

// ══════════════════════════════════════════════════════════════════════════════
// AWARD XP COMMAND
// Turns an inbound chat message into an XP award. Ineligible messages are a
// quiet no-op: the result says why, the caller stays silent.
// ══════════════════════════════════════════════════════════════════════════════

// AwardXPCommand contains the data of an inbound message.
type AwardXPCommand struct {
	// DiscordID is the author's Discord ID.
	DiscordID member.DiscordID

	// DisplayName is the author's display name (tag) as observed.
	DisplayName string

	// ChannelID is the origin channel of the message.
	ChannelID string

	// RawText is the unmodified message text.
	RawText string

	// IsBot marks automated authors; their messages never earn XP.
	IsBot bool
}

// Validate validates the command.
func (c AwardXPCommand) Validate() error {
	if !c.DiscordID.IsValid() {
		return fmt.Errorf("award_xp: %w", member.ErrInvalidDiscordID)
	}
	if c.ChannelID == "" {
		return errors.New("award_xp: channel_id is required")
	}
	return nil
}

// AwardXPResult contains the outcome of the award.
type AwardXPResult struct {
	// Applied is true when XP was actually awarded.
	Applied bool

	// Reason explains why nothing was awarded (empty when Applied).
	Reason progression.IneligibleReason

	// Member is the updated record (nil when no record was touched).
	Member *member.Member

	// XPGained is the amount awarded.
	XPGained int

	// LeveledUp is true when the award crossed a level boundary.
	LeveledUp bool
}

// AwardXPHandler handles the AwardXPCommand.
//
// The read-mutate-persist sequence is a critical section per user: two quick
// messages from the same author must not race on a stale record and drop an
// award. A keyed mutex serializes awards per Discord ID; distinct users never
// contend.
type AwardXPHandler struct {
	repo      member.Repository
	rules     *progression.AwardRules
	publisher member.EventPublisher

	locks memberLocks
}

// NewAwardXPHandler creates a new AwardXPHandler.
func NewAwardXPHandler(
	repo member.Repository,
	rules *progression.AwardRules,
	publisher member.EventPublisher,
) *AwardXPHandler {
	return &AwardXPHandler{
		repo:      repo,
		rules:     rules,
		publisher: publisher,
	}
}

// Handle executes the award.
func (h *AwardXPHandler) Handle(ctx context.Context, cmd AwardXPCommand) (*AwardXPResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	// Automated authors are filtered before any storage access.
	if cmd.IsBot {
		return &AwardXPResult{}, nil
	}

	// Cheap checks first: neither of these needs (or may create) a record.
	if !h.rules.ChannelAllowed(cmd.ChannelID) {
		return &AwardXPResult{Reason: progression.ReasonChannelNotAllowed}, nil
	}
	if progression.FilterText(cmd.RawText) == "" {
		return &AwardXPResult{Reason: progression.ReasonNoLatinText}, nil
	}

	unlock := h.locks.lock(cmd.DiscordID)
	defer unlock()

	m, err := member.GetOrCreate(ctx, h.repo, cmd.DiscordID, cmd.DisplayName)
	if err != nil {
		return nil, fmt.Errorf("award_xp: load member: %w", err)
	}

	eval := h.rules.Evaluate(m, cmd.ChannelID, cmd.RawText)
	if !eval.Eligible {
		return &AwardXPResult{Reason: eval.Reason, Member: m}, nil
	}

	oldLevel := m.Level
	leveled, err := m.AddXP(eval.Gain)
	if err != nil {
		return nil, fmt.Errorf("award_xp: apply gain: %w", err)
	}
	m.RecordMessage(cmd.RawText, cmd.DisplayName)

	if err := h.repo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("award_xp: persist member: %w", err)
	}

	h.publish(member.NewXPAwardedEvent(m.DiscordID, m.DisplayName, cmd.ChannelID, int(eval.Gain), m.XP))
	if leveled {
		h.publish(member.NewLeveledUpEvent(m.DiscordID, m.DisplayName, cmd.ChannelID, oldLevel, m.Level))
	}

	return &AwardXPResult{
		Applied:   true,
		Member:    m,
		XPGained:  int(eval.Gain),
		LeveledUp: leveled,
	}, nil
}

// publish sends an event, tolerating a nil publisher (tests).
func (h *AwardXPHandler) publish(event member.Event) {
	if h.publisher == nil {
		return
	}
	_ = h.publisher.Publish(event)
}

// ══════════════════════════════════════════════════════════════════════════════
// PER-MEMBER LOCKS
// ══════════════════════════════════════════════════════════════════════════════

// memberLocks hands out one mutex per Discord ID. Entries are never evicted;
// the population is bounded by the community size.
type memberLocks struct {
	mu    sync.Mutex
	locks map[member.DiscordID]*sync.Mutex
}

// lock acquires the member's mutex and returns its release function.
func (l *memberLocks) lock(id member.DiscordID) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[member.DiscordID]*sync.Mutex)
	}
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
