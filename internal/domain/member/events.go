package member

import (
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN EVENTS
// События публикуются после успешного сохранения прогресса и обрабатываются
// асинхронно (уведомления в канал, выдача ролей).
// ══════════════════════════════════════════════════════════════════════════════

// EventType представляет тип доменного события.
type EventType string

const (
	// EventXPAwarded - участнику начислен XP за сообщение.
	EventXPAwarded EventType = "member.xp_awarded"

	// EventLeveledUp - участник перешёл на новый уровень.
	EventLeveledUp EventType = "member.leveled_up"

	// EventTierGranted - участнику выдана новая ролевая ступень.
	EventTierGranted EventType = "member.tier_granted"

	// EventProgressReset - участник сбросил свой прогресс.
	EventProgressReset EventType = "member.progress_reset"
)

// Event - базовый интерфейс доменного события.
type Event interface {
	// EventType возвращает тип события.
	EventType() EventType

	// OccurredAt возвращает время события.
	OccurredAt() time.Time

	// MemberID возвращает идентификатор участника.
	MemberID() DiscordID
}

// EventHandler обрабатывает доменное событие.
type EventHandler func(event Event) error

// EventPublisher публикует доменные события.
type EventPublisher interface {
	Publish(event Event) error
}

// BaseEvent содержит общие поля событий.
type BaseEvent struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Member    DiscordID `json:"member_id"`
}

// EventType реализует интерфейс Event.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt реализует интерфейс Event.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// MemberID реализует интерфейс Event.
func (e BaseEvent) MemberID() DiscordID {
	return e.Member
}

// NewBaseEvent создаёт базовое событие.
func NewBaseEvent(eventType EventType, id DiscordID) BaseEvent {
	return BaseEvent{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Member:    id,
	}
}

// XPAwardedEvent - начисление XP за зачтённое сообщение.
type XPAwardedEvent struct {
	BaseEvent
	DisplayName string `json:"display_name"`
	ChannelID   string `json:"channel_id"`
	Amount      int    `json:"amount"`
	NewTotal    int    `json:"new_total"`
}

// NewXPAwardedEvent создаёт событие начисления XP.
func NewXPAwardedEvent(id DiscordID, displayName, channelID string, amount int, newTotal XP) XPAwardedEvent {
	return XPAwardedEvent{
		BaseEvent:   NewBaseEvent(EventXPAwarded, id),
		DisplayName: displayName,
		ChannelID:   channelID,
		Amount:      amount,
		NewTotal:    int(newTotal),
	}
}

// LeveledUpEvent - переход на новый уровень.
type LeveledUpEvent struct {
	BaseEvent
	DisplayName string `json:"display_name"`
	ChannelID   string `json:"channel_id"`
	OldLevel    int    `json:"old_level"`
	NewLevel    int    `json:"new_level"`
}

// NewLeveledUpEvent создаёт событие смены уровня.
func NewLeveledUpEvent(id DiscordID, displayName, channelID string, oldLevel, newLevel Level) LeveledUpEvent {
	return LeveledUpEvent{
		BaseEvent:   NewBaseEvent(EventLeveledUp, id),
		DisplayName: displayName,
		ChannelID:   channelID,
		OldLevel:    int(oldLevel),
		NewLevel:    int(newLevel),
	}
}

// TierGrantedEvent - выдача новой ролевой ступени.
type TierGrantedEvent struct {
	BaseEvent
	ChannelID string `json:"channel_id"`
	RoleID    string `json:"role_id"`
	Threshold int    `json:"threshold"`
	XP        int    `json:"xp"`
}

// NewTierGrantedEvent создаёт событие выдачи ступени.
func NewTierGrantedEvent(id DiscordID, channelID, roleID string, threshold int, xp XP) TierGrantedEvent {
	return TierGrantedEvent{
		BaseEvent: NewBaseEvent(EventTierGranted, id),
		ChannelID: channelID,
		RoleID:    roleID,
		Threshold: threshold,
		XP:        int(xp),
	}
}

// ProgressResetEvent - сброс прогресса участником.
type ProgressResetEvent struct {
	BaseEvent
	OldXP int `json:"old_xp"`
}

// NewProgressResetEvent создаёт событие сброса прогресса.
func NewProgressResetEvent(id DiscordID, oldXP XP) ProgressResetEvent {
	return ProgressResetEvent{
		BaseEvent: NewBaseEvent(EventProgressReset, id),
		OldXP:     int(oldXP),
	}
}
