package discord

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mailforstudy46-bot/central-discord-bot/internal/domain/member"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────────────────────────────────────
// Test doubles
// ─────────────────────────────────────────────────────────────────────────────

type sentNotice struct {
	channelID string
	content   string
	ttl       time.Duration
}

type fakeSender struct {
	sent []sentNotice
	err  error
}

func (f *fakeSender) SendTransient(channelID, content string, ttl time.Duration) error {
	f.sent = append(f.sent, sentNotice{channelID, content, ttl})
	return f.err
}

type fakeRecorder struct {
	records int
	err     error
}

func (f *fakeRecorder) RecordAward(ctx context.Context, id member.DiscordID, channelID string, amount, newTotal int) error {
	f.records++
	return f.err
}

type fakeInvalidator struct {
	count int
}

func (f *fakeInvalidator) Invalidate(ctx context.Context) error {
	f.count++
	return nil
}

// fakeBus captures subscriptions so tests can fire handlers directly.
type fakeBus struct {
	handlers map[member.EventType]member.EventHandler
}

func newFakeBus() *fakeBus {
	return &fakeBus{handlers: make(map[member.EventType]member.EventHandler)}
}

func (b *fakeBus) Subscribe(eventType member.EventType, handler member.EventHandler) error {
	b.handlers[eventType] = handler
	return nil
}

func boundNotices(t *testing.T, cfg NoticesConfig) *fakeBus {
	t.Helper()
	bus := newFakeBus()
	require.NoError(t, NewNotices(cfg).Bind(bus))
	return bus
}

// ─────────────────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────────────────

func TestNotices_BindSubscribesAllTypes(t *testing.T) {
	bus := boundNotices(t, NoticesConfig{})

	for _, eventType := range []member.EventType{
		member.EventXPAwarded,
		member.EventLeveledUp,
		member.EventTierGranted,
		member.EventProgressReset,
	} {
		assert.Contains(t, bus.handlers, eventType)
	}
}

func TestNotices_XPAwarded(t *testing.T) {
	sender := &fakeSender{}
	recorder := &fakeRecorder{}
	cache := &fakeInvalidator{}
	bus := boundNotices(t, NoticesConfig{
		Notifier:    sender,
		Recorder:    recorder,
		Cache:       cache,
		XPNoticeTTL: 4 * time.Second,
	})

	event := member.NewXPAwardedEvent("123456789012345678", "Alice", "chan-1", 25, 125)
	require.NoError(t, bus.handlers[member.EventXPAwarded](event))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "chan-1", sender.sent[0].channelID)
	assert.Contains(t, sender.sent[0].content, "Alice")
	assert.Contains(t, sender.sent[0].content, "25 XP")
	assert.Equal(t, 4*time.Second, sender.sent[0].ttl)

	assert.Equal(t, 1, recorder.records)
	assert.Equal(t, 1, cache.count)
}

func TestNotices_XPAwarded_NoticeFailureSwallowed(t *testing.T) {
	sender := &fakeSender{err: errors.New("channel gone")}
	recorder := &fakeRecorder{}
	bus := boundNotices(t, NoticesConfig{Notifier: sender, Recorder: recorder})

	event := member.NewXPAwardedEvent("123456789012345678", "Alice", "chan-1", 25, 125)
	assert.NoError(t, bus.handlers[member.EventXPAwarded](event))
	// Bookkeeping still happens after a cosmetic failure.
	assert.Equal(t, 1, recorder.records)
}

func TestNotices_XPAwarded_RecorderFailurePropagates(t *testing.T) {
	recorder := &fakeRecorder{err: errors.New("insert failed")}
	bus := boundNotices(t, NoticesConfig{Recorder: recorder})

	event := member.NewXPAwardedEvent("123456789012345678", "Alice", "chan-1", 25, 125)
	assert.Error(t, bus.handlers[member.EventXPAwarded](event))
}

func TestNotices_LeveledUp(t *testing.T) {
	sender := &fakeSender{}
	bus := boundNotices(t, NoticesConfig{
		Notifier:         sender,
		LevelUpNoticeTTL: 6 * time.Second,
	})

	event := member.NewLeveledUpEvent("123456789012345678", "Alice", "chan-1", 1, 2)
	require.NoError(t, bus.handlers[member.EventLeveledUp](event))

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].content, "level 2")
	assert.Equal(t, 6*time.Second, sender.sent[0].ttl)
}

func TestNotices_TierGranted(t *testing.T) {
	sender := &fakeSender{}
	bus := boundNotices(t, NoticesConfig{Notifier: sender, XPNoticeTTL: 4 * time.Second})

	event := member.NewTierGrantedEvent("123456789012345678", "chan-1", "role-silver", 100, 150)
	require.NoError(t, bus.handlers[member.EventTierGranted](event))

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].content, "<@123456789012345678>")
	assert.Contains(t, sender.sent[0].content, "100 XP")
}

func TestNotices_ProgressResetInvalidatesCache(t *testing.T) {
	cache := &fakeInvalidator{}
	bus := boundNotices(t, NoticesConfig{Cache: cache})

	event := member.NewProgressResetEvent("123456789012345678", 400)
	require.NoError(t, bus.handlers[member.EventProgressReset](event))
	assert.Equal(t, 1, cache.count)
}

func TestNotices_NilDependenciesAreNoops(t *testing.T) {
	bus := boundNotices(t, NoticesConfig{})

	event := member.NewXPAwardedEvent("123456789012345678", "Alice", "chan-1", 25, 125)
	assert.NoError(t, bus.handlers[member.EventXPAwarded](event))
	assert.NoError(t, bus.handlers[member.EventLeveledUp](member.NewLeveledUpEvent("123456789012345678", "Alice", "chan-1", 1, 2)))
}
