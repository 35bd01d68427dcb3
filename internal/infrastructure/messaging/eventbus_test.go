package messaging

import (
	"errors"
	"sync"
	"testing"

	"github.com/mailforstudy46-bot/central-discord-bot/internal/domain/member"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func syncBus() *InMemoryEventBus {
	cfg := DefaultInMemoryEventBusConfig()
	cfg.AsyncMode = false
	return NewInMemoryEventBus(cfg)
}

func TestEventBus_PublishToSubscriber(t *testing.T) {
	bus := syncBus()
	defer bus.Close()

	var received []member.Event
	err := bus.Subscribe(member.EventXPAwarded, func(e member.Event) error {
		received = append(received, e)
		return nil
	})
	require.NoError(t, err)

	event := member.NewXPAwardedEvent("123456789012345678", "Alice", "chan-1", 10, 10)
	require.NoError(t, bus.Publish(event))

	require.Len(t, received, 1)
	assert.Equal(t, member.EventXPAwarded, received[0].EventType())
}

func TestEventBus_TypeFiltering(t *testing.T) {
	bus := syncBus()
	defer bus.Close()

	var xpCount, resetCount int
	_ = bus.Subscribe(member.EventXPAwarded, func(e member.Event) error {
		xpCount++
		return nil
	})
	_ = bus.Subscribe(member.EventProgressReset, func(e member.Event) error {
		resetCount++
		return nil
	})

	_ = bus.Publish(member.NewXPAwardedEvent("123456789012345678", "Alice", "chan-1", 10, 10))
	_ = bus.Publish(member.NewXPAwardedEvent("123456789012345678", "Alice", "chan-1", 5, 15))
	_ = bus.Publish(member.NewProgressResetEvent("123456789012345678", 15))

	assert.Equal(t, 2, xpCount)
	assert.Equal(t, 1, resetCount)
}

func TestEventBus_SubscribeAll(t *testing.T) {
	bus := syncBus()
	defer bus.Close()

	var count int
	_ = bus.SubscribeAll(func(e member.Event) error {
		count++
		return nil
	})

	_ = bus.Publish(member.NewXPAwardedEvent("123456789012345678", "Alice", "chan-1", 10, 10))
	_ = bus.Publish(member.NewProgressResetEvent("123456789012345678", 10))

	assert.Equal(t, 2, count)
}

func TestEventBus_HandlerErrorDoesNotStopOthers(t *testing.T) {
	bus := syncBus()
	defer bus.Close()

	var secondRan bool
	_ = bus.Subscribe(member.EventXPAwarded, func(e member.Event) error {
		return errors.New("first handler failed")
	})
	_ = bus.Subscribe(member.EventXPAwarded, func(e member.Event) error {
		secondRan = true
		return nil
	})

	err := bus.Publish(member.NewXPAwardedEvent("123456789012345678", "Alice", "chan-1", 10, 10))
	assert.NoError(t, err)
	assert.True(t, secondRan)
}

func TestEventBus_AsyncDelivery(t *testing.T) {
	cfg := DefaultInMemoryEventBusConfig()
	cfg.WorkerPoolSize = 2
	bus := NewInMemoryEventBus(cfg)

	var mu sync.Mutex
	var count int
	_ = bus.Subscribe(member.EventXPAwarded, func(e member.Event) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	})

	for i := 0; i < 5; i++ {
		require.NoError(t, bus.Publish(member.NewXPAwardedEvent("123456789012345678", "Alice", "chan-1", 1, member.XP(i))))
	}

	// Close waits for pending handlers.
	require.NoError(t, bus.Close())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 5, count)
}

func TestEventBus_ClosedBusRejectsOperations(t *testing.T) {
	bus := syncBus()
	require.NoError(t, bus.Close())

	err := bus.Publish(member.NewProgressResetEvent("123456789012345678", 0))
	assert.ErrorIs(t, err, ErrEventBusClosed)

	err = bus.Subscribe(member.EventXPAwarded, func(e member.Event) error { return nil })
	assert.ErrorIs(t, err, ErrEventBusClosed)

	// Double close is a no-op.
	assert.NoError(t, bus.Close())
}

func TestEventBus_NilArguments(t *testing.T) {
	bus := syncBus()
	defer bus.Close()

	assert.Error(t, bus.Subscribe(member.EventXPAwarded, nil))
	assert.Error(t, bus.Publish(nil))
}

func TestEventBusMetrics(t *testing.T) {
	bus := syncBus()
	defer bus.Close()

	_ = bus.Subscribe(member.EventXPAwarded, func(e member.Event) error { return nil })
	_ = bus.Subscribe(member.EventXPAwarded, func(e member.Event) error { return errors.New("boom") })

	_ = bus.Publish(member.NewXPAwardedEvent("123456789012345678", "Alice", "chan-1", 10, 10))

	snapshot := bus.Metrics().Snapshot()
	assert.Equal(t, int64(1), snapshot.TotalPublished)
	assert.Equal(t, int64(2), snapshot.TotalHandlerExecs)
	assert.InDelta(t, 0.5, snapshot.HandlerSuccessRate, 0.001)
}
