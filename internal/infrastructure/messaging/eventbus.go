// Package messaging implements the in-process event bus that decouples XP
// accounting from its side effects (channel notices, role grants, cache
// invalidation).
package messaging

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mailforstudy46-bot/central-discord-bot/internal/domain/member"
)

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrEventBusClosed is returned when operations are attempted on a closed bus.
	ErrEventBusClosed = errors.New("event bus is closed")
)

// ══════════════════════════════════════════════════════════════════════════════
// IN-MEMORY EVENT BUS
// ══════════════════════════════════════════════════════════════════════════════

// InMemoryEventBus dispatches domain events to subscribed handlers.
// Implements member.EventPublisher. The bot is a single-instance process,
// so an in-process bus is sufficient.
type InMemoryEventBus struct {
	mu          sync.RWMutex
	handlers    map[member.EventType][]member.EventHandler
	allHandlers []member.EventHandler
	asyncMode   bool
	workerPool  chan struct{}
	logger      *slog.Logger
	metrics     *EventBusMetrics
	closed      bool
	closeCh     chan struct{}
	wg          sync.WaitGroup
}

// InMemoryEventBusConfig contains configuration for InMemoryEventBus.
type InMemoryEventBusConfig struct {
	// AsyncMode enables asynchronous event processing
	AsyncMode bool

	// WorkerPoolSize is the number of concurrent workers for async processing
	WorkerPoolSize int

	// Logger for structured logging
	Logger *slog.Logger

	// EnableMetrics enables metrics collection
	EnableMetrics bool
}

// DefaultInMemoryEventBusConfig returns sensible defaults.
func DefaultInMemoryEventBusConfig() InMemoryEventBusConfig {
	return InMemoryEventBusConfig{
		AsyncMode:      true,
		WorkerPoolSize: 10,
		EnableMetrics:  true,
	}
}

// NewInMemoryEventBus creates a new in-memory event bus.
func NewInMemoryEventBus(config InMemoryEventBusConfig) *InMemoryEventBus {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.WorkerPoolSize <= 0 {
		config.WorkerPoolSize = 10
	}

	bus := &InMemoryEventBus{
		handlers:    make(map[member.EventType][]member.EventHandler),
		allHandlers: make([]member.EventHandler, 0),
		asyncMode:   config.AsyncMode,
		workerPool:  make(chan struct{}, config.WorkerPoolSize),
		logger:      config.Logger,
		closeCh:     make(chan struct{}),
	}

	if config.EnableMetrics {
		bus.metrics = NewEventBusMetrics()
	}

	return bus
}

// Subscribe registers a handler for a specific event type.
func (b *InMemoryEventBus) Subscribe(eventType member.EventType, handler member.EventHandler) error {
	if handler == nil {
		return errors.New("handler cannot be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrEventBusClosed
	}

	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.logger.Debug("subscribed handler", "event_type", eventType)

	return nil
}

// SubscribeAll registers a handler for all events.
func (b *InMemoryEventBus) SubscribeAll(handler member.EventHandler) error {
	if handler == nil {
		return errors.New("handler cannot be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrEventBusClosed
	}

	b.allHandlers = append(b.allHandlers, handler)
	b.logger.Debug("subscribed global handler")

	return nil
}

// Publish sends an event to all subscribed handlers.
func (b *InMemoryEventBus) Publish(event member.Event) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrEventBusClosed
	}

	handlers := make([]member.EventHandler, 0)
	handlers = append(handlers, b.handlers[event.EventType()]...)
	handlers = append(handlers, b.allHandlers...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.logger.Debug("no handlers for event", "event_type", event.EventType())
		return nil
	}

	if b.metrics != nil {
		b.metrics.RecordPublish(event.EventType())
	}

	if b.asyncMode {
		for _, handler := range handlers {
			b.executeAsync(event, handler)
		}
	} else {
		for _, handler := range handlers {
			if err := b.executeSync(event, handler); err != nil {
				b.logger.Error("handler error", "event_type", event.EventType(), "error", err)
			}
		}
	}

	return nil
}

// executeAsync executes a handler asynchronously using the worker pool.
func (b *InMemoryEventBus) executeAsync(event member.Event, handler member.EventHandler) {
	b.wg.Add(1)

	go func() {
		defer b.wg.Done()

		// Acquire worker slot
		select {
		case b.workerPool <- struct{}{}:
			defer func() { <-b.workerPool }()
		case <-b.closeCh:
			return
		}

		start := time.Now()
		err := handler(event)
		duration := time.Since(start)

		if b.metrics != nil {
			b.metrics.RecordHandlerExecution(event.EventType(), duration, err == nil)
		}

		if err != nil {
			b.logger.Error("async handler error",
				"event_type", event.EventType(),
				"member_id", event.MemberID(),
				"duration", duration,
				"error", err,
			)
		}
	}()
}

// executeSync executes a handler synchronously.
func (b *InMemoryEventBus) executeSync(event member.Event, handler member.EventHandler) error {
	start := time.Now()
	err := handler(event)
	duration := time.Since(start)

	if b.metrics != nil {
		b.metrics.RecordHandlerExecution(event.EventType(), duration, err == nil)
	}

	return err
}

// Close gracefully shuts down the event bus.
func (b *InMemoryEventBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.closeCh)
	b.mu.Unlock()

	// Wait for pending handlers to complete
	b.wg.Wait()

	b.logger.Info("event bus closed")
	return nil
}

// Metrics returns the current metrics.
func (b *InMemoryEventBus) Metrics() *EventBusMetrics {
	return b.metrics
}

// ══════════════════════════════════════════════════════════════════════════════
// METRICS
// ══════════════════════════════════════════════════════════════════════════════

// EventBusMetrics tracks event bus performance metrics.
type EventBusMetrics struct {
	mu sync.RWMutex

	// Publish metrics
	PublishedTotal map[member.EventType]int64

	// Handler execution metrics
	HandlerExecutions    int64
	HandlerSuccesses     int64
	HandlerFailures      int64
	HandlerTotalDuration time.Duration
	HandlersByType       map[member.EventType]int64
}

// NewEventBusMetrics creates new metrics tracker.
func NewEventBusMetrics() *EventBusMetrics {
	return &EventBusMetrics{
		PublishedTotal: make(map[member.EventType]int64),
		HandlersByType: make(map[member.EventType]int64),
	}
}

// RecordPublish records a publish event.
func (m *EventBusMetrics) RecordPublish(eventType member.EventType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishedTotal[eventType]++
}

// RecordHandlerExecution records a handler execution.
func (m *EventBusMetrics) RecordHandlerExecution(eventType member.EventType, duration time.Duration, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.HandlerExecutions++
	m.HandlerTotalDuration += duration
	m.HandlersByType[eventType]++

	if success {
		m.HandlerSuccesses++
	} else {
		m.HandlerFailures++
	}
}

// Snapshot returns a point-in-time copy of the metrics.
func (m *EventBusMetrics) Snapshot() EventBusMetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var published int64
	for _, v := range m.PublishedTotal {
		published += v
	}

	avgDuration := time.Duration(0)
	if m.HandlerExecutions > 0 {
		avgDuration = m.HandlerTotalDuration / time.Duration(m.HandlerExecutions)
	}

	successRate := 1.0
	if m.HandlerExecutions > 0 {
		successRate = float64(m.HandlerSuccesses) / float64(m.HandlerExecutions)
	}

	return EventBusMetricsSnapshot{
		TotalPublished:         published,
		TotalHandlerExecs:      m.HandlerExecutions,
		HandlerSuccessRate:     successRate,
		AverageHandlerDuration: avgDuration,
	}
}

// EventBusMetricsSnapshot is a point-in-time snapshot of metrics.
type EventBusMetricsSnapshot struct {
	TotalPublished         int64
	TotalHandlerExecs      int64
	HandlerSuccessRate     float64
	AverageHandlerDuration time.Duration
}
