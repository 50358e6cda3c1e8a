package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/amirasaad/accounts/pkg/domain/events"
	"github.com/amirasaad/accounts/pkg/eventbus"
)

// MemoryEventBus dispatches events synchronously to the handlers registered
// for their type. Emit returns once every handler has run.
type MemoryEventBus struct {
	handlers  map[string][]eventbus.HandlerFunc
	mu        sync.RWMutex
	logger    *slog.Logger
	published []events.Event
}

// NewWithMemory creates a synchronous in-memory event bus.
func NewWithMemory(logger *slog.Logger) *MemoryEventBus {
	return &MemoryEventBus{
		handlers: make(map[string][]eventbus.HandlerFunc),
		logger:   logger.With("bus", "memory"),
	}
}

// Register registers a handler for a specific event type.
func (b *MemoryEventBus) Register(eventType events.EventType, handler eventbus.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType.String()] = append(b.handlers[eventType.String()], handler)
}

// Emit dispatches the event to all registered handlers for its type and
// returns the joined handler errors.
func (b *MemoryEventBus) Emit(ctx context.Context, event events.Event) error {
	b.mu.Lock()
	handlers := append([]eventbus.HandlerFunc(nil), b.handlers[event.Type()]...)
	b.published = append(b.published, event)
	b.mu.Unlock()

	var errs []error
	for _, handler := range handlers {
		if err := runHandler(ctx, handler, event); err != nil {
			b.logger.Error("failed to process event", "type", event.Type(), "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Published returns a copy of every event emitted so far.
func (b *MemoryEventBus) Published() []events.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]events.Event(nil), b.published...)
}

// ClearPublished forgets the events emitted so far.
func (b *MemoryEventBus) ClearPublished() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = nil
}

// Close is a no-op.
func (b *MemoryEventBus) Close() error { return nil }

var _ eventbus.Bus = (*MemoryEventBus)(nil)

type queuedEvent struct {
	ctx   context.Context
	event events.Event
}

// MemoryAsyncEventBus queues events and runs their handlers in the
// background so that Emit never waits for slow handlers such as mail
// delivery. Close stops accepting events and waits for queued ones.
type MemoryAsyncEventBus struct {
	handlers map[string][]eventbus.HandlerFunc
	mu       sync.RWMutex
	eventCh  chan queuedEvent
	closeMu  sync.RWMutex
	closed   bool
	wg       sync.WaitGroup
	done     chan struct{}
	log      *slog.Logger
}

// NewWithMemoryAsync creates an asynchronous in-memory event bus with a
// queue of the given capacity.
func NewWithMemoryAsync(logger *slog.Logger, capacity int) *MemoryAsyncEventBus {
	if capacity < 1 {
		capacity = 100
	}
	b := &MemoryAsyncEventBus{
		handlers: make(map[string][]eventbus.HandlerFunc),
		eventCh:  make(chan queuedEvent, capacity),
		done:     make(chan struct{}),
		log:      logger.With("bus", "memory-async"),
	}
	go b.process()
	return b
}

func (b *MemoryAsyncEventBus) Register(eventType events.EventType, handler eventbus.HandlerFunc) {
	b.mu.Lock()
	b.handlers[eventType.String()] = append(b.handlers[eventType.String()], handler)
	b.mu.Unlock()
}

// Emit queues the event. Handlers see a context detached from the caller's
// cancellation since they outlive the request that emitted the event.
func (b *MemoryAsyncEventBus) Emit(ctx context.Context, event events.Event) error {
	b.closeMu.RLock()
	defer b.closeMu.RUnlock()
	if b.closed {
		return fmt.Errorf("memory event bus: closed, dropping %s", event.Type())
	}
	select {
	case b.eventCh <- queuedEvent{ctx: context.WithoutCancel(ctx), event: event}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *MemoryAsyncEventBus) process() {
	defer close(b.done)
	for q := range b.eventCh {
		b.mu.RLock()
		handlers := append([]eventbus.HandlerFunc(nil), b.handlers[q.event.Type()]...)
		b.mu.RUnlock()

		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			for _, handler := range handlers {
				if err := runHandler(q.ctx, handler, q.event); err != nil {
					b.log.Error("failed to process event", "type", q.event.Type(), "error", err)
				}
			}
		}()
	}
	b.wg.Wait()
}

// Close drains the queue and waits for running handlers.
func (b *MemoryAsyncEventBus) Close() error {
	b.closeMu.Lock()
	if b.closed {
		b.closeMu.Unlock()
		return nil
	}
	b.closed = true
	close(b.eventCh)
	b.closeMu.Unlock()
	<-b.done
	return nil
}

var _ eventbus.Bus = (*MemoryAsyncEventBus)(nil)

func runHandler(ctx context.Context, handler eventbus.HandlerFunc, event events.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s handler: %v", event.Type(), r)
		}
	}()
	return handler(ctx, event)
}
