// Package eventbus defines the contract for publishing and consuming domain events.
package eventbus

import (
	"context"

	"github.com/amirasaad/accounts/pkg/domain/events"
)

// HandlerFunc handles a single event.
type HandlerFunc func(ctx context.Context, event events.Event) error

// Bus defines the contract for emitting domain events and registering handlers.
type Bus interface {
	Emit(ctx context.Context, event events.Event) error
	Register(eventType events.EventType, handler HandlerFunc)
}
