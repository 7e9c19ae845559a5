// Package eventbus publishes workflow and document lifecycle events to
// subscribers over a pluggable message transport.
package eventbus

import (
	"context"

	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/events"
)

// Event is anything publishable on the bus.
type Event interface {
	GetType() events.EventType
	Key() string
}

// EventHandler processes one decoded event.
type EventHandler func(ctx context.Context, event any) error

// EventBus decouples lifecycle notifications from the components producing
// them.
type EventBus interface {
	Publish(ctx context.Context, key string, event Event) error
	Handle(eventType events.EventType, handler EventHandler)
	Subscribe(ctx context.Context) error
	Close() error
}
