// Package eventbus provides a small in-process event system. The scan
// pipeline publishes progress and lifecycle events through it so
// frontends (CLI, HTTP) can observe a run without polling.
package eventbus

import (
	"time"

	"github.com/google/uuid"
)

// Event is the base interface for all events
type Event interface {
	ID() string
	Type() string
	Timestamp() time.Time
	Payload() any
}

// Handler is a function that processes events
type Handler func(Event) error

// BaseEvent implements the Event interface with generic data support
type BaseEvent[T any] struct {
	id        string
	eventType string
	timestamp time.Time
	data      T
}

// NewEvent creates a new typed event with a generated ID
func NewEvent[T any](eventType string, data T) *BaseEvent[T] {
	return &BaseEvent[T]{
		id:        uuid.New().String(),
		eventType: eventType,
		timestamp: time.Now(),
		data:      data,
	}
}

// ID returns the event's unique identifier
func (e *BaseEvent[T]) ID() string {
	return e.id
}

// Type returns the event type
func (e *BaseEvent[T]) Type() string {
	return e.eventType
}

// Timestamp returns when the event was created
func (e *BaseEvent[T]) Timestamp() time.Time {
	return e.timestamp
}

// Payload returns the event data as any
func (e *BaseEvent[T]) Payload() any {
	return e.data
}

// Data returns the typed event data
func (e *BaseEvent[T]) Data() T {
	return e.data
}
