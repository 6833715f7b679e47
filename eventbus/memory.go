package eventbus

import (
	"sync"

	"github.com/Abraxas-365/lectora/logx"
)

// Bus is an in-memory event bus. Publish delivers to every handler
// subscribed to the event's type, synchronously and in subscription
// order. A handler error is logged and does not stop delivery to the
// remaining handlers.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// New creates an empty in-memory bus
func New() *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
	}
}

// Subscribe registers a handler for an event type
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Unsubscribe removes all handlers for an event type
func (b *Bus) Unsubscribe(eventType string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, eventType)
}

// Publish delivers the event to every handler for its type
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(event); err != nil {
			logx.Error("event handler failed for %s: %v", event.Type(), err)
		}
	}
}

// HandlerCount returns the number of handlers for an event type
func (b *Bus) HandlerCount(eventType string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}
