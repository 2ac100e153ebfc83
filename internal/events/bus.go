package events

import (
	"sync"
)

// Bus is an in-process publish/subscribe hub. Handlers are invoked
// synchronously on the emitting goroutine; handlers that do real work should
// hand off to their own goroutine or channel.
type Bus struct {
	handlers map[EventType][]Handler
	mu       sync.RWMutex
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe registers a handler for an event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Publish delivers an event to all handlers subscribed to its type
func (b *Bus) Publish(event *Event) {
	b.mu.RLock()
	// Snapshot the handler list so a Subscribe during delivery cannot race
	handlers := make([]Handler, len(b.handlers[event.Type]))
	copy(handlers, b.handlers[event.Type])
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}
