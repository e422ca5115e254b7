package events

import (
	"log"
	"reflect"
	"sync"
)

// Handler consumes a single event. The payload is shared by reference;
// handlers must treat it as read-only.
type Handler func(Event)

type registration struct {
	key     uintptr
	handler Handler
}

// Bus is a synchronous publish/subscribe registry. Emit fans out to every
// registered handler for the event type, in registration order, on the
// caller's goroutine. There is no queuing and no back-pressure.
//
// A panicking handler is recovered and logged so it cannot abort delivery
// to the handlers registered after it.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]registration
	logger   *log.Logger
}

func NewBus(logger *log.Logger) *Bus {
	if logger == nil {
		logger = log.Default()
	}
	return &Bus{
		handlers: make(map[string][]registration),
		logger:   logger,
	}
}

// On registers a handler for an event type. Registering the same handler
// twice for the same type is a no-op, so wiring code may be re-run safely.
func (b *Bus) On(eventType string, handler Handler) {
	if handler == nil {
		return
	}
	key := reflect.ValueOf(handler).Pointer()

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, reg := range b.handlers[eventType] {
		if reg.key == key {
			return
		}
	}
	b.handlers[eventType] = append(b.handlers[eventType], registration{key: key, handler: handler})
}

// Off removes a previously registered handler. Unknown handlers are ignored.
func (b *Bus) Off(eventType string, handler Handler) {
	if handler == nil {
		return
	}
	key := reflect.ValueOf(handler).Pointer()

	b.mu.Lock()
	defer b.mu.Unlock()

	regs := b.handlers[eventType]
	for i, reg := range regs {
		if reg.key == key {
			b.handlers[eventType] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}

// Emit delivers the event to every handler currently registered for its type.
// Delivery is synchronous and in registration order.
func (b *Bus) Emit(event Event) {
	b.mu.RLock()
	regs := b.handlers[event.EventType()]
	b.mu.RUnlock()

	for _, reg := range regs {
		b.dispatch(reg.handler, event)
	}
}

func (b *Bus) dispatch(handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Printf("[BUS] handler panic on %s: %v", event.EventType(), r)
		}
	}()
	handler(event)
}

// HandlerCount reports how many handlers are registered for an event type.
func (b *Bus) HandlerCount(eventType string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}
