// Package event implements the topic-keyed, type-erased, multi-listener
// event bus described by the source project's utils/events.rs: handlers
// register against a string topic and a declared payload type, emit
// dispatches to every handler whose declared type matches (others are
// silently skipped, with a log line), and every dispatch runs as a tracked
// task so it participates in the structured-completion contract.
//
// The Arc<dyn Any> + downcast type erasure the source uses is expressed
// here with Go generics: On[T] boxes a typed callback behind a func(any)
// that performs a checked type assertion.
package event

import (
	"context"
	"log"
	"sync"
	"sync/atomic"

	"github.com/periph-dev/boardkit/task"
)

// Handle identifies a registered callback for Unregister.
type Handle uint64

type callback struct {
	id Handle
	fn func(payload any) error
}

// Bus is a topic-keyed registry of callbacks. The zero value is not usable;
// construct with New.
type Bus struct {
	mu      sync.Mutex
	byTopic map[string][]callback
	nextID  uint64
}

func New() *Bus {
	return &Bus{byTopic: make(map[string][]callback)}
}

// On registers fn for topic and returns a Handle for Unregister. If the
// payload Emit is called with does not match T, fn is skipped (not called)
// for that emission.
func On[T any](b *Bus, topic string, fn func(T)) Handle {
	id := Handle(atomic.AddUint64(&b.nextID, 1))
	wrapped := func(payload any) error {
		v, ok := payload.(T)
		if !ok {
			log.Printf("event: handler for %q skipped: payload type mismatch", topic)
			return nil
		}
		fn(v)
		return nil
	}
	b.mu.Lock()
	b.byTopic[topic] = append(b.byTopic[topic], callback{id: id, fn: wrapped})
	b.mu.Unlock()
	return id
}

// Emit invokes every handler registered for topic, in registration order,
// one after another inside a single tracked task (see package task). Emit
// itself does not block on any handler; ordering holds within one topic's
// handlers for one emission, not across topics.
func (b *Bus) Emit(topic string, payload any) {
	b.mu.Lock()
	handlers := make([]callback, len(b.byTopic[topic]))
	copy(handlers, b.byTopic[topic])
	b.mu.Unlock()

	task.Run(func(ctx context.Context) error {
		var first error
		for _, h := range handlers {
			if err := h.fn(payload); err != nil && first == nil {
				first = err
			}
		}
		return first
	})
}

// Unregister removes a previously registered handler, if still present.
func (b *Bus) Unregister(id Handle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for topic, handlers := range b.byTopic {
		filtered := handlers[:0]
		for _, h := range handlers {
			if h.id != id {
				filtered = append(filtered, h)
			}
		}
		b.byTopic[topic] = filtered
	}
}
