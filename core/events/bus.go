package events

import (
	"slices"
	"sync"
)

// Handler receives published events.
type Handler func(Event)

// Bus fans events out to subscribers. Publish calls handlers synchronously,
// so a single publisher observes its events delivered in order.
type Bus struct {
	mu       sync.RWMutex
	handlers []subscription
	nextID   int
}

type subscription struct {
	id      int
	kinds   []Kind
	handler Handler
}

func NewBus() *Bus { return &Bus{} }

// Subscribe registers handler for the given kinds, or for every event when
// no kinds are given. The returned function removes the subscription.
func (b *Bus) Subscribe(handler Handler, kinds ...Kind) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers = append(b.handlers, subscription{id: id, kinds: slices.Clone(kinds), handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.handlers = slices.DeleteFunc(b.handlers, func(s subscription) bool { return s.id == id })
	}
}

// Publish delivers event to every matching subscriber. A nil Bus drops the
// event.
func (b *Bus) Publish(event Event) {
	if b == nil || event == nil {
		return
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers))
	for _, s := range b.handlers {
		if len(s.kinds) == 0 || slices.Contains(s.kinds, event.Kind()) {
			handlers = append(handlers, s.handler)
		}
	}
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}
