package avatar

import "sync"

// LivenessReader exposes the avatar's current state to components that must
// not change it.
type LivenessReader interface {
	Current() State
}

// Liveness holds the avatar's current state. Only the component that owns
// the avatar connection should call Set; everyone else reads or subscribes.
type Liveness struct {
	mu          sync.RWMutex
	state       State
	subscribers map[int]func(State)
	nextID      int
}

func NewLiveness() *Liveness {
	return &Liveness{subscribers: map[int]func(State){}}
}

func (l *Liveness) Current() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Set updates the state and notifies subscribers when it changed.
// Subscribers are called synchronously and in no particular order.
func (l *Liveness) Set(state State) {
	l.mu.Lock()
	if l.state == state {
		l.mu.Unlock()
		return
	}
	l.state = state
	subscribers := make([]func(State), 0, len(l.subscribers))
	for _, subscriber := range l.subscribers {
		subscribers = append(subscribers, subscriber)
	}
	l.mu.Unlock()

	for _, subscriber := range subscribers {
		subscriber(state)
	}
}

// Subscribe registers fn to be called on every state change. The returned
// function removes the subscription and is safe to call more than once.
func (l *Liveness) Subscribe(fn func(State)) (unsubscribe func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.subscribers == nil {
		l.subscribers = map[int]func(State){}
	}
	id := l.nextID
	l.nextID++
	l.subscribers[id] = fn

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.subscribers, id)
	}
}

// LivenessObserver can read and follow the avatar's state but not change it.
type LivenessObserver interface {
	LivenessReader
	Subscribe(fn func(State)) (unsubscribe func())
}

var _ LivenessObserver = (*Liveness)(nil)
