package events

import "time"

// Kind identifies an event type, namespaced by its source ("avatar.",
// "user_input.", "assistant_response.", "assistant_speech.").
type Kind string

type Event interface {
	Kind() Kind
	Timestamp() time.Time
}

// Base implements Event and is embedded by every concrete event.
type Base struct {
	kind      Kind
	timestamp time.Time
}

func NewBase(kind Kind) Base {
	return Base{kind: kind, timestamp: time.Now()}
}

func (b Base) Kind() Kind           { return b.kind }
func (b Base) Timestamp() time.Time { return b.timestamp }
