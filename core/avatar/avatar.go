// Package avatar describes the capabilities the assistant needs from a 3D
// avatar playback engine, independent of the SDK that renders it.
package avatar

import (
	"context"
	"strings"
)

// Speaker plays speech markup envelopes.
//
// isFirst marks the first fragment of a reply and isLast marks the terminal
// call that closes it.
type Speaker interface {
	Speak(ctx context.Context, envelope string, isFirst, isLast bool) error
}

// Thinker softly interrupts the current utterance and puts the avatar into
// its thinking pose.
type Thinker interface {
	Think(ctx context.Context) error
}

// Avatar is a connected avatar instance.
type Avatar interface {
	Speaker
	Thinker

	// Init loads the avatar and returns once it is ready to speak.
	Init(ctx context.Context) error
	// Destroy stops any playback and releases the instance. The
	// notifications channel is closed afterwards.
	Destroy(ctx context.Context) error

	// Notifications delivers state and subtitle updates reported by the
	// avatar, in the order they were reported.
	Notifications() <-chan Notification
}

// Credentials identify the application to the avatar service.
type Credentials struct {
	AppID     string
	AppSecret string
}

// Connector creates avatar instances.
type Connector interface {
	Connect(ctx context.Context, credentials Credentials) (Avatar, error)
}

// State is the avatar's self reported activity.
type State string

const (
	StateDisconnected State = ""
	StateIdle         State = "idle"
	StateListening    State = "listening"
	StateThinking     State = "thinking"
	StateSpeaking     State = "speaking"
)

// ParseState converts a state reported by the avatar SDK. Both the SDK's
// short spellings ("speak", "think", "listen") and the long ones are
// accepted, unknown values are kept as they are.
func ParseState(s string) State {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return StateDisconnected
	case "idle":
		return StateIdle
	case "listen", "listening":
		return StateListening
	case "think", "thinking":
		return StateThinking
	case "speak", "speaking":
		return StateSpeaking
	default:
		return State(s)
	}
}

type NotificationKind string

const (
	NotificationStateChanged NotificationKind = "state_changed"
	NotificationSubtitleOn   NotificationKind = "subtitle_on"
	NotificationSubtitleOff  NotificationKind = "subtitle_off"
)

// Notification is a single update reported by the avatar.
type Notification struct {
	Kind NotificationKind
	// State is set for NotificationStateChanged.
	State State
	// Text is set for NotificationSubtitleOn.
	Text string
}
