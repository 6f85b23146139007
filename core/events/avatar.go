package events

import "github.com/koscakluka/ema-avatar/core/avatar"

const (
	// KindAvatarConnected identifies a ready avatar.
	KindAvatarConnected Kind = "avatar.connected"
	// KindAvatarDisconnected identifies a released avatar.
	KindAvatarDisconnected Kind = "avatar.disconnected"
	// KindAvatarStateChanged identifies an avatar liveness change.
	KindAvatarStateChanged Kind = "avatar.state_changed"
	// KindAvatarSubtitleOn identifies a subtitle being shown.
	KindAvatarSubtitleOn Kind = "avatar.subtitle_on"
	// KindAvatarSubtitleOff identifies a subtitle being hidden.
	KindAvatarSubtitleOff Kind = "avatar.subtitle_off"
)

type AvatarConnected struct{ Base }

func NewAvatarConnected() AvatarConnected {
	return AvatarConnected{Base: NewBase(KindAvatarConnected)}
}

type AvatarDisconnected struct{ Base }

func NewAvatarDisconnected() AvatarDisconnected {
	return AvatarDisconnected{Base: NewBase(KindAvatarDisconnected)}
}

// AvatarStateChanged carries the state the avatar reported.
type AvatarStateChanged struct {
	Base
	State avatar.State
}

func NewAvatarStateChanged(state avatar.State) AvatarStateChanged {
	return AvatarStateChanged{Base: NewBase(KindAvatarStateChanged), State: state}
}

// AvatarSubtitleOn carries the subtitle text currently shown.
type AvatarSubtitleOn struct {
	Base
	Text string
}

func NewAvatarSubtitleOn(text string) AvatarSubtitleOn {
	return AvatarSubtitleOn{Base: NewBase(KindAvatarSubtitleOn), Text: text}
}

type AvatarSubtitleOff struct{ Base }

func NewAvatarSubtitleOff() AvatarSubtitleOff {
	return AvatarSubtitleOff{Base: NewBase(KindAvatarSubtitleOff)}
}
