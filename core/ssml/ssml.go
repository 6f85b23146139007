// Package ssml builds the speech markup envelopes understood by the avatar's
// playback engine.
package ssml

import (
	"strconv"
	"strings"
)

// Prosody controls how the avatar renders a fragment. Zero fields are
// rendered with their default of 1.
type Prosody struct {
	Pitch  float64
	Speed  float64
	Volume float64
}

// DefaultProsody is the neutral prosody used when no options are given.
var DefaultProsody = Prosody{Pitch: 1, Speed: 1, Volume: 1}

type Option func(*Prosody)

func WithPitch(pitch float64) Option   { return func(p *Prosody) { p.Pitch = pitch } }
func WithSpeed(speed float64) Option   { return func(p *Prosody) { p.Speed = speed } }
func WithVolume(volume float64) Option { return func(p *Prosody) { p.Volume = volume } }

// WithProsody overrides every non-zero field of prosody at once.
func WithProsody(prosody Prosody) Option {
	return func(p *Prosody) {
		if prosody.Pitch != 0 {
			p.Pitch = prosody.Pitch
		}
		if prosody.Speed != 0 {
			p.Speed = prosody.Speed
		}
		if prosody.Volume != 0 {
			p.Volume = prosody.Volume
		}
	}
}

// Speak wraps text in a <speak> envelope. Text is inserted as is and may be
// empty, which is how the end of a reply is signalled to the avatar.
func Speak(text string, opts ...Option) string {
	prosody := DefaultProsody
	for _, opt := range opts {
		opt(&prosody)
	}

	var b strings.Builder
	b.Grow(len(text) + 48)
	b.WriteString(`<speak pitch="`)
	b.WriteString(formatNumber(prosody.Pitch))
	b.WriteString(`" speed="`)
	b.WriteString(formatNumber(prosody.Speed))
	b.WriteString(`" volume="`)
	b.WriteString(formatNumber(prosody.Volume))
	b.WriteString(`">`)
	b.WriteString(text)
	b.WriteString(`</speak>`)
	return b.String()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
