package audio

import (
	"context"
	"fmt"
	"time"
)

const (
	DefaultSampleRate = 16000
	DefaultFormat     = "linear16"
)

func GetDefaultEncodingInfo() EncodingInfo {
	return EncodingInfo{SampleRate: DefaultSampleRate, Format: EncodingLinear16}
}

// EncodingInfo describes mono audio as captured from a microphone and sent to
// a recognizer.
type EncodingInfo struct {
	SampleRate int
	Format     encodingFormat
}

func (e EncodingInfo) IsZero() bool {
	return e.SampleRate == 0 || e.Format.Name() == ""
}

func (e EncodingInfo) SilenceValue() byte {
	switch e.Format {
	case EncodingALaw:
		return 0x55
	case EncodingMulaw:
		return 0xFF
	}
	return 0
}

// ChunkSize returns the number of bytes holding d worth of audio.
func (e EncodingInfo) ChunkSize(d time.Duration) int {
	if e.IsZero() || e.Format.ByteSize() < 0 {
		return 0
	}
	return int(int64(e.SampleRate) * int64(e.Format.ByteSize()) * d.Milliseconds() / 1000)
}

// Silence returns a chunk of d worth of silent audio.
func (e EncodingInfo) Silence(d time.Duration) []byte {
	chunk := make([]byte, e.ChunkSize(d))
	if silence := e.SilenceValue(); silence != 0 {
		for i := range chunk {
			chunk[i] = silence
		}
	}
	return chunk
}

type encodingFormat string

func (e encodingFormat) Name() string {
	return string(e)
}

func (e encodingFormat) ByteSize() int {
	switch e {
	case EncodingMulaw, EncodingALaw:
		return 1
	case EncodingLinear16:
		return 2
	}
	return -1
}

const (
	EncodingMulaw    encodingFormat = "mulaw"
	EncodingALaw     encodingFormat = "alaw"
	EncodingLinear16 encodingFormat = "linear16"
)

// ParseFormat maps a configured format name to a known encoding.
func ParseFormat(name string) (encodingFormat, error) {
	switch format := encodingFormat(name); format {
	case EncodingMulaw, EncodingALaw, EncodingLinear16:
		return format, nil
	case "":
		return EncodingLinear16, nil
	}
	return "", fmt.Errorf("unsupported audio format %q", name)
}

// Capturer streams microphone audio to onAudio until stopped.
type Capturer interface {
	StartCapture(ctx context.Context, onAudio func(audio []byte)) error
	StopCapture() error
	EncodingInfo() EncodingInfo
	Close() error
}
