package orchestration

import (
	"time"

	"github.com/koscakluka/ema-avatar/core/segmentation"
	"github.com/koscakluka/ema-avatar/core/ssml"
)

// Settings holds what the assistant needs to know at runtime. Credentials
// for the LLM and speech recognition live in their clients.
type Settings struct {
	AvatarAppID     string
	AvatarAppSecret string

	Pitch  float64
	Speed  float64
	Volume float64

	SettleDelay         time.Duration
	MinSplitUnits       int
	MaxSplitUnits       int
	FlushWholeRemainder bool
}

func DefaultSettings() Settings {
	return Settings{
		Pitch:         ssml.DefaultProsody.Pitch,
		Speed:         ssml.DefaultProsody.Speed,
		Volume:        ssml.DefaultProsody.Volume,
		SettleDelay:   DefaultSettleDelay,
		MinSplitUnits: segmentation.MinSplitLength,
		MaxSplitUnits: segmentation.MaxSplitLength,
	}
}

func (s Settings) prosody() ssml.Prosody {
	return ssml.Prosody{Pitch: s.Pitch, Speed: s.Speed, Volume: s.Volume}
}

func (s Settings) segmenter() segmentation.Segmenter {
	return segmentation.Segmenter{MinUnits: s.MinSplitUnits, MaxUnits: s.MaxSplitUnits}
}

func (s Settings) dispatchOptions() []DispatchOption {
	opts := []DispatchOption{WithProsody(s.prosody()), WithSegmenter(s.segmenter())}
	if s.FlushWholeRemainder {
		opts = append(opts, WithWholeRemainderFlush())
	}
	return opts
}
