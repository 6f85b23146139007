package deepgram

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"

	"github.com/koscakluka/ema-avatar/core/audio"
)

var supportedSampleRates = []int{8000, 16000, 24000, 32000, 48000}

// listenEncoding is the raw audio description sent with the listen request.
type listenEncoding struct {
	name       string
	sampleRate int
}

func (e listenEncoding) apply(query url.Values) {
	query.Set("encoding", e.name)
	query.Set("sample_rate", strconv.Itoa(e.sampleRate))
	query.Set("channels", "1")
}

// convertEncoding checks that deepgram accepts raw audio in encoding.
// Companded formats are only accepted at telephone quality.
func convertEncoding(encoding audio.EncodingInfo) (listenEncoding, error) {
	if !slices.Contains(supportedSampleRates, encoding.SampleRate) {
		return listenEncoding{}, fmt.Errorf("unsupported sample rate %d", encoding.SampleRate)
	}

	switch encoding.Format {
	case audio.EncodingLinear16:
	case audio.EncodingALaw, audio.EncodingMulaw:
		if encoding.SampleRate != 8000 {
			return listenEncoding{}, fmt.Errorf("unsupported sample rate %d for %s encoding",
				encoding.SampleRate, encoding.Format.Name())
		}
	default:
		return listenEncoding{}, fmt.Errorf("unsupported encoding %q", encoding.Format.Name())
	}

	return listenEncoding{name: encoding.Format.Name(), sampleRate: encoding.SampleRate}, nil
}
