// Package speechtotext defines streaming speech recognition shared by the
// provider packages.
package speechtotext

import (
	"context"

	"github.com/koscakluka/ema-avatar/core/audio"
)

// Recognizer turns a stream of audio into sentences. Recognize opens a
// session, SendAudio feeds it and Stop asks the provider to flush the final
// result before the session closes.
type Recognizer interface {
	Recognize(ctx context.Context, opts ...RecognitionOption) error
	SendAudio(audio []byte) error
	Stop(ctx context.Context) error
}

type RecognitionOptions struct {
	RecognitionStartCallback        func()
	SentenceBeginCallback           func()
	RecognitionResultChangeCallback func(transcript string)
	SentenceEndCallback             func(transcript string)
	RecognitionCompleteCallback     func()
	ErrorCallback                   func(err error)

	EncodingInfo audio.EncodingInfo
}

// NewRecognitionOptions applies opts over no-op callbacks, so providers can
// call every callback unconditionally.
func NewRecognitionOptions(opts ...RecognitionOption) RecognitionOptions {
	options := RecognitionOptions{
		RecognitionStartCallback:        func() {},
		SentenceBeginCallback:           func() {},
		RecognitionResultChangeCallback: func(string) {},
		SentenceEndCallback:             func(string) {},
		RecognitionCompleteCallback:     func() {},
		ErrorCallback:                   func(error) {},
		EncodingInfo:                    audio.GetDefaultEncodingInfo(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

type RecognitionOption func(*RecognitionOptions)

func WithRecognitionStartCallback(callback func()) RecognitionOption {
	return func(o *RecognitionOptions) {
		if callback != nil {
			o.RecognitionStartCallback = callback
		}
	}
}

func WithSentenceBeginCallback(callback func()) RecognitionOption {
	return func(o *RecognitionOptions) {
		if callback != nil {
			o.SentenceBeginCallback = callback
		}
	}
}

// WithRecognitionResultChangeCallback receives the running transcript of the
// current sentence.
func WithRecognitionResultChangeCallback(callback func(transcript string)) RecognitionOption {
	return func(o *RecognitionOptions) {
		if callback != nil {
			o.RecognitionResultChangeCallback = callback
		}
	}
}

// WithSentenceEndCallback receives the finished sentence. Empty sentences are
// not reported.
func WithSentenceEndCallback(callback func(transcript string)) RecognitionOption {
	return func(o *RecognitionOptions) {
		if callback != nil {
			o.SentenceEndCallback = callback
		}
	}
}

func WithRecognitionCompleteCallback(callback func()) RecognitionOption {
	return func(o *RecognitionOptions) {
		if callback != nil {
			o.RecognitionCompleteCallback = callback
		}
	}
}

func WithErrorCallback(callback func(err error)) RecognitionOption {
	return func(o *RecognitionOptions) {
		if callback != nil {
			o.ErrorCallback = callback
		}
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) RecognitionOption {
	return func(o *RecognitionOptions) {
		if !encodingInfo.IsZero() {
			o.EncodingInfo = encodingInfo
		}
	}
}
