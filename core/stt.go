package orchestration

import (
	"context"
	"errors"
	"fmt"

	"github.com/koscakluka/ema-avatar/core/audio"
	events "github.com/koscakluka/ema-avatar/core/events"
	"github.com/koscakluka/ema-avatar/core/speechtotext"
)

type speechToText struct {
	// client stores the configured speech recognizer.
	client speechtotext.Recognizer

	emitEvent eventEmitter
	// onStopped is called when the recognizer finishes or fails on its own.
	onStopped func()
}

func newSpeechToText(client speechtotext.Recognizer) *speechToText {
	return &speechToText{
		client:    client,
		emitEvent: noopEventEmitter,
		onStopped: func() {},
	}
}

func (s *speechToText) set(client speechtotext.Recognizer) {
	if s != nil {
		s.client = client
	}
}

func (s *speechToText) SetEventEmitter(emitter eventEmitter) {
	if emitter == nil {
		emitter = noopEventEmitter
	}
	s.emitEvent = emitter
}

func (s *speechToText) isConfigured() bool { return s != nil && s.client != nil }

func (s *speechToText) Start(ctx context.Context, encodingInfo audio.EncodingInfo) error {
	if !s.isConfigured() {
		return ErrSpeechToTextNotConfigured
	}

	recognitionOptions := []speechtotext.RecognitionOption{
		speechtotext.WithRecognitionStartCallback(s.invokeRecognitionStarted),
		speechtotext.WithSentenceBeginCallback(s.invokeSentenceBegin),
		speechtotext.WithRecognitionResultChangeCallback(s.invokeInterimTranscription),
		speechtotext.WithSentenceEndCallback(s.invokeTranscription),
		speechtotext.WithRecognitionCompleteCallback(s.invokeRecognitionCompleted),
		speechtotext.WithErrorCallback(s.invokeError),
		speechtotext.WithEncodingInfo(encodingInfo),
	}

	if err := s.client.Recognize(ctx, recognitionOptions...); err != nil {
		return fmt.Errorf("failed to start transcribing: %w", err)
	}
	return nil
}

func (s *speechToText) SendAudio(audio []byte) error {
	if !s.isConfigured() {
		return nil
	}
	return s.client.SendAudio(audio)
}

func (s *speechToText) Stop(ctx context.Context) error {
	if !s.isConfigured() {
		return nil
	}
	if err := s.client.Stop(ctx); err != nil && !errors.Is(err, speechtotext.ErrNotRecognizing) {
		return fmt.Errorf("failed to stop transcribing: %w", err)
	}
	return nil
}

func (s *speechToText) invokeRecognitionStarted() {
	s.emitEvent(events.NewRecognitionStarted())
}

func (s *speechToText) invokeSentenceBegin() {
	s.emitEvent(events.NewUserTranscriptInterimUpdated(""))
}

func (s *speechToText) invokeInterimTranscription(transcript string) {
	s.emitEvent(events.NewUserTranscriptInterimUpdated(transcript))
}

func (s *speechToText) invokeTranscription(transcript string) {
	s.emitEvent(events.NewUserTranscriptFinal(transcript))
}

func (s *speechToText) invokeRecognitionCompleted() {
	s.onStopped()
	s.emitEvent(events.NewRecognitionCompleted())
}

func (s *speechToText) invokeError(err error) {
	s.onStopped()
	s.emitEvent(events.NewRecognitionFailed(err))
}
