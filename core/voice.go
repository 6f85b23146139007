package orchestration

import (
	"context"
	"errors"
)

// VoiceInputCallbacks receive what the user says while voice input is on.
type VoiceInputCallbacks struct {
	// OnFinished receives every recognized sentence.
	OnFinished func(transcript string)
	// OnInterim receives the running transcript of the current sentence.
	OnInterim func(transcript string)
	OnError   func(err error)
}

// StartVoiceInput starts recognition and microphone capture. Captured audio
// is streamed to the recognizer until StopVoiceInput is called or the
// recognizer stops on its own. Starting while already listening does
// nothing.
func (a *Assistant) StartVoiceInput(ctx context.Context, callbacks VoiceInputCallbacks) error {
	a.voiceMu.Lock()
	defer a.voiceMu.Unlock()

	if !a.speechToText.isConfigured() {
		return ErrSpeechToTextNotConfigured
	}
	if !a.audioInput.IsConfigured() {
		return ErrAudioInputNotConfigured
	}
	if a.audioInput.IsCapturing() {
		logger.WarnContext(ctx, "voice input already started")
		return nil
	}

	a.speechToText.SetEventEmitter(chainEventEmitters(a.bus.Publish, newCallbackEventEmitter(callbacks)))
	a.speechToText.onStopped = func() {
		if err := a.audioInput.StopCapture(); err != nil {
			logger.Warn("failed to stop audio input", "error", err)
		}
	}

	if err := a.speechToText.Start(ctx, a.audioInput.EncodingInfo()); err != nil {
		return err
	}
	if err := a.audioInput.Capture(ctx); err != nil {
		return errors.Join(err, a.speechToText.Stop(context.WithoutCancel(ctx)))
	}

	return nil
}

// StopVoiceInput stops capture and waits for the recognizer to deliver the
// last sentence.
func (a *Assistant) StopVoiceInput(ctx context.Context) error {
	a.voiceMu.Lock()
	defer a.voiceMu.Unlock()

	if !a.audioInput.IsCapturing() {
		return nil
	}

	captureErr := a.audioInput.StopCapture()
	return errors.Join(captureErr, a.speechToText.Stop(ctx))
}
