package orchestration

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/koscakluka/ema-avatar/core/audio"
)

type audioInput struct {
	// base stores the configured capture device.
	base audio.Capturer

	// isCapturing reports whether the device is currently capturing audio.
	isCapturing atomic.Bool

	// onInputAudio is called when input audio is received
	onInputAudio func(audio []byte)
}

func newAudioInput(client audio.Capturer, onInputAudio func(audio []byte)) *audioInput {
	if onInputAudio == nil {
		onInputAudio = func(audio []byte) {}
	}

	audioInput := audioInput{onInputAudio: onInputAudio}
	audioInput.Set(client)
	return &audioInput
}

func (a *audioInput) Set(client audio.Capturer) {
	if a == nil {
		return
	}
	a.base = client
	a.isCapturing.Store(false)
}

func (a *audioInput) IsConfigured() bool { return a != nil && a.base != nil }
func (a *audioInput) IsCapturing() bool  { return a != nil && a.isCapturing.Load() }

func (a *audioInput) Capture(ctx context.Context) error {
	if !a.IsConfigured() {
		return ErrAudioInputNotConfigured
	}
	if !a.isCapturing.CompareAndSwap(false, true) {
		return nil
	}

	if err := a.base.StartCapture(ctx, a.onAudio); err != nil {
		a.isCapturing.Store(false)
		return fmt.Errorf("failed to start audio input: %w", err)
	}
	return nil
}

func (a *audioInput) StopCapture() error {
	if !a.IsConfigured() || !a.isCapturing.CompareAndSwap(true, false) {
		return nil
	}

	if err := a.base.StopCapture(); err != nil {
		return fmt.Errorf("failed to stop audio input: %w", err)
	}
	return nil
}

func (a *audioInput) Close() error {
	if !a.IsConfigured() {
		return nil
	}
	stopErr := a.StopCapture()
	if err := a.base.Close(); err != nil {
		return fmt.Errorf("failed to close audio input: %w", err)
	}
	return stopErr
}

func (a *audioInput) EncodingInfo() audio.EncodingInfo {
	if !a.IsConfigured() {
		return audio.GetDefaultEncodingInfo()
	}
	return a.base.EncodingInfo()
}

func (a *audioInput) onAudio(audio []byte) {
	if !a.IsCapturing() {
		return
	}
	a.onInputAudio(audio)
}
