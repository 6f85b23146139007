// Package miniaudio captures microphone audio through miniaudio.
package miniaudio

import (
	"context"
	"fmt"

	"github.com/gen2brain/malgo"
	"github.com/koscakluka/ema-avatar/core/audio"
)

var _ audio.Capturer = (*Client)(nil)

type Client struct {
	audioContext *malgo.AllocatedContext
	capture      captureDevice
}

// NewClient opens the default microphone at the default encoding.
func NewClient() (*Client, error) {
	audioCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		logger.Debug("malgo", "message", message)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}

	client := &Client{audioContext: audioCtx}
	if err := client.capture.init(audioCtx, audio.GetDefaultEncodingInfo(), DefaultPeriod); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func (c *Client) StartCapture(_ context.Context, onAudio func(audio []byte)) error {
	return c.capture.start(onAudio)
}

func (c *Client) StopCapture() error { return c.capture.stop() }

func (c *Client) Close() error {
	c.capture.uninit()
	if err := c.audioContext.Uninit(); err != nil {
		return fmt.Errorf("failed to uninitialize audio context: %w", err)
	}
	c.audioContext.Free()
	return nil
}

func (c *Client) EncodingInfo() audio.EncodingInfo { return c.capture.encoding }
