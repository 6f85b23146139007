package miniaudio

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gen2brain/malgo"
	"github.com/koscakluka/ema-avatar/core/audio"
)

// DefaultPeriod is how much audio each capture callback delivers. Realtime
// recognizers expect chunks of about 40 ms.
const DefaultPeriod = 40 * time.Millisecond

var errDeviceClosed = errors.New("capture device closed")

// captureDevice owns a malgo capture device producing mono audio in the
// given encoding.
type captureDevice struct {
	encoding audio.EncodingInfo

	mu     sync.Mutex
	device *malgo.Device

	// onAudio is read from malgo's audio thread.
	onAudio atomic.Pointer[func(audio []byte)]
}

func (c *captureDevice) init(audioContext *malgo.AllocatedContext, encoding audio.EncodingInfo, period time.Duration) error {
	if encoding.Format != audio.EncodingLinear16 {
		return fmt.Errorf("unsupported capture format %q", encoding.Format.Name())
	}
	c.encoding = encoding

	config := malgo.DefaultDeviceConfig(malgo.Capture)
	config.SampleRate = uint32(encoding.SampleRate)
	config.Capture.Format = malgo.FormatS16
	config.Capture.Channels = 1
	config.Alsa.NoMMap = 1
	config.PerformanceProfile = malgo.LowLatency
	config.PeriodSizeInFrames = uint32(encoding.ChunkSize(period) / encoding.Format.ByteSize())
	config.Periods = 3

	frameSize := encoding.Format.ByteSize()
	device, err := malgo.InitDevice(audioContext.Context, config, malgo.DeviceCallbacks{
		Data: func(_, input []byte, frameCount uint32) {
			n := int(frameCount) * frameSize
			if n == 0 || len(input) < n {
				return
			}
			if onAudio := c.onAudio.Load(); onAudio != nil {
				(*onAudio)(input[:n])
			}
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize capture device: %w", err)
	}

	c.mu.Lock()
	c.device = device
	c.mu.Unlock()
	return nil
}

func (c *captureDevice) start(onAudio func(audio []byte)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return errDeviceClosed
	}
	if c.device.IsStarted() {
		return nil
	}

	c.onAudio.Store(&onAudio)
	if err := c.device.Start(); err != nil {
		c.onAudio.Store(nil)
		return fmt.Errorf("failed to start capture device: %w", err)
	}
	logger.Debug("capture started", "sample_rate", c.encoding.SampleRate)
	return nil
}

func (c *captureDevice) stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil || !c.device.IsStarted() {
		return nil
	}

	err := c.device.Stop()
	c.onAudio.Store(nil)
	if err != nil {
		return fmt.Errorf("failed to stop capture device: %w", err)
	}
	return nil
}

func (c *captureDevice) uninit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device != nil {
		c.device.Uninit()
		c.device = nil
	}
	c.onAudio.Store(nil)
}
