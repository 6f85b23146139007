// Package tencent recognizes speech with the Tencent Cloud realtime ASR
// websocket API.
package tencent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/koscakluka/ema-avatar/core/audio"
	"github.com/koscakluka/ema-avatar/core/speechtotext"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	DefaultEndpoint        = "wss://asr.cloud.tencent.com/asr/v2/"
	DefaultEngineModelType = "16k_zh"
	DefaultVADSilenceTime  = 300

	signatureLifetime = 24 * time.Hour
)

var _ speechtotext.Recognizer = (*Client)(nil)

type Client struct {
	appID     string
	secretID  string
	secretKey string
	options   Options

	connMu  sync.Mutex
	conn    *websocket.Conn
	done    chan struct{}
	dropped *atomic.Bool
}

type Options struct {
	Endpoint        string
	EngineModelType string
	VADSilenceTime  int
	Dialer          *websocket.Dialer
}

type Option func(*Options)

func WithEndpoint(endpoint string) Option {
	return func(o *Options) { o.Endpoint = endpoint }
}

func WithEngineModelType(engineModelType string) Option {
	return func(o *Options) { o.EngineModelType = engineModelType }
}

// WithVADSilenceTime sets how many milliseconds of silence end a sentence.
func WithVADSilenceTime(milliseconds int) Option {
	return func(o *Options) {
		if milliseconds > 0 {
			o.VADSilenceTime = milliseconds
		}
	}
}

func WithDialer(dialer *websocket.Dialer) Option {
	return func(o *Options) { o.Dialer = dialer }
}

func NewClient(appID, secretID, secretKey string, opts ...Option) (*Client, error) {
	if appID == "" || secretID == "" || secretKey == "" {
		return nil, fmt.Errorf("incomplete asr credentials: app id, secret id and secret key are required")
	}

	options := Options{
		Endpoint:        DefaultEndpoint,
		EngineModelType: DefaultEngineModelType,
		VADSilenceTime:  DefaultVADSilenceTime,
		Dialer:          websocket.DefaultDialer,
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &Client{appID: appID, secretID: secretID, secretKey: secretKey, options: options}, nil
}

// Recognize opens a recognition session. Results are reported through the
// callbacks in opts from a single goroutine, in the order they arrive. The
// session ends when the service reports the final result, when ctx is done
// or on the first error.
func (c *Client) Recognize(ctx context.Context, opts ...speechtotext.RecognitionOption) error {
	ctx, span := tracer.Start(ctx, "transcribe")
	defer span.End()

	options := speechtotext.NewRecognitionOptions(opts...)
	voiceFormat, err := convertEncoding(options.EncodingInfo)
	if err != nil {
		return fmt.Errorf("invalid encoding: %w", err)
	}

	c.connMu.Lock()
	defer c.connMu.Unlock()
	if c.conn != nil {
		return speechtotext.ErrAlreadyRecognizing
	}

	recognitionURL, err := c.recognitionURL(voiceFormat, time.Now())
	if err != nil {
		return err
	}

	conn, _, err := c.options.Dialer.DialContext(ctx, recognitionURL, nil)
	if err != nil {
		err = fmt.Errorf("failed to open socket connection to tencent asr: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetAttributes(attribute.String("asr.engine_model_type", c.options.EngineModelType))

	done := make(chan struct{})
	dropped := &atomic.Bool{}
	c.conn = conn
	c.done = done
	c.dropped = dropped
	go c.readMessages(conn, options, done, dropped)
	go func() {
		select {
		case <-ctx.Done():
			dropped.Store(true)
			conn.Close()
		case <-done:
		}
	}()

	return nil
}

func (c *Client) recognitionURL(voiceFormat int, now time.Time) (string, error) {
	endpoint, err := url.Parse(c.options.Endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid asr endpoint: %w", err)
	}
	endpoint = endpoint.JoinPath(c.appID)

	params := map[string]string{
		"secretid":          c.secretID,
		"timestamp":         strconv.FormatInt(now.Unix(), 10),
		"expired":           strconv.FormatInt(now.Add(signatureLifetime).Unix(), 10),
		"nonce":             strconv.Itoa(rand.IntN(1_000_000_000)),
		"engine_model_type": c.options.EngineModelType,
		"voice_id":          uuid.NewString(),
		"voice_format":      strconv.Itoa(voiceFormat),
		"needvad":           "1",
		"vad_silence_time":  strconv.Itoa(c.options.VADSilenceTime),
		"filter_dirty":      "1",
		"filter_modal":      "1",
		"filter_punc":       "1",
		"convert_num_mode":  "1",
		"word_info":         "2",
	}

	return signedURL(endpoint, c.secretKey, params), nil
}

func (c *Client) SendAudio(audio []byte) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()
	if c.conn == nil {
		return speechtotext.ErrNotRecognizing
	}

	if err := c.conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
		return fmt.Errorf("failed to write to tencent asr: %w", err)
	}
	return nil
}

// Stop asks the service to finish the current sentence and waits until the
// session is closed. If ctx is done first the connection is dropped.
func (c *Client) Stop(ctx context.Context) error {
	c.connMu.Lock()
	conn, done, dropped := c.conn, c.done, c.dropped
	if conn == nil {
		c.connMu.Unlock()
		return speechtotext.ErrNotRecognizing
	}
	err := conn.WriteJSON(endRequest{Type: "end"})
	c.connMu.Unlock()
	if err != nil {
		dropped.Store(true)
		conn.Close()
		<-done
		return fmt.Errorf("failed to end tencent asr session: %w", err)
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		dropped.Store(true)
		conn.Close()
		<-done
		return ctx.Err()
	}
}

// readMessages reports results until the session ends. A connection dropped
// on purpose, by ctx or by Stop, ends the session without an error callback.
func (c *Client) readMessages(conn *websocket.Conn, options speechtotext.RecognitionOptions, done chan struct{}, dropped *atomic.Bool) {
	defer func() {
		conn.Close()
		c.connMu.Lock()
		if c.conn == conn {
			c.conn = nil
			c.done = nil
			c.dropped = nil
		}
		c.connMu.Unlock()
		close(done)
	}()

	started := false
	inSentence := false
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if dropped.Load() {
				return
			}
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) && !errors.Is(err, websocket.ErrCloseSent) {
				options.ErrorCallback(fmt.Errorf("failed to read tencent asr message: %w", err))
			}
			return
		}

		var resp response
		if err := json.Unmarshal(msg, &resp); err != nil {
			logger.Warn("failed to unmarshal tencent asr message", "error", err)
			continue
		}

		if resp.Code != 0 {
			options.ErrorCallback(&Error{Code: resp.Code, Message: resp.Message})
			return
		}

		if !started {
			started = true
			options.RecognitionStartCallback()
		}

		if resp.Result != nil {
			inSentence = handleResult(*resp.Result, inSentence, options)
		}

		if resp.Final == 1 {
			options.RecognitionCompleteCallback()
			return
		}
	}
}

// handleResult reports a sentence slice and returns whether a sentence is
// still open afterwards.
func handleResult(res result, inSentence bool, options speechtotext.RecognitionOptions) bool {
	switch res.SliceType {
	case sliceTypeBegin:
		options.SentenceBeginCallback()
		if res.VoiceTextStr != "" {
			options.RecognitionResultChangeCallback(res.VoiceTextStr)
		}
		return true

	case sliceTypeChange:
		if !inSentence {
			options.SentenceBeginCallback()
		}
		if res.VoiceTextStr != "" {
			options.RecognitionResultChangeCallback(res.VoiceTextStr)
		}
		return true

	case sliceTypeEnd:
		if !inSentence {
			options.SentenceBeginCallback()
		}
		if res.VoiceTextStr != "" {
			options.SentenceEndCallback(res.VoiceTextStr)
		}
		return false
	}

	logger.Warn("unknown tencent asr slice type", "slice_type", res.SliceType)
	return inSentence
}

// convertEncoding maps encoding to a voice_format value. Only raw PCM is
// streamed.
func convertEncoding(encoding audio.EncodingInfo) (int, error) {
	if encoding.Format != audio.EncodingLinear16 {
		return 0, fmt.Errorf("unsupported encoding %q", encoding.Format.Name())
	}
	switch encoding.SampleRate {
	case 8000, 16000:
		return 1, nil
	}
	return 0, fmt.Errorf("unsupported sample rate %d", encoding.SampleRate)
}
