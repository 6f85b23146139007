// Package deepgram recognizes speech with the Deepgram live listen API.
package deepgram

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/koscakluka/ema-avatar/core/speechtotext"
)

const (
	DefaultEndpoint = "wss://api.deepgram.com/v1/listen"
	DefaultModel    = "nova-2"
	DefaultLanguage = "zh-CN"
)

var _ speechtotext.Recognizer = (*Client)(nil)

type Client struct {
	apiKey  string
	options Options

	connMu    sync.Mutex
	conn      *websocket.Conn
	done      chan struct{}
	lastMsgTs time.Time
}

type Options struct {
	Endpoint string
	Model    string
	Language string
	// EndpointingMs is the silence in milliseconds after which a sentence is
	// considered finished.
	EndpointingMs int
	Dialer        *websocket.Dialer
}

type Option func(*Options)

func WithEndpoint(endpoint string) Option {
	return func(o *Options) { o.Endpoint = endpoint }
}

func WithModel(model string) Option {
	return func(o *Options) {
		if model != "" {
			o.Model = model
		}
	}
}

func WithLanguage(language string) Option {
	return func(o *Options) {
		if language != "" {
			o.Language = language
		}
	}
}

func WithEndpointing(milliseconds int) Option {
	return func(o *Options) {
		if milliseconds > 0 {
			o.EndpointingMs = milliseconds
		}
	}
}

func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("deepgram api key is required")
	}

	options := Options{
		Endpoint:      DefaultEndpoint,
		Model:         DefaultModel,
		Language:      DefaultLanguage,
		EndpointingMs: 300,
		Dialer:        websocket.DefaultDialer,
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &Client{apiKey: apiKey, options: options}, nil
}
