// Package openai talks to OpenAI compatible chat completion endpoints, such as
// the Volcengine Ark gateway used for Doubao models.
package openai

import (
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultBaseURL      = "https://ark.cn-beijing.volces.com/api/v3"
	DefaultModel        = "doubao-1-5-pro-32k-250115"
	DefaultSystemPrompt = "你是人工智能助手"
)

type Client struct {
	client openai.Client

	model        string
	systemPrompt string
}

type ClientOptions struct {
	BaseURL        string
	SystemPrompt   string
	HTTPClient     *http.Client
	RequestOptions []option.RequestOption
}

type ClientOption func(*ClientOptions)

func WithBaseURL(baseURL string) ClientOption {
	return func(o *ClientOptions) {
		if baseURL != "" {
			o.BaseURL = baseURL
		}
	}
}

func WithSystemPrompt(systemPrompt string) ClientOption {
	return func(o *ClientOptions) { o.SystemPrompt = systemPrompt }
}

// WithHTTPClient replaces the default instrumented HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(o *ClientOptions) { o.HTTPClient = client }
}

// WithRequestOptions passes options straight to the underlying SDK client.
func WithRequestOptions(opts ...option.RequestOption) ClientOption {
	return func(o *ClientOptions) { o.RequestOptions = append(o.RequestOptions, opts...) }
}

func NewClient(apiKey string, model string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	options := ClientOptions{
		BaseURL:      DefaultBaseURL,
		SystemPrompt: DefaultSystemPrompt,
		HTTPClient:   &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	for _, opt := range opts {
		opt(&options)
	}

	requestOptions := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(options.BaseURL),
		option.WithHTTPClient(options.HTTPClient),
	}
	requestOptions = append(requestOptions, options.RequestOptions...)

	return &Client{
		client:       openai.NewClient(requestOptions...),
		model:        model,
		systemPrompt: options.SystemPrompt,
	}, nil
}

func (c *Client) Model() string { return c.model }
