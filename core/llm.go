package orchestration

import (
	"context"
	"fmt"

	"github.com/koscakluka/ema-avatar/core/llms"
)

type LLMWithStream interface {
	PromptWithStream(ctx context.Context, prompt string) (llms.Stream, error)
}

type llm struct {
	client LLMWithStream
}

func (runtime *llm) set(client LLMWithStream) {
	if runtime != nil {
		runtime.client = client
	}
}

func (runtime *llm) isConfigured() bool { return runtime != nil && runtime.client != nil }

// openStream opens a reply stream for prompt. Any failure to get a stream is
// reported as ErrStreamUnavailable.
func (runtime *llm) openStream(ctx context.Context, prompt string) (llms.Stream, error) {
	if !runtime.isConfigured() {
		return nil, ErrLLMNotConfigured
	}

	stream, err := runtime.client.PromptWithStream(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStreamUnavailable, err)
	}
	if stream == nil {
		return nil, ErrStreamUnavailable
	}
	return stream, nil
}
