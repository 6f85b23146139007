package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/koscakluka/ema-avatar/core/llms"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/packages/ssestream"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var errStreamConsumed = errors.New("llm stream already consumed")

// PromptWithStream opens a streaming completion for prompt. The request is
// sent before returning, so an unreachable endpoint or a rejected key is
// reported here rather than while reading chunks.
func (c *Client) PromptWithStream(ctx context.Context, prompt string) (llms.Stream, error) {
	ctx, span := tracer.Start(ctx, "open llm stream")
	defer span.End()
	span.SetAttributes(attribute.String("request.model", c.model))

	stream := c.client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: toChatMessages(c.messages(prompt)),
		StreamOptions: openai.ChatCompletionStreamOptionsParam{
			IncludeUsage: openai.Bool(true),
		},
	})
	if err := stream.Err(); err != nil {
		_ = stream.Close()
		err = fmt.Errorf("failed to open llm stream: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return &Stream{model: c.model, stream: stream, openedAt: time.Now()}, nil
}

// Stream is an opened completion stream. It can be consumed once.
type Stream struct {
	model    string
	stream   *ssestream.Stream[openai.ChatCompletionChunk]
	openedAt time.Time
	consumed atomic.Bool
}

func (s *Stream) Chunks(ctx context.Context) func(func(llms.StreamChunk, error) bool) {
	return func(yield func(llms.StreamChunk, error) bool) {
		if !s.consumed.CompareAndSwap(false, true) {
			yield(nil, errStreamConsumed)
			return
		}
		defer s.stream.Close()

		_, span := tracer.Start(ctx, "prompt llm stream")
		defer span.End()
		span.SetAttributes(attribute.String("request.model", s.model))

		firstChunk := true
		for s.stream.Next() {
			chunk := s.stream.Current()
			if firstChunk {
				recordFirstChunk(span, s.openedAt)
				firstChunk = false
			}

			for _, choice := range chunk.Choices {
				// Only the first choice is spoken
				if choice.Index != 0 {
					continue
				}
				var finishReason *string
				if choice.FinishReason != "" {
					finishReason = &choice.FinishReason
				}
				if !yield(StreamContentChunk{finishReason: finishReason, content: choice.Delta.Content}, nil) {
					return
				}
			}

			if chunk.Usage.TotalTokens > 0 {
				usage := llms.Usage{
					InputTokens:  int(chunk.Usage.PromptTokens),
					OutputTokens: int(chunk.Usage.CompletionTokens),
					TotalTokens:  int(chunk.Usage.TotalTokens),
				}
				span.SetAttributes(attribute.Int("response.total_tokens", usage.TotalTokens))
				if !yield(StreamUsageChunk{usage: usage}, nil) {
					return
				}
			}
		}

		if err := s.stream.Err(); err != nil && !errors.Is(err, io.EOF) {
			err = fmt.Errorf("error reading streamed response: %w", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			yield(nil, err)
		}
	}
}

func recordFirstChunk(span trace.Span, openedAt time.Time) {
	span.SetAttributes(attribute.Float64("response.open_to_first_token_time", time.Since(openedAt).Seconds()))
	span.AddEvent("received first chunk")
}

type StreamContentChunk struct {
	finishReason *string
	content      string
}

func (s StreamContentChunk) FinishReason() *string { return s.finishReason }
func (s StreamContentChunk) Content() string       { return s.content }

type StreamUsageChunk struct {
	usage llms.Usage
}

func (s StreamUsageChunk) FinishReason() *string { return nil }
func (s StreamUsageChunk) Usage() llms.Usage     { return s.usage }
