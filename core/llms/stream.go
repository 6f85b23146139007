package llms

import (
	"context"
	"iter"
)

type Stream interface {
	Chunks(context.Context) func(func(StreamChunk, error) bool)
}

type StreamChunk interface {
	FinishReason() *string
}

type StreamContentChunk interface {
	StreamChunk
	Content() string
}

type StreamUsageChunk interface {
	StreamChunk
	Usage() Usage
}

type Usage struct {
	// InputTokens represents the number of input tokens.
	InputTokens int
	// OutputTokens represents the number of output tokens.
	OutputTokens int
	// TotalTokens represents the total number of tokens used.
	TotalTokens int
}

// Contents yields the non-empty content deltas of stream in order. Any other
// chunk is skipped. The first error ends the sequence.
//
// A nil stream yields a nil sequence.
func Contents(ctx context.Context, stream Stream) iter.Seq2[string, error] {
	if stream == nil {
		return nil
	}

	return func(yield func(string, error) bool) {
		for chunk, err := range stream.Chunks(ctx) {
			if err != nil {
				yield("", err)
				return
			}

			contentChunk, ok := chunk.(StreamContentChunk)
			if !ok || contentChunk.Content() == "" {
				continue
			}
			if !yield(contentChunk.Content(), nil) {
				return
			}
		}
	}
}
