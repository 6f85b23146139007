package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Prompt sends prompt without streaming and returns the reply text. An empty
// reply is not an error.
func (c *Client) Prompt(ctx context.Context, prompt string) (string, error) {
	ctx, span := tracer.Start(ctx, "prompt llm")
	defer span.End()
	span.SetAttributes(attribute.String("request.model", c.model))

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: toChatMessages(c.messages(prompt)),
	})
	if err != nil {
		err = fmt.Errorf("failed to prompt llm: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	if len(completion.Choices) == 0 {
		logger.WarnContext(ctx, "no choices returned for prompt", "model", c.model)
		return "", nil
	}
	return completion.Choices[0].Message.Content, nil
}
