package openai

import (
	"github.com/koscakluka/ema-avatar/core/llms"
	"github.com/openai/openai-go"
)

func (c *Client) messages(prompt string) []llms.Message {
	messages := []llms.Message{}
	if c.systemPrompt != "" {
		messages = append(messages, llms.Message{Role: llms.MessageRoleSystem, Content: c.systemPrompt})
	}
	return append(messages, llms.Message{Role: llms.MessageRoleUser, Content: prompt})
}

func toChatMessages(messages []llms.Message) []openai.ChatCompletionMessageParamUnion {
	chatMessages := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, message := range messages {
		switch message.Role {
		case llms.MessageRoleSystem:
			chatMessages = append(chatMessages, openai.SystemMessage(message.Content))
		case llms.MessageRoleAssistant:
			chatMessages = append(chatMessages, openai.AssistantMessage(message.Content))
		default:
			chatMessages = append(chatMessages, openai.UserMessage(message.Content))
		}
	}
	return chatMessages
}
