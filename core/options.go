package orchestration

import (
	"github.com/koscakluka/ema-avatar/core/audio"
	"github.com/koscakluka/ema-avatar/core/avatar"
	"github.com/koscakluka/ema-avatar/core/events"
	"github.com/koscakluka/ema-avatar/core/speechtotext"
)

type AssistantOption func(*Assistant)

func WithSettings(settings Settings) AssistantOption {
	return func(a *Assistant) { a.settings = settings }
}

func WithAvatarConnector(connector avatar.Connector) AssistantOption {
	return func(a *Assistant) { a.connector = connector }
}

func WithStreamingLLM(client LLMWithStream) AssistantOption {
	return func(a *Assistant) { a.llm.set(client) }
}

func WithSpeechToTextClient(client speechtotext.Recognizer) AssistantOption {
	return func(a *Assistant) { a.speechToText.set(client) }
}

func WithAudioInput(client audio.Capturer) AssistantOption {
	return func(a *Assistant) { a.audioInput.Set(client) }
}

// WithEventBus publishes the assistant's events on bus instead of a private
// one.
func WithEventBus(bus *events.Bus) AssistantOption {
	return func(a *Assistant) {
		if bus != nil {
			a.bus = bus
		}
	}
}
