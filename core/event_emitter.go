package orchestration

import events "github.com/koscakluka/ema-avatar/core/events"

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}

// chainEventEmitters emits every event to each emitter in order.
func chainEventEmitters(emitters ...eventEmitter) eventEmitter {
	return func(event events.Event) {
		for _, emit := range emitters {
			if emit != nil {
				emit(event)
			}
		}
	}
}

func newCallbackEventEmitter(callbacks VoiceInputCallbacks) eventEmitter {
	return func(event events.Event) {
		switch typedEvent := event.(type) {
		case events.UserTranscriptInterimUpdated:
			if callbacks.OnInterim != nil {
				callbacks.OnInterim(typedEvent.Transcript)
			}
		case events.UserTranscriptFinal:
			if callbacks.OnFinished != nil {
				callbacks.OnFinished(typedEvent.Transcript)
			}
		case events.RecognitionFailed:
			if callbacks.OnError != nil {
				callbacks.OnError(typedEvent.Err)
			}
		}
	}
}
