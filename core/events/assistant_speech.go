package events

// KindAssistantSpeechFragmentDispatched identifies a fragment handed to the avatar.
const KindAssistantSpeechFragmentDispatched Kind = "assistant_speech.fragment_dispatched"

// AssistantSpeechFragmentDispatched carries a fragment and the framing flags
// it was spoken with. The terminal call of a reply has empty Text and IsLast
// set.
type AssistantSpeechFragmentDispatched struct {
	Base
	Text    string
	IsFirst bool
	IsLast  bool
}

// NewAssistantSpeechFragmentDispatched creates a fragment dispatched event.
func NewAssistantSpeechFragmentDispatched(text string, isFirst, isLast bool) AssistantSpeechFragmentDispatched {
	return AssistantSpeechFragmentDispatched{
		Base:    NewBase(KindAssistantSpeechFragmentDispatched),
		Text:    text,
		IsFirst: isFirst,
		IsLast:  isLast,
	}
}
