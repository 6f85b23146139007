package events

const (
	// KindAssistantResponseSegment identifies streamed assistant response text.
	KindAssistantResponseSegment Kind = "assistant_response.segment"
	// KindAssistantResponseFinal identifies assistant response stream completion.
	KindAssistantResponseFinal Kind = "assistant_response.final"
	// KindAssistantResponseFailed identifies a failed assistant response.
	KindAssistantResponseFailed Kind = "assistant_response.failed"
)

// AssistantResponseSegment carries a streamed assistant response text segment.
type AssistantResponseSegment struct {
	Base
	Segment string
}

// NewAssistantResponseSegment creates an assistant response segment event.
func NewAssistantResponseSegment(segment string) AssistantResponseSegment {
	return AssistantResponseSegment{Base: NewBase(KindAssistantResponseSegment), Segment: segment}
}

// AssistantResponseFinal marks assistant response stream completion and
// carries the text that was left unsegmented.
type AssistantResponseFinal struct {
	Base
	Remainder string
}

// NewAssistantResponseFinal creates an assistant response final event.
func NewAssistantResponseFinal(remainder string) AssistantResponseFinal {
	return AssistantResponseFinal{Base: NewBase(KindAssistantResponseFinal), Remainder: remainder}
}

// AssistantResponseFailed carries the error that ended the response.
type AssistantResponseFailed struct {
	Base
	Err error
}

// NewAssistantResponseFailed creates an assistant response failed event.
func NewAssistantResponseFailed(err error) AssistantResponseFailed {
	return AssistantResponseFailed{Base: NewBase(KindAssistantResponseFailed), Err: err}
}
