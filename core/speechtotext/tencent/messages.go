package tencent

import "fmt"

type sliceType int

const (
	sliceTypeBegin  sliceType = 0
	sliceTypeChange sliceType = 1
	sliceTypeEnd    sliceType = 2
)

type response struct {
	Code      int     `json:"code"`
	Message   string  `json:"message"`
	VoiceID   string  `json:"voice_id"`
	MessageID string  `json:"message_id"`
	Final     int     `json:"final"`
	Result    *result `json:"result,omitempty"`
}

type result struct {
	SliceType    sliceType `json:"slice_type"`
	Index        int       `json:"index"`
	StartTime    int       `json:"start_time"`
	EndTime      int       `json:"end_time"`
	VoiceTextStr string    `json:"voice_text_str"`
}

type endRequest struct {
	Type string `json:"type"`
}

// Error is a non-zero code reported by the recognition service.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("tencent asr error %d: %s", e.Code, e.Message)
}
