package events

const (
	// KindRecognitionStarted identifies the start of speech recognition.
	KindRecognitionStarted Kind = "user_input.recognition_started"
	// KindUserTranscriptInterimUpdated identifies mutable interim transcript updates.
	KindUserTranscriptInterimUpdated Kind = "user_input.transcript_interim_updated"
	// KindUserTranscriptFinal identifies a finished, recognised sentence.
	KindUserTranscriptFinal Kind = "user_input.transcript_final"
	// KindRecognitionCompleted identifies the end of speech recognition.
	KindRecognitionCompleted Kind = "user_input.recognition_completed"
	// KindRecognitionFailed identifies a speech recognition error.
	KindRecognitionFailed Kind = "user_input.recognition_failed"
)

// RecognitionStarted marks the start of speech recognition.
type RecognitionStarted struct{ Base }

// NewRecognitionStarted creates a recognition started event.
func NewRecognitionStarted() RecognitionStarted {
	return RecognitionStarted{Base: NewBase(KindRecognitionStarted)}
}

// UserTranscriptInterimUpdated carries the mutable transcript of the sentence
// currently being recognised.
type UserTranscriptInterimUpdated struct {
	Base
	Transcript string
}

// NewUserTranscriptInterimUpdated creates an interim transcript update event.
func NewUserTranscriptInterimUpdated(transcript string) UserTranscriptInterimUpdated {
	return UserTranscriptInterimUpdated{Base: NewBase(KindUserTranscriptInterimUpdated), Transcript: transcript}
}

// UserTranscriptFinal carries a recognised sentence.
type UserTranscriptFinal struct {
	Base
	Transcript string
}

// NewUserTranscriptFinal creates a final transcript event.
func NewUserTranscriptFinal(transcript string) UserTranscriptFinal {
	return UserTranscriptFinal{Base: NewBase(KindUserTranscriptFinal), Transcript: transcript}
}

// RecognitionCompleted marks the end of speech recognition.
type RecognitionCompleted struct{ Base }

// NewRecognitionCompleted creates a recognition completed event.
func NewRecognitionCompleted() RecognitionCompleted {
	return RecognitionCompleted{Base: NewBase(KindRecognitionCompleted)}
}

// RecognitionFailed carries the error reported by speech recognition.
type RecognitionFailed struct {
	Base
	Err error
}

// NewRecognitionFailed creates a recognition failed event.
func NewRecognitionFailed(err error) RecognitionFailed {
	return RecognitionFailed{Base: NewBase(KindRecognitionFailed), Err: err}
}
