package orchestration

import "errors"

var (
	ErrMissingAvatarCredentials  = errors.New("avatar app id and app secret are required")
	ErrAvatarNotConnected        = errors.New("avatar is not connected")
	ErrAvatarConnectorMissing    = errors.New("no avatar connector configured")
	ErrLLMNotConfigured          = errors.New("no llm configured")
	ErrEmptyMessage              = errors.New("message is empty")
	ErrStreamUnavailable         = errors.New("llm stream unavailable")
	ErrSpeechToTextNotConfigured = errors.New("no speech-to-text configured")
	ErrAudioInputNotConfigured   = errors.New("no audio input configured")
)
