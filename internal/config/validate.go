package config

import (
	"errors"
	"fmt"
)

var (
	ErrMissingAvatarCredentials = errors.New("avatar app_id and app_secret are required")
	ErrMissingLLMKey            = errors.New("llm api_key is required")
	ErrMissingASRCredentials    = errors.New("asr credentials are required")
	ErrUnknownASRProvider       = errors.New("unknown asr provider")
	ErrUnknownAudioBackend      = errors.New("unknown audio backend")
)

func (c *Config) ValidateAvatar() error {
	if c.Avatar.AppID == "" || c.Avatar.AppSecret == "" {
		return ErrMissingAvatarCredentials
	}
	if c.Avatar.InitTimeout <= 0 {
		return fmt.Errorf("avatar init_timeout must be positive, got %s", c.Avatar.InitTimeout)
	}
	return nil
}

func (c *Config) ValidateLLM() error {
	if c.LLM.APIKey == "" {
		return ErrMissingLLMKey
	}
	return nil
}

func (c *Config) ValidateASR() error {
	switch c.ASR.Provider {
	case ASRProviderTencent:
		if c.ASR.AppID == "" || c.ASR.SecretID == "" || c.ASR.SecretKey == "" {
			return fmt.Errorf("%w: app_id, secret_id and secret_key", ErrMissingASRCredentials)
		}
	case ASRProviderDeepgram:
		if c.ASR.DeepgramAPIKey == "" {
			return fmt.Errorf("%w: deepgram_api_key", ErrMissingASRCredentials)
		}
	default:
		return fmt.Errorf("%w %q", ErrUnknownASRProvider, c.ASR.Provider)
	}

	switch c.Audio.Backend {
	case AudioBackendMiniaudio, AudioBackendPortaudio:
	default:
		return fmt.Errorf("%w %q", ErrUnknownAudioBackend, c.Audio.Backend)
	}
	return nil
}

func (c *Config) ValidateSpeech() error {
	if c.Speech.MinSplitUnits > c.Speech.MaxSplitUnits {
		return fmt.Errorf("speech min_split_units (%d) is larger than max_split_units (%d)",
			c.Speech.MinSplitUnits, c.Speech.MaxSplitUnits)
	}
	if c.Speech.SettleDelay < 0 {
		return fmt.Errorf("speech settle_delay must not be negative, got %s", c.Speech.SettleDelay)
	}
	return nil
}
