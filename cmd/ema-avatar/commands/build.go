package commands

import (
	"fmt"

	"github.com/koscakluka/ema-avatar/core/audio"
	"github.com/koscakluka/ema-avatar/core/audio/miniaudio"
	"github.com/koscakluka/ema-avatar/core/audio/portaudio"
	"github.com/koscakluka/ema-avatar/core/avatar/bridge"
	"github.com/koscakluka/ema-avatar/core/llms/openai"
	"github.com/koscakluka/ema-avatar/core/speechtotext"
	"github.com/koscakluka/ema-avatar/core/speechtotext/deepgram"
	"github.com/koscakluka/ema-avatar/core/speechtotext/tencent"
	"github.com/koscakluka/ema-avatar/internal/config"
)

func newLLM(cfg *config.Config) (*openai.Client, error) {
	if err := cfg.ValidateLLM(); err != nil {
		return nil, err
	}
	return openai.NewClient(cfg.LLM.APIKey, cfg.LLM.Model,
		openai.WithBaseURL(cfg.LLM.BaseURL),
		openai.WithSystemPrompt(cfg.LLM.SystemPrompt),
	)
}

func newRecognizer(cfg *config.Config) (speechtotext.Recognizer, error) {
	if err := cfg.ValidateASR(); err != nil {
		return nil, err
	}

	if cfg.ASR.Provider == config.ASRProviderDeepgram {
		client, err := deepgram.NewClient(cfg.ASR.DeepgramAPIKey,
			deepgram.WithModel(cfg.ASR.DeepgramModel),
			deepgram.WithLanguage(cfg.ASR.DeepgramLanguage),
			deepgram.WithEndpointing(cfg.ASR.VADSilenceTime),
		)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	client, err := tencent.NewClient(cfg.ASR.AppID, cfg.ASR.SecretID, cfg.ASR.SecretKey,
		tencent.WithEngineModelType(cfg.ASR.EngineModelType),
		tencent.WithVADSilenceTime(cfg.ASR.VADSilenceTime),
	)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func newCapturer(cfg *config.Config) (audio.Capturer, error) {
	switch cfg.Audio.Backend {
	case config.AudioBackendMiniaudio:
		client, err := miniaudio.NewClient()
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.AudioBackendPortaudio:
		client, err := portaudio.NewClient(cfg.Audio.BufferSize)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("%w %q", config.ErrUnknownAudioBackend, cfg.Audio.Backend)
	}
}

func newBridge(cfg *config.Config) *bridge.Server {
	return bridge.NewServer(
		bridge.WithGatewayURL(cfg.Avatar.GatewayURL),
		bridge.WithGatewayParams(cfg.Avatar.DataSource, cfg.Avatar.CustomID),
		bridge.WithInitTimeout(cfg.Avatar.InitTimeout),
	)
}
