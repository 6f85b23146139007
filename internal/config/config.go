// Package config loads the ema-avatar configuration. Values start from the
// defaults, are overridden by the YAML file and finally by EMA_AVATAR_
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	orchestration "github.com/koscakluka/ema-avatar/core"
	"github.com/koscakluka/ema-avatar/core/avatar/bridge"
	"github.com/koscakluka/ema-avatar/core/llms/openai"
	"github.com/koscakluka/ema-avatar/core/segmentation"
	"github.com/koscakluka/ema-avatar/core/speechtotext/deepgram"
	"github.com/koscakluka/ema-avatar/core/speechtotext/tencent"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "EMA_AVATAR"

const (
	ASRProviderTencent  = "tx"
	ASRProviderDeepgram = "deepgram"

	AudioBackendMiniaudio = "miniaudio"
	AudioBackendPortaudio = "portaudio"
)

type Config struct {
	Avatar AvatarConfig `yaml:"avatar" env:"AVATAR"`
	ASR    ASRConfig    `yaml:"asr" env:"ASR"`
	LLM    LLMConfig    `yaml:"llm" env:"LLM"`
	Speech SpeechConfig `yaml:"speech" env:"SPEECH"`
	Audio  AudioConfig  `yaml:"audio" env:"AUDIO"`
}

type AvatarConfig struct {
	AppID       string        `yaml:"app_id" env:"APP_ID"`
	AppSecret   string        `yaml:"app_secret" env:"APP_SECRET"`
	GatewayURL  string        `yaml:"gateway_url" env:"GATEWAY_URL" jsonschema:"format=uri"`
	DataSource  string        `yaml:"data_source" env:"DATA_SOURCE"`
	CustomID    string        `yaml:"custom_id" env:"CUSTOM_ID"`
	InitTimeout time.Duration `yaml:"init_timeout" env:"INIT_TIMEOUT" jsonschema:"type=string,description=Go duration such as 3s"`
	// BridgeAddr is where the page hosting the avatar SDK connects to.
	BridgeAddr string `yaml:"bridge_addr" env:"BRIDGE_ADDR"`
}

type ASRConfig struct {
	Provider string `yaml:"provider" env:"PROVIDER" jsonschema:"enum=tx,enum=deepgram"`

	AppID           string `yaml:"app_id" env:"APP_ID"`
	SecretID        string `yaml:"secret_id" env:"SECRET_ID"`
	SecretKey       string `yaml:"secret_key" env:"SECRET_KEY"`
	EngineModelType string `yaml:"engine_model_type" env:"ENGINE_MODEL_TYPE"`
	VADSilenceTime  int    `yaml:"vad_silence_time" env:"VAD_SILENCE_TIME" jsonschema:"minimum=0"`

	DeepgramAPIKey   string `yaml:"deepgram_api_key" env:"DEEPGRAM_API_KEY"`
	DeepgramModel    string `yaml:"deepgram_model" env:"DEEPGRAM_MODEL"`
	DeepgramLanguage string `yaml:"deepgram_language" env:"DEEPGRAM_LANGUAGE"`
}

type LLMConfig struct {
	Model        string `yaml:"model" env:"MODEL"`
	APIKey       string `yaml:"api_key" env:"API_KEY"`
	BaseURL      string `yaml:"base_url" env:"BASE_URL" jsonschema:"format=uri"`
	SystemPrompt string `yaml:"system_prompt" env:"SYSTEM_PROMPT"`
}

// SpeechConfig tunes how replies are split and spoken. Field names follow
// orchestration.Settings so the two can be copied into each other.
type SpeechConfig struct {
	Pitch               float64       `yaml:"pitch" env:"PITCH"`
	Speed               float64       `yaml:"speed" env:"SPEED"`
	Volume              float64       `yaml:"volume" env:"VOLUME"`
	SettleDelay         time.Duration `yaml:"settle_delay" env:"SETTLE_DELAY" jsonschema:"type=string,description=Go duration such as 2s"`
	MinSplitUnits       int           `yaml:"min_split_units" env:"MIN_SPLIT_UNITS" jsonschema:"minimum=1"`
	MaxSplitUnits       int           `yaml:"max_split_units" env:"MAX_SPLIT_UNITS" jsonschema:"minimum=1"`
	FlushWholeRemainder bool          `yaml:"flush_whole_remainder" env:"FLUSH_WHOLE_REMAINDER"`
}

type AudioConfig struct {
	Backend    string `yaml:"backend" env:"BACKEND" jsonschema:"enum=miniaudio,enum=portaudio"`
	BufferSize int    `yaml:"buffer_size" env:"BUFFER_SIZE" jsonschema:"minimum=1"`
}

func Default() *Config {
	settings := orchestration.DefaultSettings()
	return &Config{
		Avatar: AvatarConfig{
			GatewayURL:  bridge.DefaultGatewayURL,
			DataSource:  bridge.DefaultDataSource,
			CustomID:    bridge.DefaultCustomID,
			InitTimeout: bridge.DefaultInitTimeout,
			BridgeAddr:  "127.0.0.1:8787",
		},
		ASR: ASRConfig{
			Provider:         ASRProviderTencent,
			EngineModelType:  tencent.DefaultEngineModelType,
			VADSilenceTime:   tencent.DefaultVADSilenceTime,
			DeepgramModel:    deepgram.DefaultModel,
			DeepgramLanguage: deepgram.DefaultLanguage,
		},
		LLM: LLMConfig{
			Model:        openai.DefaultModel,
			BaseURL:      openai.DefaultBaseURL,
			SystemPrompt: openai.DefaultSystemPrompt,
		},
		Speech: SpeechConfig{
			Pitch:         settings.Pitch,
			Speed:         settings.Speed,
			Volume:        settings.Volume,
			SettleDelay:   settings.SettleDelay,
			MinSplitUnits: segmentation.MinSplitLength,
			MaxSplitUnits: segmentation.MaxSplitLength,
		},
		Audio: AudioConfig{
			Backend:    AudioBackendMiniaudio,
			BufferSize: 480,
		},
	}
}

// Load reads the configuration at path over the defaults and applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if err := applyEnv(cfg, EnvPrefix, os.LookupEnv); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	return cfg, nil
}
