package config

import (
	"fmt"

	"github.com/jinzhu/copier"
	orchestration "github.com/koscakluka/ema-avatar/core"
)

// Settings converts the configuration into what the assistant needs at
// runtime.
func (c *Config) Settings() (orchestration.Settings, error) {
	settings := orchestration.DefaultSettings()
	if err := copier.Copy(&settings, &c.Speech); err != nil {
		return orchestration.Settings{}, fmt.Errorf("failed to copy speech settings: %w", err)
	}
	settings.AvatarAppID = c.Avatar.AppID
	settings.AvatarAppSecret = c.Avatar.AppSecret
	return settings, nil
}
