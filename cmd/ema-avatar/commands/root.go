package commands

import (
	"github.com/koscakluka/ema-avatar/internal/config"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "ema-avatar",
	Short: "Talk to a 3D avatar backed by a streaming LLM",
	Long: `ema-avatar streams LLM replies to a 3D avatar sentence by sentence.

Configuration is read from the file given with --config and can be
overridden with EMA_AVATAR_ environment variables, for example
EMA_AVATAR_LLM_API_KEY or EMA_AVATAR_AVATAR_APP_SECRET.

Run 'ema-avatar config schema' for the full list of settings.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "ema-avatar.yaml", "configuration file")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(configCmd)
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}
