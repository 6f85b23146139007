package commands

import (
	"fmt"
	"strings"

	orchestration "github.com/koscakluka/ema-avatar/core"
	"github.com/spf13/cobra"
)

const consoleCredential = "console"

var askCmd = &cobra.Command{
	Use:   "ask <text>",
	Short: "Print the speak calls the avatar would receive for one reply",
	Long: `Sends text to the LLM and prints every speak call the reply is split
into, without connecting to an avatar. Useful to tune the speech settings.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		llm, err := newLLM(cfg)
		if err != nil {
			return err
		}
		settings, err := cfg.Settings()
		if err != nil {
			return err
		}
		if settings.AvatarAppID == "" || settings.AvatarAppSecret == "" {
			settings.AvatarAppID, settings.AvatarAppSecret = consoleCredential, consoleCredential
		}

		ctx := cmd.Context()
		assistant := orchestration.NewAssistant(
			orchestration.WithSettings(settings),
			orchestration.WithAvatarConnector(newConsoleAvatar(cmd.OutOrStdout())),
			orchestration.WithStreamingLLM(llm),
		)
		if err := assistant.ConnectAvatar(ctx); err != nil {
			return err
		}
		defer assistant.Close(ctx)

		remainder, err := assistant.SendMessage(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		if remainder != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "unsegmented: %s\n", remainder)
		}
		return nil
	},
}
