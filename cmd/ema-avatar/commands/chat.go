package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	orchestration "github.com/koscakluka/ema-avatar/core"
	"github.com/koscakluka/ema-avatar/core/events"
	"github.com/spf13/cobra"
)

const bridgePath = "/bridge"

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the avatar from the terminal",
	Long: `Starts the bridge the avatar page connects to and opens a chat screen.
Typed messages and, when speech recognition is configured, recognized
speech are answered by the avatar.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.ValidateAvatar(); err != nil {
			return err
		}
		if err := cfg.ValidateSpeech(); err != nil {
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

		server := newBridge(cfg)
		opts := []orchestration.AssistantOption{
			orchestration.WithSettings(settings),
			orchestration.WithAvatarConnector(server),
			orchestration.WithStreamingLLM(llm),
		}

		if recognizer, err := newRecognizer(cfg); err != nil {
			log.Printf("Voice input disabled: %v", err)
		} else if capturer, err := newCapturer(cfg); err != nil {
			log.Printf("Voice input disabled: %v", err)
		} else {
			opts = append(opts,
				orchestration.WithSpeechToTextClient(recognizer),
				orchestration.WithAudioInput(capturer),
			)
		}

		listener, err := net.Listen("tcp", cfg.Avatar.BridgeAddr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", cfg.Avatar.BridgeAddr, err)
		}
		mux := http.NewServeMux()
		mux.Handle(bridgePath, server)
		httpServer := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Bridge server stopped: %v", err)
			}
		}()
		log.Printf("Waiting for the avatar page on ws://%s%s", listener.Addr(), bridgePath)

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		assistant := orchestration.NewAssistant(opts...)
		program := tea.NewProgram(newChatModel(ctx, assistant))
		unsubscribe := assistant.Events().Subscribe(func(event events.Event) {
			program.Send(eventMsg{event: event})
		})

		_, runErr := program.Run()
		unsubscribe()
		cancel()

		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		return errors.Join(
			runErr,
			assistant.Close(shutdownCtx),
			httpServer.Shutdown(shutdownCtx),
		)
	},
}
