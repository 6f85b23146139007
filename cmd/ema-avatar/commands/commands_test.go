package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/koscakluka/ema-avatar/core/ssml"
	"github.com/koscakluka/ema-avatar/internal/config"
)

func TestConsoleAvatarPrintsCalls(t *testing.T) {
	var out bytes.Buffer
	a := newConsoleAvatar(&out)

	if err := a.Think(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.Speak(context.Background(), "<speak>hi</speak>", true, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "think\nspeak first=true last=false <speak>hi</speak>\n"
	if out.String() != want {
		t.Fatalf("expected %q, got %q", want, out.String())
	}
}

func TestConsoleAvatarDestroyClosesNotifications(t *testing.T) {
	a := newConsoleAvatar(&bytes.Buffer{})
	for range 2 {
		if err := a.Destroy(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, ok := <-a.Notifications(); ok {
		t.Fatalf("expected notifications to be closed")
	}
}

func TestMaskedHidesSecrets(t *testing.T) {
	cfg := config.Default()
	cfg.Avatar.AppID = "app"
	cfg.Avatar.AppSecret = "secret"
	cfg.LLM.APIKey = "sk"

	got := masked(*cfg)
	if got.Avatar.AppSecret != "****" || got.LLM.APIKey != "****" {
		t.Fatalf("expected secrets to be masked, got %+v", got)
	}
	if got.Avatar.AppID != "app" {
		t.Fatalf("expected app id to be kept, got %q", got.Avatar.AppID)
	}
	if got.ASR.SecretKey != "" {
		t.Fatalf("expected empty secret to stay empty, got %q", got.ASR.SecretKey)
	}
	if cfg.LLM.APIKey != "sk" {
		t.Fatalf("expected original config to be untouched")
	}
}

func TestBuildersValidateConfig(t *testing.T) {
	cfg := config.Default()

	if _, err := newLLM(cfg); !errors.Is(err, config.ErrMissingLLMKey) {
		t.Fatalf("expected missing llm key, got %v", err)
	}
	if _, err := newRecognizer(cfg); !errors.Is(err, config.ErrMissingASRCredentials) {
		t.Fatalf("expected missing asr credentials, got %v", err)
	}

	cfg.Audio.Backend = "alsa"
	if _, err := newCapturer(cfg); !errors.Is(err, config.ErrUnknownAudioBackend) {
		t.Fatalf("expected unknown audio backend, got %v", err)
	}
}

func TestNewRecognizerSelectsProvider(t *testing.T) {
	cfg := config.Default()
	cfg.ASR.Provider = config.ASRProviderDeepgram
	cfg.ASR.DeepgramAPIKey = "key"

	recognizer, err := newRecognizer(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := fmt.Sprintf("%T", recognizer); got != "*deepgram.Client" {
		t.Fatalf("expected deepgram client, got %s", got)
	}

	cfg.ASR.Provider = config.ASRProviderTencent
	cfg.ASR.AppID, cfg.ASR.SecretID, cfg.ASR.SecretKey = "app", "id", "key"
	recognizer, err = newRecognizer(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := fmt.Sprintf("%T", recognizer); got != "*tencent.Client" {
		t.Fatalf("expected tencent client, got %s", got)
	}
}

func TestAskPrintsSpeakCalls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, content := range []string{"你好", "，", "世界"} {
			fmt.Fprintf(w, "data: {\"id\":\"c1\",\"object\":\"chat.completion.chunk\",\"created\":1,\"model\":\"m\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n", content)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := strings.Join([]string{
		"llm:",
		"  api_key: test-key",
		"  base_url: " + server.URL,
		"speech:",
		"  settle_delay: 1ms",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--config", path, "ask", "打个招呼"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"speak first=true last=false " + ssml.Speak("你好，"),
		"speak first=false last=false " + ssml.Speak("世"),
		"speak first=false last=true " + ssml.Speak(""),
		"unsegmented: 世界",
	}
	got := strings.Split(strings.TrimSpace(out.String()), "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected output (-want +got):\n%s", diff)
	}
}
