package tencent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"
	"github.com/koscakluka/ema-avatar/core/audio"
	"github.com/koscakluka/ema-avatar/core/speechtotext"
)

const (
	testAppID     = "1259228442"
	testSecretID  = "AKIDtest"
	testSecretKey = "secret"
)

type recorder struct {
	mu     sync.Mutex
	events []string
	errs   []error
}

func (r *recorder) add(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) options() []speechtotext.RecognitionOption {
	return []speechtotext.RecognitionOption{
		speechtotext.WithRecognitionStartCallback(func() { r.add("start") }),
		speechtotext.WithSentenceBeginCallback(func() { r.add("begin") }),
		speechtotext.WithRecognitionResultChangeCallback(func(s string) { r.add("change:" + s) }),
		speechtotext.WithSentenceEndCallback(func(s string) { r.add("end:" + s) }),
		speechtotext.WithRecognitionCompleteCallback(func() { r.add("complete") }),
		speechtotext.WithErrorCallback(func(err error) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.errs = append(r.errs, err)
		}),
	}
}

func (r *recorder) snapshot() ([]string, []error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...), append([]error(nil), r.errs...)
}

func slice(sliceType int, text string) string {
	return fmt.Sprintf(`{"code":0,"message":"success","voice_id":"v","result":{"slice_type":%d,"index":0,"voice_text_str":%q},"final":0}`, sliceType, text)
}

func newFakeService(t *testing.T, handle func(t *testing.T, r *http.Request, conn *websocket.Conn)) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()
		handle(t, r, conn)
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(testAppID, testSecretID, testSecretKey,
		WithEndpoint("ws"+strings.TrimPrefix(server.URL, "http")+"/asr/v2/"))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient(testAppID, "", testSecretKey); err == nil {
		t.Fatalf("expected error for missing secret id")
	}
}

func TestRecognizeReportsSentenceLifecycle(t *testing.T) {
	server := newFakeService(t, func(t *testing.T, r *http.Request, conn *websocket.Conn) {
		query := r.URL.Query()
		params := map[string]string{}
		for key := range query {
			if key != "signature" {
				params[key] = query.Get(key)
			}
		}
		if want := Sign(testSecretKey, signingString(r.Host, r.URL.Path, params)); query.Get("signature") != want {
			t.Errorf("signature mismatch")
		}
		if r.URL.Path != "/asr/v2/"+testAppID {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if query.Get("engine_model_type") != DefaultEngineModelType || query.Get("voice_format") != "1" {
			t.Errorf("unexpected recognition params %v", query)
		}

		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"code":0,"message":"success","voice_id":"v"}`))

		msgType, _, err := conn.ReadMessage()
		if err != nil || msgType != websocket.BinaryMessage {
			t.Errorf("expected audio frame, got %d (%v)", msgType, err)
			return
		}
		for _, msg := range []string{slice(0, "你"), slice(1, "你好"), slice(2, "你好。")} {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(msg))
		}

		_, msg, err := conn.ReadMessage()
		if err != nil || string(msg) != `{"type":"end"}` {
			t.Errorf("expected end request, got %q (%v)", msg, err)
			return
		}
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"code":0,"message":"success","voice_id":"v","final":1}`))
	})
	client := newTestClient(t, server)
	rec := &recorder{}

	if err := client.Recognize(context.Background(), rec.options()...); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := client.Recognize(context.Background()); !errors.Is(err, speechtotext.ErrAlreadyRecognizing) {
		t.Fatalf("expected already recognizing error, got %v", err)
	}
	if err := client.SendAudio(make([]byte, 320)); err != nil {
		t.Fatalf("unexpected send error: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Stop(ctx); err != nil {
		t.Fatalf("unexpected stop error: %v", err)
	}

	events, errs := rec.snapshot()
	want := []string{"start", "begin", "change:你", "change:你好", "end:你好。", "complete"}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Fatalf("unexpected events (-want +got):\n%s", diff)
	}
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if err := client.SendAudio([]byte{0}); !errors.Is(err, speechtotext.ErrNotRecognizing) {
		t.Fatalf("expected not recognizing after stop, got %v", err)
	}
}

func TestRecognizeReportsServiceError(t *testing.T) {
	server := newFakeService(t, func(t *testing.T, r *http.Request, conn *websocket.Conn) {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"code":4002,"message":"鉴权失败","voice_id":"v"}`))
		_, _, _ = conn.ReadMessage()
	})
	client := newTestClient(t, server)
	rec := &recorder{}
	failed := make(chan struct{})

	opts := append(rec.options(), speechtotext.WithErrorCallback(func(err error) {
		rec.mu.Lock()
		rec.errs = append(rec.errs, err)
		rec.mu.Unlock()
		close(failed)
	}))
	if err := client.Recognize(context.Background(), opts...); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case <-failed:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for error callback")
	}

	_, errs := rec.snapshot()
	var serviceErr *Error
	if len(errs) != 1 || !errors.As(errs[0], &serviceErr) || serviceErr.Code != 4002 {
		t.Fatalf("expected service error 4002, got %v", errs)
	}
}

func TestRecognizeRejectsUnsupportedEncoding(t *testing.T) {
	opts := speechtotext.NewRecognitionOptions()
	opts.EncodingInfo.SampleRate = 44100
	if _, err := convertEncoding(opts.EncodingInfo); err == nil {
		t.Fatalf("expected unsupported sample rate error")
	}

	opts.EncodingInfo = audio.EncodingInfo{SampleRate: 8000, Format: audio.EncodingMulaw}
	if _, err := convertEncoding(opts.EncodingInfo); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestStopWithoutRecognition(t *testing.T) {
	client, _ := NewClient(testAppID, testSecretID, testSecretKey)
	if err := client.Stop(context.Background()); !errors.Is(err, speechtotext.ErrNotRecognizing) {
		t.Fatalf("expected not recognizing error, got %v", err)
	}
}

func awaitSessionEnd(t *testing.T, client *Client) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if err := client.SendAudio([]byte{0}); errors.Is(err, speechtotext.ErrNotRecognizing) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for session to end")
}

func TestRecognizeCancelledContextReportsNoError(t *testing.T) {
	server := newFakeService(t, func(t *testing.T, r *http.Request, conn *websocket.Conn) {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"code":0,"message":"success","voice_id":"v"}`))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	client := newTestClient(t, server)
	rec := &recorder{}

	ctx, cancel := context.WithCancel(context.Background())
	if err := client.Recognize(ctx, rec.options()...); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	cancel()
	awaitSessionEnd(t, client)

	if _, errs := rec.snapshot(); len(errs) != 0 {
		t.Fatalf("expected no errors after cancellation, got %v", errs)
	}
}

func TestStopTimeoutReportsNoError(t *testing.T) {
	server := newFakeService(t, func(t *testing.T, r *http.Request, conn *websocket.Conn) {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	client := newTestClient(t, server)
	rec := &recorder{}

	if err := client.Recognize(context.Background(), rec.options()...); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := client.Stop(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	if _, errs := rec.snapshot(); len(errs) != 0 {
		t.Fatalf("expected no errors after stop, got %v", errs)
	}
}
