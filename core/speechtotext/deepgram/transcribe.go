package deepgram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	api "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/websocket/interfaces"
	"github.com/gorilla/websocket"
	"github.com/koscakluka/ema-avatar/core/audio"
	"github.com/koscakluka/ema-avatar/core/speechtotext"
	"github.com/koscakluka/ema-avatar/internal/utils"
	"go.opentelemetry.io/otel/codes"
)

// Recognize opens a live transcription session. Callbacks are invoked from a
// single goroutine in the order messages arrive.
func (s *Client) Recognize(ctx context.Context, opts ...speechtotext.RecognitionOption) error {
	ctx, span := tracer.Start(ctx, "transcribe")
	defer span.End()

	options := speechtotext.NewRecognitionOptions(opts...)
	encoding, err := convertEncoding(options.EncodingInfo)
	if err != nil {
		return fmt.Errorf("invalid encoding: %w", err)
	}

	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.conn != nil {
		return speechtotext.ErrAlreadyRecognizing
	}

	conn, err := s.connectWebsocket(ctx, encoding)
	if err != nil {
		err = fmt.Errorf("failed to open websocket: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	done := make(chan struct{})
	s.conn = conn
	s.done = done
	s.lastMsgTs = time.Now()
	go s.readAndProcessMessages(ctx, conn, options, done)

	return nil
}

func (s *Client) connectWebsocket(ctx context.Context, encoding listenEncoding) (*websocket.Conn, error) {
	listenUrl, err := url.Parse(s.options.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid deepgram endpoint: %w", err)
	}
	queryParams := listenUrl.Query()
	encoding.apply(queryParams)
	queryParams.Set("model", s.options.Model)
	queryParams.Set("language", s.options.Language)
	queryParams.Set("smart_format", "true")
	queryParams.Set("punctuate", "true")
	queryParams.Set("interim_results", "true")
	queryParams.Set("utterance_end_ms", "1000")
	queryParams.Set("endpointing", strconv.Itoa(s.options.EndpointingMs))
	queryParams.Set("vad_events", "true")

	listenUrl.RawQuery = queryParams.Encode()
	conn, _, err := s.options.Dialer.DialContext(ctx, listenUrl.String(),
		http.Header{"Authorization": {"Token " + s.apiKey}})
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}

	return conn, nil
}

func (s *Client) sendKeepAlive() {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.conn == nil {
		return
	}

	if err := s.conn.WriteJSON(
		struct {
			Type string `json:"type"`
		}{
			Type: "KeepAlive",
		}); err != nil {
		logger.Warn("failed to write keep alive to deepgram", "error", err)
	}
}

func (s *Client) SendAudio(audio []byte) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.conn == nil {
		return speechtotext.ErrNotRecognizing
	}

	s.lastMsgTs = time.Now()
	if err := s.conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
		return fmt.Errorf("failed to write to deepgram client: %w", err)
	}
	return nil
}

func (s *Client) sendSilence(audio []byte) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.conn == nil {
		return speechtotext.ErrNotRecognizing
	}

	if err := s.conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
		return fmt.Errorf("failed to write to deepgram client: %w", err)
	}
	return nil
}

func (s *Client) sinceLastMessage() time.Duration {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	return time.Since(s.lastMsgTs)
}

// Stop asks Deepgram to flush pending results and waits for the session to
// close.
func (s *Client) Stop(ctx context.Context) error {
	s.connMu.Lock()
	conn, done := s.conn, s.done
	if conn == nil {
		s.connMu.Unlock()
		return speechtotext.ErrNotRecognizing
	}
	err := conn.WriteJSON(struct {
		Type string `json:"type"`
	}{Type: string(api.TypeCloseStreamResponse)})
	s.connMu.Unlock()
	if err != nil {
		conn.Close()
		<-done
		return fmt.Errorf("failed to close deepgram stream through websocket: %w", err)
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		conn.Close()
		<-done
		return ctx.Err()
	}
}

func (s *Client) readAndProcessMessages(ctx context.Context, conn *websocket.Conn, options speechtotext.RecognitionOptions, done chan struct{}) {
	silenceCtx, silenceCancel := context.WithCancel(ctx)
	defer func() {
		silenceCancel()
		conn.Close()
		s.connMu.Lock()
		if s.conn == conn {
			s.conn = nil
			s.done = nil
		}
		s.connMu.Unlock()
		close(done)
	}()

	go s.generateSilence(silenceCtx, options.EncodingInfo)
	go func() {
		<-silenceCtx.Done()
		conn.Close()
	}()

	session := newSession(options)
	options.RecognitionStartCallback()
	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				session.complete()
			} else if ctx.Err() == nil {
				options.ErrorCallback(fmt.Errorf("failed to read deepgram websocket message: %w", err))
			}
			return
		}
		if msgType != websocket.BinaryMessage {
			session.processMessage(msg)
		}
	}
}

// session tracks the sentence being recognized. It is only used from the
// reading goroutine.
type session struct {
	options               speechtotext.RecognitionOptions
	accumulatedTranscript string
	unendedSegment        bool
}

func newSession(options speechtotext.RecognitionOptions) *session {
	return &session{options: options}
}

func (s *session) processMessage(msg []byte) {
	var parsedMsg struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(msg, &parsedMsg); err != nil {
		logger.Warn("failed to unmarshal deepgram message", "error", err)
		return
	}

	switch api.TypeResponse(parsedMsg.Type) {
	case api.TypeMessageResponse:
		var msgResp api.MessageResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			logger.Warn("failed to unmarshal deepgram message", "error", err)
			return
		}

		transcript := ""
		if len(msgResp.Channel.Alternatives) > 0 {
			transcript = strings.TrimSpace(msgResp.Channel.Alternatives[0].Transcript)
		}
		if len(transcript) > 0 {
			s.beginSegment()
			if msgResp.IsFinal {
				s.accumulatedTranscript = joinTranscript(s.accumulatedTranscript, transcript)
				s.options.RecognitionResultChangeCallback(s.accumulatedTranscript)
			} else {
				s.options.RecognitionResultChangeCallback(joinTranscript(s.accumulatedTranscript, transcript))
			}
		}
		if msgResp.IsFinal && msgResp.SpeechFinal {
			s.onSpeechEnded()
		}

	case api.TypeUtteranceEndResponse:
		if s.unendedSegment {
			s.onSpeechEnded()
		}

	case api.TypeSpeechStartedResponse:
		s.beginSegment()
	}
}

func (s *session) beginSegment() {
	if s.unendedSegment {
		return
	}
	s.unendedSegment = true
	s.options.SentenceBeginCallback()
}

func (s *session) onSpeechEnded() {
	s.unendedSegment = false
	fullTranscript := strings.TrimSpace(s.accumulatedTranscript)
	s.accumulatedTranscript = ""
	if len(fullTranscript) > 0 {
		s.options.SentenceEndCallback(fullTranscript)
	}
}

func (s *session) complete() {
	if s.unendedSegment {
		s.onSpeechEnded()
	}
	s.options.RecognitionCompleteCallback()
}

func joinTranscript(accumulated, transcript string) string {
	if accumulated == "" {
		return transcript
	}
	return accumulated + " " + transcript
}

// generateSilence keeps the connection open while no audio is sent, first
// with a second of silence so pending speech is finalized and then with
// periodic keep alive messages.
func (s *Client) generateSilence(ctx context.Context, encoding audio.EncodingInfo) {
	type silenceGeneratorState string
	const (
		silenceGeneratorStateWaiting   silenceGeneratorState = "waiting"
		silenceGeneratorStateSilence   silenceGeneratorState = "silence"
		silenceGeneratorStateKeepAlive silenceGeneratorState = "keepAlive"
	)

	const duration = 50 * time.Millisecond
	ticker := time.NewTicker(duration)
	defer ticker.Stop()

	chunk := encoding.Silence(duration)

	var state = silenceGeneratorStateWaiting
	var firstSilenceTime *time.Time
	var lastKeepAliveTime *time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sinceLastMessage := s.sinceLastMessage()
			switch state {
			case silenceGeneratorStateWaiting:
				if sinceLastMessage > duration {
					state = silenceGeneratorStateSilence
					firstSilenceTime = utils.Ptr(time.Now())
					continue
				}

			case silenceGeneratorStateSilence:
				if sinceLastMessage < duration {
					state = silenceGeneratorStateWaiting
					firstSilenceTime = nil
					continue
				}
				if time.Since(*firstSilenceTime) >= time.Second {
					state = silenceGeneratorStateKeepAlive
					lastKeepAliveTime = utils.Ptr(time.Now())
					firstSilenceTime = nil
					continue
				}

				if err := s.sendSilence(chunk); err != nil {
					logger.Warn("failed to send silence to deepgram", "error", err)
				}

			case silenceGeneratorStateKeepAlive:
				if sinceLastMessage < duration {
					state = silenceGeneratorStateWaiting
					continue
				}

				if time.Since(*lastKeepAliveTime) >= 5*time.Second {
					lastKeepAliveTime = utils.Ptr(time.Now())
					s.sendKeepAlive()
				}
			}
		}
	}
}
