package orchestration

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"sync"

	"github.com/koscakluka/ema-avatar/core/avatar"
	"github.com/koscakluka/ema-avatar/core/events"
	"github.com/koscakluka/ema-avatar/core/llms"
	"go.opentelemetry.io/otel/codes"
)

// Assistant owns the avatar connection and the conversation around it. It
// is the only writer of the avatar's liveness; everything else observes it
// through Liveness or the event bus.
type Assistant struct {
	settings  Settings
	connector avatar.Connector

	llm          llm
	speechToText *speechToText
	audioInput   *audioInput

	bus      *events.Bus
	liveness *avatar.Liveness

	// connectMu allows one avatar connection attempt at a time.
	connectMu sync.Mutex

	mu                sync.Mutex
	avatar            avatar.Avatar
	notificationsDone chan struct{}
	subtitle          string
	cancelReply       context.CancelFunc

	// replyMu keeps replies from interleaving their speak calls.
	replyMu sync.Mutex
	voiceMu sync.Mutex
}

func NewAssistant(opts ...AssistantOption) *Assistant {
	a := &Assistant{
		settings: DefaultSettings(),
		bus:      events.NewBus(),
		liveness: avatar.NewLiveness(),
	}
	a.speechToText = newSpeechToText(nil)
	a.audioInput = newAudioInput(nil, func(audio []byte) {
		if err := a.speechToText.SendAudio(audio); err != nil {
			logger.Debug("dropped captured audio", "error", err)
		}
	})

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// ConnectAvatar connects and loads the avatar with the configured
// credentials. It is a no-op when an avatar is already connected.
func (a *Assistant) ConnectAvatar(ctx context.Context) error {
	if a.settings.AvatarAppID == "" || a.settings.AvatarAppSecret == "" {
		return ErrMissingAvatarCredentials
	}
	if a.connector == nil {
		return ErrAvatarConnectorMissing
	}

	a.connectMu.Lock()
	defer a.connectMu.Unlock()
	if a.IsConnected() {
		return nil
	}

	ctx, span := tracer.Start(ctx, "connect avatar")
	defer span.End()

	instance, err := a.connector.Connect(ctx, avatar.Credentials{
		AppID:     a.settings.AvatarAppID,
		AppSecret: a.settings.AvatarAppSecret,
	})
	if err != nil {
		err = fmt.Errorf("failed to connect avatar: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	done := make(chan struct{})
	a.mu.Lock()
	a.avatar = instance
	a.notificationsDone = done
	a.mu.Unlock()

	go a.watchNotifications(instance, done)

	logger.InfoContext(ctx, "avatar connected")
	a.bus.Publish(events.NewAvatarConnected())
	return nil
}

// DisconnectAvatar destroys the connected avatar, if any, and resets its
// liveness.
func (a *Assistant) DisconnectAvatar(ctx context.Context) error {
	a.mu.Lock()
	instance, done := a.avatar, a.notificationsDone
	a.avatar, a.notificationsDone = nil, nil
	a.mu.Unlock()

	if instance == nil {
		return nil
	}

	err := instance.Destroy(ctx)
	<-done

	a.setSubtitle("")
	a.liveness.Set(avatar.StateDisconnected)
	a.bus.Publish(events.NewAvatarDisconnected())

	if err != nil {
		return fmt.Errorf("failed to destroy avatar: %w", err)
	}
	return nil
}

// watchNotifications forwards what the avatar reports until its
// notifications are closed.
func (a *Assistant) watchNotifications(instance avatar.Avatar, done chan struct{}) {
	defer close(done)

	for n := range instance.Notifications() {
		switch n.Kind {
		case avatar.NotificationStateChanged:
			a.liveness.Set(n.State)
			a.bus.Publish(events.NewAvatarStateChanged(n.State))
		case avatar.NotificationSubtitleOn:
			a.setSubtitle(n.Text)
			a.bus.Publish(events.NewAvatarSubtitleOn(n.Text))
		case avatar.NotificationSubtitleOff:
			a.setSubtitle("")
			a.bus.Publish(events.NewAvatarSubtitleOff())
		}
	}

	// The avatar went away without DisconnectAvatar.
	a.mu.Lock()
	lost := a.avatar == instance
	if lost {
		a.avatar, a.notificationsDone = nil, nil
	}
	a.mu.Unlock()

	if lost {
		logger.Warn("avatar connection lost")
		a.setSubtitle("")
		a.liveness.Set(avatar.StateDisconnected)
		a.bus.Publish(events.NewAvatarDisconnected())
	}
}

// SendMessage asks the LLM to reply to text and has the avatar speak the
// reply as it streams in. It returns the part of the reply that was never
// segmented.
func (a *Assistant) SendMessage(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyMessage
	}
	instance := a.currentAvatar()
	if instance == nil {
		return "", ErrAvatarNotConnected
	}
	if !a.llm.isConfigured() {
		return "", ErrLLMNotConfigured
	}

	ctx, span := tracer.Start(ctx, "send message")
	defer span.End()

	a.replyMu.Lock()
	defer a.replyMu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	a.mu.Lock()
	a.cancelReply = cancel
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.cancelReply = nil
		a.mu.Unlock()
		cancel()
	}()

	remainder, err := a.reply(ctx, instance, text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		a.bus.Publish(events.NewAssistantResponseFailed(err))
		return remainder, err
	}

	a.bus.Publish(events.NewAssistantResponseFinal(remainder))
	return remainder, nil
}

func (a *Assistant) reply(ctx context.Context, instance avatar.Avatar, text string) (string, error) {
	stream, err := a.llm.openStream(ctx, text)
	if err != nil {
		return "", err
	}

	gate := NewReadinessGate(a.liveness, instance, a.settings.SettleDelay)
	if err := gate.EnsureReady(ctx); err != nil {
		return "", err
	}

	opts := append(a.settings.dispatchOptions(), WithFragmentCallback(func(f Fragment) {
		a.bus.Publish(events.NewAssistantSpeechFragmentDispatched(f.Text, f.IsFirst, f.IsLast))
	}))
	return DispatchReply(ctx, instance, a.publishSegments(llms.Contents(ctx, stream)), opts...)
}

// publishSegments publishes every token of tokens as it passes through.
func (a *Assistant) publishSegments(tokens iter.Seq2[string, error]) iter.Seq2[string, error] {
	if tokens == nil {
		return nil
	}
	return func(yield func(string, error) bool) {
		for token, err := range tokens {
			if err == nil {
				a.bus.Publish(events.NewAssistantResponseSegment(token))
			}
			if !yield(token, err) {
				return
			}
		}
	}
}

func (a *Assistant) currentAvatar() avatar.Avatar {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.avatar
}

func (a *Assistant) setSubtitle(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.subtitle = text
}

func (a *Assistant) IsConnected() bool { return a.currentAvatar() != nil }

func (a *Assistant) IsListening() bool { return a.audioInput.IsCapturing() }

func (a *Assistant) Liveness() avatar.LivenessObserver { return a.liveness }

// Subtitle is the text the avatar is currently showing.
func (a *Assistant) Subtitle() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.subtitle
}

func (a *Assistant) Events() *events.Bus { return a.bus }

func (a *Assistant) Settings() Settings { return a.settings }

// Close stops voice input and disconnects the avatar.
func (a *Assistant) Close(ctx context.Context) error {
	return errors.Join(
		a.StopVoiceInput(ctx),
		a.audioInput.Close(),
		a.DisconnectAvatar(ctx),
	)
}
