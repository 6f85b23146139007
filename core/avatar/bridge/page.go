package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/koscakluka/ema-avatar/core/avatar"
)

var _ avatar.Avatar = (*Page)(nil)

// Page is an avatar running in a connected browser page.
type Page struct {
	conn        *websocket.Conn
	init        initMessage
	initTimeout time.Duration

	writeMu sync.Mutex

	notifications chan avatar.Notification
	loaded        chan struct{}
	loadedOnce    sync.Once
	initErr       chan error
	closed        chan struct{}
	closeOnce     sync.Once
	done          chan struct{}
	initOnce      sync.Once

	// pending holds notifications the reader has produced but nobody has
	// consumed yet, so the reader never waits on the consumer.
	pendingMu sync.Mutex
	pending   []avatar.Notification
	wake      chan struct{}
	forwarded chan struct{}
}

func newPage(conn *websocket.Conn, init initMessage, initTimeout time.Duration) *Page {
	p := &Page{
		conn:          conn,
		init:          init,
		initTimeout:   initTimeout,
		notifications: make(chan avatar.Notification, 16),
		loaded:        make(chan struct{}),
		initErr:       make(chan error, 1),
		closed:        make(chan struct{}),
		done:          make(chan struct{}),
		wake:          make(chan struct{}, 1),
		forwarded:     make(chan struct{}),
	}
	go p.readMessages()
	go p.forwardNotifications()
	return p
}

func (p *Page) ContainerID() string { return p.init.ContainerID }

// Init sends the credentials to the page and waits until the avatar reports
// it has fully loaded, the SDK reports an error or the init timeout passes.
func (p *Page) Init(ctx context.Context) error {
	var err error
	sent := false
	p.initOnce.Do(func() {
		sent = true
		err = p.write(ctx, p.init)
	})
	if err != nil {
		return fmt.Errorf("failed to send avatar init: %w", err)
	}
	if !sent {
		select {
		case <-p.loaded:
			return nil
		default:
			return fmt.Errorf("avatar init already requested")
		}
	}

	timer := time.NewTimer(p.initTimeout)
	defer timer.Stop()

	select {
	case <-p.loaded:
		return nil
	case err := <-p.initErr:
		return err
	case <-p.done:
		return ErrPageClosed
	case <-timer.C:
		return ErrInitTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Page) Speak(ctx context.Context, envelope string, isFirst, isLast bool) error {
	return p.write(ctx, speakMessage{
		Type:    messageTypeSpeak,
		SSML:    envelope,
		IsStart: isFirst,
		IsEnd:   isLast,
	})
}

func (p *Page) Think(ctx context.Context) error {
	return p.write(ctx, commandMessage{Type: messageTypeThink})
}

// Destroy tells the page to tear the avatar down and closes the connection.
// It is safe to call more than once.
func (p *Page) Destroy(ctx context.Context) error {
	var err error
	p.closeOnce.Do(func() {
		if writeErr := p.write(ctx, commandMessage{Type: messageTypeDestroy}); writeErr != nil && !errors.Is(writeErr, ErrPageClosed) {
			err = fmt.Errorf("failed to send avatar destroy: %w", writeErr)
		}
		close(p.closed)

		p.writeMu.Lock()
		_ = p.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		p.writeMu.Unlock()
		p.conn.Close()
	})
	<-p.done
	<-p.forwarded
	return err
}

func (p *Page) Notifications() <-chan avatar.Notification {
	return p.notifications
}

func (p *Page) write(ctx context.Context, msg any) error {
	select {
	case <-p.done:
		return ErrPageClosed
	default:
	}

	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Time{}
	}
	if err := p.conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}
	if err := p.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to write to avatar page: %w", err)
	}
	return nil
}

func (p *Page) readMessages() {
	defer close(p.done)

	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			select {
			case <-p.closed:
			default:
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logger.Warn("avatar page connection lost", "error", err)
				}
				p.notify(avatar.Notification{Kind: avatar.NotificationStateChanged, State: avatar.StateDisconnected})
			}
			return
		}

		var msg pageMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warn("failed to unmarshal avatar page message", "error", err)
			continue
		}
		p.handleMessage(msg)
	}
}

func (p *Page) handleMessage(msg pageMessage) {
	switch msg.Type {
	case messageTypeProgress:
		logger.Debug("avatar loading", "progress", msg.Progress)
		if msg.Progress >= 100 {
			p.loadedOnce.Do(func() { close(p.loaded) })
		}

	case messageTypeStateChange:
		p.notify(avatar.Notification{Kind: avatar.NotificationStateChanged, State: avatar.ParseState(msg.State)})

	case messageTypeWidgetEvent:
		if msg.Event == nil {
			return
		}
		switch msg.Event.Type {
		case widgetEventSubtitleOn:
			p.notify(avatar.Notification{Kind: avatar.NotificationSubtitleOn, Text: msg.Event.Text})
		case widgetEventSubtitleOff:
			p.notify(avatar.Notification{Kind: avatar.NotificationSubtitleOff})
		}

	case messageTypeMessage:
		err := &SDKError{Message: msg.Message}
		select {
		case <-p.loaded:
			logger.Warn("avatar sdk reported an error", "error", err)
		default:
			select {
			case p.initErr <- err:
			default:
			}
		}

	case messageTypeClose:
		p.notify(avatar.Notification{Kind: avatar.NotificationStateChanged, State: avatar.StateDisconnected})

	default:
		logger.Debug("unknown avatar page message", "type", msg.Type)
	}
}

// notify queues n for delivery without blocking the reader.
func (p *Page) notify(n avatar.Notification) {
	p.pendingMu.Lock()
	p.pending = append(p.pending, n)
	p.pendingMu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *Page) takePending() []avatar.Notification {
	p.pendingMu.Lock()
	defer p.pendingMu.Unlock()
	pending := p.pending
	p.pending = nil
	return pending
}

// forwardNotifications moves queued notifications onto the public channel in
// order and closes it once the reader has stopped and the queue is drained.
// Anything still queued when the page is destroyed is dropped.
func (p *Page) forwardNotifications() {
	defer close(p.forwarded)
	defer close(p.notifications)

	deliver := func(pending []avatar.Notification) bool {
		for _, n := range pending {
			select {
			case p.notifications <- n:
			case <-p.closed:
				return false
			}
		}
		return true
	}

	for {
		select {
		case <-p.wake:
			if !deliver(p.takePending()) {
				return
			}
		case <-p.done:
			deliver(p.takePending())
			return
		}
	}
}
