package commands

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/koscakluka/ema-avatar/core/avatar"
)

// consoleAvatar prints every call it receives instead of rendering it.
type consoleAvatar struct {
	w io.Writer

	mu            sync.Mutex
	notifications chan avatar.Notification
	destroyed     bool
}

func newConsoleAvatar(w io.Writer) *consoleAvatar {
	return &consoleAvatar{w: w, notifications: make(chan avatar.Notification)}
}

func (a *consoleAvatar) Connect(context.Context, avatar.Credentials) (avatar.Avatar, error) {
	return a, nil
}

func (a *consoleAvatar) Init(context.Context) error { return nil }

func (a *consoleAvatar) Speak(_ context.Context, envelope string, isFirst, isLast bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, err := fmt.Fprintf(a.w, "speak first=%t last=%t %s\n", isFirst, isLast, envelope)
	return err
}

func (a *consoleAvatar) Think(context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, err := fmt.Fprintln(a.w, "think")
	return err
}

func (a *consoleAvatar) Destroy(context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.destroyed {
		a.destroyed = true
		close(a.notifications)
	}
	return nil
}

func (a *consoleAvatar) Notifications() <-chan avatar.Notification { return a.notifications }

var (
	_ avatar.Avatar    = (*consoleAvatar)(nil)
	_ avatar.Connector = (*consoleAvatar)(nil)
)
