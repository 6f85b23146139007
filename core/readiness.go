package orchestration

import (
	"context"
	"fmt"
	"time"

	"github.com/koscakluka/ema-avatar/core/avatar"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// DefaultSettleDelay is how long a speaking avatar is given to wind down
// after being interrupted.
const DefaultSettleDelay = 2000 * time.Millisecond

// ReadinessGate makes sure the avatar is not in the middle of an utterance
// before a new reply starts. It is best effort: the avatar may change state
// on its own while the gate waits.
type ReadinessGate struct {
	Liveness avatar.LivenessReader
	Thinker  avatar.Thinker
	// SettleDelay defaults to DefaultSettleDelay when zero.
	SettleDelay time.Duration

	// after is replaced in tests.
	after func(time.Duration) <-chan time.Time
}

func NewReadinessGate(liveness avatar.LivenessReader, thinker avatar.Thinker, settleDelay time.Duration) *ReadinessGate {
	return &ReadinessGate{Liveness: liveness, Thinker: thinker, SettleDelay: settleDelay}
}

// EnsureReady interrupts a speaking avatar with a single think command and
// waits for the settle delay. In any other state it returns immediately.
func (g *ReadinessGate) EnsureReady(ctx context.Context) error {
	if g == nil || g.Liveness == nil || g.Liveness.Current() != avatar.StateSpeaking {
		return nil
	}

	ctx, span := tracer.Start(ctx, "ensure avatar ready")
	defer span.End()

	if err := g.Thinker.Think(ctx); err != nil {
		err = fmt.Errorf("failed to interrupt speaking avatar: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	interruptsIssued.Add(ctx, 1)

	delay := g.SettleDelay
	if delay <= 0 {
		delay = DefaultSettleDelay
	}
	span.SetAttributes(attribute.Int64("settle_delay_ms", delay.Milliseconds()))

	after := g.after
	if after == nil {
		after = time.After
	}

	select {
	case <-after(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
