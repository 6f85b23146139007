package orchestration

import (
	"context"
	"fmt"
	"iter"
	"unicode/utf8"

	"github.com/koscakluka/ema-avatar/core/avatar"
	"github.com/koscakluka/ema-avatar/core/segmentation"
	"github.com/koscakluka/ema-avatar/core/ssml"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

// Fragment is a single speak call issued while dispatching a reply.
type Fragment struct {
	Text     string
	Envelope string
	IsFirst  bool
	IsLast   bool
}

type DispatchOptions struct {
	flushWholeRemainder bool
	prosody             ssml.Prosody
	segmenter           segmentation.Segmenter
	onFragment          func(Fragment)
}

type DispatchOption func(*DispatchOptions)

// WithWholeRemainderFlush speaks everything left in the buffer when the
// stream ends. By default only its first character is spoken.
func WithWholeRemainderFlush() DispatchOption {
	return func(o *DispatchOptions) { o.flushWholeRemainder = true }
}

func WithProsody(prosody ssml.Prosody) DispatchOption {
	return func(o *DispatchOptions) { o.prosody = prosody }
}

func WithSegmenter(segmenter segmentation.Segmenter) DispatchOption {
	return func(o *DispatchOptions) { o.segmenter = segmenter }
}

// WithFragmentCallback is called after every successful speak call, in
// order, including the terminal one.
func WithFragmentCallback(callback func(Fragment)) DispatchOption {
	return func(o *DispatchOptions) { o.onFragment = callback }
}

// DispatchReply speaks a streamed reply through speaker one fragment at a
// time and returns whatever text was left unsegmented.
//
// Fragments are spoken as soon as the segmenter finds them. The first one is
// flagged as first and the reply always ends with an empty terminal call
// flagged as last. An error from tokens or from speaker aborts the reply
// without the terminal call. If ctx is cancelled the reply is abandoned but
// the terminal call is still made so the avatar stops speaking.
//
// A nil tokens sequence returns immediately without any calls.
func DispatchReply(ctx context.Context, speaker avatar.Speaker, tokens iter.Seq2[string, error], opts ...DispatchOption) (string, error) {
	if tokens == nil {
		return "", nil
	}

	options := DispatchOptions{prosody: ssml.DefaultProsody}
	for _, opt := range opts {
		opt(&options)
	}

	ctx, span := tracer.Start(ctx, "dispatch reply")
	defer span.End()

	d := dispatcher{speaker: speaker, options: options, isFirst: true}
	buffer, err := d.consume(ctx, tokens)
	span.SetAttributes(attribute.Int("dispatch.fragments", d.dispatched))

	if err != nil && ctx.Err() == nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return buffer, err
	}

	if err == nil && buffer != "" {
		remainder := buffer
		if !options.flushWholeRemainder {
			_, size := utf8.DecodeRuneInString(buffer)
			remainder = buffer[:size]
		}
		if err := d.speak(ctx, remainder, false); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return buffer, err
		}
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		// The terminal call has to reach the avatar even though the reply was
		// abandoned.
		if termErr := d.speak(context.WithoutCancel(ctx), "", true); termErr != nil {
			logger.WarnContext(ctx, "failed to end cancelled reply", "error", termErr)
		}
		return buffer, ctxErr
	}

	if err := d.speak(ctx, "", true); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return buffer, err
	}

	return buffer, nil
}

type dispatcher struct {
	speaker    avatar.Speaker
	options    DispatchOptions
	isFirst    bool
	dispatched int
}

func (d *dispatcher) consume(ctx context.Context, tokens iter.Seq2[string, error]) (string, error) {
	buffer := ""
	for token, err := range tokens {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return buffer, ctxErr
		}
		if err != nil {
			return buffer, fmt.Errorf("failed to read reply stream: %w", err)
		}

		buffer += token
		for {
			head, tail, ok := d.options.segmenter.Split(buffer)
			if !ok {
				break
			}
			if err := d.speak(ctx, head, false); err != nil {
				return buffer, err
			}
			buffer = tail
		}
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return buffer, ctxErr
	}
	return buffer, nil
}

// speak sends text framed by the pending first flag. Only the terminal call
// sets isLast and it never counts as the first fragment.
func (d *dispatcher) speak(ctx context.Context, text string, isLast bool) error {
	fragment := Fragment{
		Text:     text,
		Envelope: ssml.Speak(text, ssml.WithProsody(d.options.prosody)),
		IsFirst:  d.isFirst && !isLast,
		IsLast:   isLast,
	}

	if err := d.speaker.Speak(ctx, fragment.Envelope, fragment.IsFirst, fragment.IsLast); err != nil {
		return fmt.Errorf("failed to speak fragment: %w", err)
	}
	if !isLast {
		d.isFirst = false
	}
	d.dispatched++
	fragmentsDispatched.Add(ctx, 1, metric.WithAttributes(attribute.Bool("fragment.last", isLast)))

	if d.options.onFragment != nil {
		d.options.onFragment(fragment)
	}
	return nil
}
