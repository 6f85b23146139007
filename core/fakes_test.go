package orchestration

import (
	"context"
	"errors"
	"iter"
	"sync"

	"github.com/koscakluka/ema-avatar/core/audio"
	"github.com/koscakluka/ema-avatar/core/avatar"
	"github.com/koscakluka/ema-avatar/core/llms"
	"github.com/koscakluka/ema-avatar/core/speechtotext"
)

type speakCall struct {
	Envelope string
	IsFirst  bool
	IsLast   bool
}

type recordingSpeaker struct {
	mu    sync.Mutex
	calls []speakCall
	// failAt makes the call with this index fail, when not negative.
	failAt int
	// onSpeak is called before each call is recorded.
	onSpeak func(ctx context.Context, call speakCall)
}

func newRecordingSpeaker() *recordingSpeaker { return &recordingSpeaker{failAt: -1} }

var errSpeakFailed = errors.New("speak failed")

func (s *recordingSpeaker) Speak(ctx context.Context, envelope string, isFirst, isLast bool) error {
	call := speakCall{Envelope: envelope, IsFirst: isFirst, IsLast: isLast}
	if s.onSpeak != nil {
		s.onSpeak(ctx, call)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAt == len(s.calls) {
		s.failAt = -1
		return errSpeakFailed
	}
	s.calls = append(s.calls, call)
	return nil
}

func (s *recordingSpeaker) recorded() []speakCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]speakCall(nil), s.calls...)
}

type fakeAvatar struct {
	*recordingSpeaker

	mu            sync.Mutex
	thinks        int
	thinkErr      error
	destroyed     int
	notifications chan avatar.Notification
	closeOnce     sync.Once
}

func newFakeAvatar() *fakeAvatar {
	return &fakeAvatar{
		recordingSpeaker: newRecordingSpeaker(),
		notifications:    make(chan avatar.Notification, 16),
	}
}

func (a *fakeAvatar) Think(context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.thinks++
	return a.thinkErr
}

func (a *fakeAvatar) thinkCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.thinks
}

func (a *fakeAvatar) Init(context.Context) error { return nil }

func (a *fakeAvatar) Destroy(context.Context) error {
	a.mu.Lock()
	a.destroyed++
	a.mu.Unlock()
	a.closeNotifications()
	return nil
}

func (a *fakeAvatar) closeNotifications() {
	a.closeOnce.Do(func() { close(a.notifications) })
}

func (a *fakeAvatar) Notifications() <-chan avatar.Notification { return a.notifications }

type fakeConnector struct {
	avatar avatar.Avatar
	err    error
	// release, if set, holds Connect until it is closed.
	release chan struct{}

	mu          sync.Mutex
	credentials avatar.Credentials
	calls       int
}

func (c *fakeConnector) Connect(_ context.Context, credentials avatar.Credentials) (avatar.Avatar, error) {
	c.mu.Lock()
	c.credentials = credentials
	c.calls++
	c.mu.Unlock()
	if c.release != nil {
		<-c.release
	}
	if c.err != nil {
		return nil, c.err
	}
	return c.avatar, nil
}

// tokenSeq yields tokens and then err, if set.
func tokenSeq(err error, tokens ...string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, token := range tokens {
			if !yield(token, nil) {
				return
			}
		}
		if err != nil {
			yield("", err)
		}
	}
}

type contentChunk string

func (c contentChunk) FinishReason() *string { return nil }
func (c contentChunk) Content() string       { return string(c) }

type fakeStream struct {
	tokens []string
	err    error
}

func (s *fakeStream) Chunks(context.Context) func(func(llms.StreamChunk, error) bool) {
	return func(yield func(llms.StreamChunk, error) bool) {
		for _, token := range s.tokens {
			if !yield(contentChunk(token), nil) {
				return
			}
		}
		if s.err != nil {
			yield(nil, s.err)
		}
	}
}

type fakeLLM struct {
	mu      sync.Mutex
	prompts []string
	stream  llms.Stream
	err     error
}

func (l *fakeLLM) PromptWithStream(_ context.Context, prompt string) (llms.Stream, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prompts = append(l.prompts, prompt)
	if l.err != nil {
		return nil, l.err
	}
	return l.stream, nil
}

type fakeRecognizer struct {
	mu       sync.Mutex
	options  speechtotext.RecognitionOptions
	audio    [][]byte
	started  bool
	stopped  int
	startErr error
}

func (r *fakeRecognizer) Recognize(_ context.Context, opts ...speechtotext.RecognitionOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.startErr != nil {
		return r.startErr
	}
	r.options = speechtotext.NewRecognitionOptions(opts...)
	r.started = true
	return nil
}

func (r *fakeRecognizer) SendAudio(audio []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.started {
		return speechtotext.ErrNotRecognizing
	}
	r.audio = append(r.audio, audio)
	return nil
}

func (r *fakeRecognizer) Stop(context.Context) error {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return speechtotext.ErrNotRecognizing
	}
	r.started = false
	r.stopped++
	options := r.options
	r.mu.Unlock()

	options.RecognitionCompleteCallback()
	return nil
}

func (r *fakeRecognizer) recognitionOptions() speechtotext.RecognitionOptions {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.options
}

func (r *fakeRecognizer) receivedAudio() [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]byte(nil), r.audio...)
}

type fakeCapturer struct {
	mu       sync.Mutex
	onAudio  func([]byte)
	started  int
	stopped  int
	closed   int
	startErr error
}

var _ audio.Capturer = (*fakeCapturer)(nil)

func (c *fakeCapturer) StartCapture(_ context.Context, onAudio func([]byte)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.startErr != nil {
		return c.startErr
	}
	c.started++
	c.onAudio = onAudio
	return nil
}

func (c *fakeCapturer) StopCapture() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped++
	c.onAudio = nil
	return nil
}

func (c *fakeCapturer) EncodingInfo() audio.EncodingInfo { return audio.GetDefaultEncodingInfo() }

func (c *fakeCapturer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed++
	return nil
}

func (c *fakeCapturer) emit(chunk []byte) {
	c.mu.Lock()
	onAudio := c.onAudio
	c.mu.Unlock()
	if onAudio != nil {
		onAudio(chunk)
	}
}

// blockingStream yields first, then waits for release before ending.
type blockingStream struct {
	first   string
	release chan struct{}
}

func (s *blockingStream) Chunks(ctx context.Context) func(func(llms.StreamChunk, error) bool) {
	return func(yield func(llms.StreamChunk, error) bool) {
		if !yield(contentChunk(s.first), nil) {
			return
		}
		select {
		case <-s.release:
		case <-ctx.Done():
			yield(nil, ctx.Err())
		}
	}
}
