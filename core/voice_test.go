package orchestration

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/koscakluka/ema-avatar/core/events"
)

func TestStartVoiceInputRequiresClients(t *testing.T) {
	a := NewAssistant(WithAudioInput(&fakeCapturer{}))
	if err := a.StartVoiceInput(context.Background(), VoiceInputCallbacks{}); !errors.Is(err, ErrSpeechToTextNotConfigured) {
		t.Fatalf("expected speech to text not configured, got %v", err)
	}

	a = NewAssistant(WithSpeechToTextClient(&fakeRecognizer{}))
	if err := a.StartVoiceInput(context.Background(), VoiceInputCallbacks{}); !errors.Is(err, ErrAudioInputNotConfigured) {
		t.Fatalf("expected audio input not configured, got %v", err)
	}
}

func TestVoiceInputForwardsAudioAndTranscripts(t *testing.T) {
	recognizer := &fakeRecognizer{}
	capturer := &fakeCapturer{}
	a := NewAssistant(WithSpeechToTextClient(recognizer), WithAudioInput(capturer))
	recorder := recordEvents(a.Events(),
		events.KindRecognitionStarted,
		events.KindUserTranscriptInterimUpdated,
		events.KindUserTranscriptFinal,
		events.KindRecognitionCompleted,
	)

	var interim, finished []string
	err := a.StartVoiceInput(context.Background(), VoiceInputCallbacks{
		OnInterim:  func(transcript string) { interim = append(interim, transcript) },
		OnFinished: func(transcript string) { finished = append(finished, transcript) },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.IsListening() {
		t.Fatalf("expected assistant to be listening")
	}

	capturer.emit([]byte{1, 2})
	capturer.emit([]byte{3})
	if diff := cmp.Diff([][]byte{{1, 2}, {3}}, recognizer.receivedAudio()); diff != "" {
		t.Fatalf("unexpected audio (-want +got):\n%s", diff)
	}

	options := recognizer.recognitionOptions()
	options.RecognitionStartCallback()
	options.SentenceBeginCallback()
	options.RecognitionResultChangeCallback("今天")
	options.SentenceEndCallback("今天天气不错")

	if err := a.StopVoiceInput(context.Background()); err != nil {
		t.Fatalf("unexpected stop error: %v", err)
	}
	if a.IsListening() {
		t.Fatalf("expected assistant to stop listening")
	}

	if diff := cmp.Diff([]string{"", "今天"}, interim); diff != "" {
		t.Fatalf("unexpected interim transcripts (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"今天天气不错"}, finished); diff != "" {
		t.Fatalf("unexpected finished transcripts (-want +got):\n%s", diff)
	}
	want := []events.Kind{
		events.KindRecognitionStarted,
		events.KindUserTranscriptInterimUpdated,
		events.KindUserTranscriptInterimUpdated,
		events.KindUserTranscriptFinal,
		events.KindRecognitionCompleted,
	}
	if diff := cmp.Diff(want, recorder.kinds()); diff != "" {
		t.Fatalf("unexpected events (-want +got):\n%s", diff)
	}
	if capturer.stopped != 1 || recognizer.stopped != 1 {
		t.Fatalf("expected capture and recognition to stop once, got %d and %d", capturer.stopped, recognizer.stopped)
	}

	capturer.emit([]byte{4})
	if got := len(recognizer.receivedAudio()); got != 2 {
		t.Fatalf("expected no audio after stopping, got %d chunks", got)
	}
}

func TestVoiceInputStopsCaptureWhenRecognitionFails(t *testing.T) {
	recognizer := &fakeRecognizer{}
	capturer := &fakeCapturer{}
	a := NewAssistant(WithSpeechToTextClient(recognizer), WithAudioInput(capturer))

	var reported error
	err := a.StartVoiceInput(context.Background(), VoiceInputCallbacks{
		OnError: func(err error) { reported = err },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	failure := errors.New("asr quota exceeded")
	recognizer.recognitionOptions().ErrorCallback(failure)

	if !errors.Is(reported, failure) {
		t.Fatalf("expected reported error %v, got %v", failure, reported)
	}
	if a.IsListening() {
		t.Fatalf("expected capture to stop after recognition failure")
	}
}

func TestStartVoiceInputStopsRecognitionWhenCaptureFails(t *testing.T) {
	captureErr := errors.New("no microphone")
	recognizer := &fakeRecognizer{}
	a := NewAssistant(WithSpeechToTextClient(recognizer), WithAudioInput(&fakeCapturer{startErr: captureErr}))

	if err := a.StartVoiceInput(context.Background(), VoiceInputCallbacks{}); !errors.Is(err, captureErr) {
		t.Fatalf("expected capture error, got %v", err)
	}
	if recognizer.stopped != 1 {
		t.Fatalf("expected recognition to be stopped, got %d stops", recognizer.stopped)
	}
	if a.IsListening() {
		t.Fatalf("expected assistant not to be listening")
	}
}

func TestStartVoiceInputTwiceStartsOnce(t *testing.T) {
	recognizer := &fakeRecognizer{}
	capturer := &fakeCapturer{}
	a := NewAssistant(WithSpeechToTextClient(recognizer), WithAudioInput(capturer))
	defer a.Close(context.Background())

	for range 2 {
		if err := a.StartVoiceInput(context.Background(), VoiceInputCallbacks{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if capturer.started != 1 {
		t.Fatalf("expected capture to start once, got %d", capturer.started)
	}
}

func TestCloseReleasesAudioInput(t *testing.T) {
	capturer := &fakeCapturer{}
	a := NewAssistant(WithSpeechToTextClient(&fakeRecognizer{}), WithAudioInput(capturer))

	if err := a.StartVoiceInput(context.Background(), VoiceInputCallbacks{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.Close(context.Background()); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if capturer.closed != 1 {
		t.Fatalf("expected capturer to be closed once, got %d", capturer.closed)
	}
	if a.IsListening() {
		t.Fatalf("expected assistant to stop listening")
	}
}
