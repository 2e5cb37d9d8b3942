package main

import (
	"errors"
	"testing"

	"github.com/sasajib/voice-dictation/beep"
	"github.com/sasajib/voice-dictation/transcriber"
)

type fakeInjector struct {
	typed []string
	err   error
}

func (f *fakeInjector) Name() string { return "fake" }

func (f *fakeInjector) Inject(text string) error {
	if f.err != nil {
		return f.err
	}
	f.typed = append(f.typed, text)
	return nil
}

func stubDispatchEnv(t *testing.T) (clip *[]string, notices *[]string) {
	t.Helper()
	beep.Disable()

	var clips, notes []string
	origClip, origNotify := clipboardWrite, notifySend
	clipboardWrite = func(text string) error {
		clips = append(clips, text)
		return nil
	}
	notifySend = func(summary, body string) { notes = append(notes, body) }
	t.Cleanup(func() {
		clipboardWrite = origClip
		notifySend = origNotify
	})
	return &clips, &notes
}

func TestDispatchTypesAndMirrors(t *testing.T) {
	clips, _ := stubDispatchEnv(t)
	inj := &fakeInjector{}
	d := NewDispatcher(inj, true)

	d.Dispatch(transcriber.Result{Text: "hello world", Confidence: 0.9})

	if len(inj.typed) != 1 || inj.typed[0] != "hello world" {
		t.Fatalf("typed = %q", inj.typed)
	}
	if len(*clips) != 1 || (*clips)[0] != "hello world" {
		t.Fatalf("clipboard = %q", *clips)
	}
}

func TestDispatchMirrorDisabled(t *testing.T) {
	clips, _ := stubDispatchEnv(t)
	inj := &fakeInjector{}
	d := NewDispatcher(inj, false)

	d.Dispatch(transcriber.Result{Text: "hello"})

	if len(*clips) != 0 {
		t.Fatalf("clipboard written with mirror disabled: %q", *clips)
	}
	if len(inj.typed) != 1 {
		t.Fatalf("typed = %q", inj.typed)
	}
}

func TestDispatchNoSpeechSkipsInjection(t *testing.T) {
	stubDispatchEnv(t)
	inj := &fakeInjector{}
	d := NewDispatcher(inj, true)

	d.Dispatch(transcriber.Result{NoSpeech: true})
	d.Dispatch(transcriber.Result{Text: ""})

	if len(inj.typed) != 0 {
		t.Fatalf("typed = %q, want nothing", inj.typed)
	}
}

func TestDispatchInjectionFailureIsNonFatal(t *testing.T) {
	_, notices := stubDispatchEnv(t)
	inj := &fakeInjector{err: errors.New("focus lost")}
	d := NewDispatcher(inj, false)

	d.Dispatch(transcriber.Result{Text: "hello"})

	if len(*notices) != 1 {
		t.Fatalf("notifications = %q, want one failure notice", *notices)
	}
}

func TestDispatchNilInjectorKeepsTranscript(t *testing.T) {
	_, notices := stubDispatchEnv(t)
	d := NewDispatcher(nil, false)

	d.Dispatch(transcriber.Result{Text: "hello"})

	if len(*notices) != 1 {
		t.Fatalf("notifications = %q", *notices)
	}
}
