package transcriber

import (
	"context"
	"sync"
)

// Fake returns a fixed result, for tests.
type Fake struct {
	Text string
	Err  error

	mu    sync.Mutex
	calls int
}

func NewFake(text string, err error) *Fake {
	return &Fake{Text: text, Err: err}
}

func (f *Fake) Name() string  { return "fake" }
func (f *Fake) Model() string { return "fake" }

func (f *Fake) Transcribe(_ context.Context, _ []byte) (Result, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.Err != nil {
		return Result{}, f.Err
	}
	return Result{Text: f.Text, NoSpeech: f.Text == ""}, nil
}

func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
