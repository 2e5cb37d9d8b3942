package transcriber

import (
	"context"
	"os"
)

const (
	SampleRate = 16000
	Channels   = 1
)

// MinPhraseBytes is the shortest audio worth handing to the engine;
// anything under 100ms is treated as no speech without invoking it.
const MinPhraseBytes = SampleRate / 10 * 2

// Result is the outcome of transcribing one sealed phrase.
type Result struct {
	Text       string
	Confidence float64
	NoSpeech   bool
}

// Transcriber runs the offline recognition engine on complete phrases.
// Implementations must be safe to call from a single worker goroutine;
// a call may take seconds and is never issued concurrently.
type Transcriber interface {
	Name() string
	Model() string
	Transcribe(ctx context.Context, pcm []byte) (Result, error)
}

// Models downloadable for offline use, smallest to largest.
var Models = []string{"tiny.en", "base.en", "small.en", "medium.en"}

const DefaultModel = "small.en"

// New builds the engine from the environment: VOICE_ENGINE names the
// recognizer command (default used when empty), VOICE_MODEL selects the
// model size, VOICE_LANGUAGE the language hint. All read once; the
// returned engine is immutable for the process lifetime.
func New(modelOverride string) (Transcriber, error) {
	model := modelOverride
	if model == "" {
		model = os.Getenv("VOICE_MODEL")
	}
	if model == "" {
		model = DefaultModel
	}
	return NewExec(os.Getenv("VOICE_ENGINE"), model, os.Getenv("VOICE_LANGUAGE"))
}
