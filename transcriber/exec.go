package transcriber

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	shellwords "github.com/mattn/go-shellwords"
)

// defaultEngine is the recognizer command expected on PATH: a thin
// wrapper around a whisper build that accepts --audio/--model/--language
// and prints {"text": ..., "confidence": ...} on stdout.
const defaultEngine = "voice-engine"

type execEngine struct {
	argv  []string
	model string
	lang  string
}

type engineOutput struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// NewExec parses and resolves the engine command. A missing binary is
// reported here so startup can fail fast instead of failing on the
// first phrase.
func NewExec(command, model, lang string) (Transcriber, error) {
	if command == "" {
		command = defaultEngine
	}
	argv, err := shellwords.NewParser().Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse engine command: %w", err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("engine command is empty")
	}
	if _, err := exec.LookPath(argv[0]); err != nil {
		return nil, fmt.Errorf("recognition engine %q not found: %w", argv[0], err)
	}
	return &execEngine{argv: argv, model: model, lang: lang}, nil
}

func (e *execEngine) Name() string  { return filepath.Base(e.argv[0]) }
func (e *execEngine) Model() string { return e.model }

func (e *execEngine) Transcribe(ctx context.Context, pcm []byte) (Result, error) {
	if len(pcm) < MinPhraseBytes {
		return Result{NoSpeech: true}, nil
	}

	file, err := os.CreateTemp("", "voice_phrase_*.wav")
	if err != nil {
		return Result{}, fmt.Errorf("temp file: %w", err)
	}
	defer os.Remove(file.Name())
	defer file.Close()

	if err := writePCMToWav(file, pcm); err != nil {
		return Result{}, err
	}

	args := append([]string{}, e.argv[1:]...)
	args = append(args, "--audio", file.Name(), "--model", e.model)
	if e.lang != "" {
		args = append(args, "--language", e.lang)
	}

	cmd := exec.CommandContext(ctx, e.argv[0], args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return Result{}, fmt.Errorf("engine failed: %w: %s", err, stderr.String())
	}

	var out engineOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return Result{}, fmt.Errorf("decode engine output: %w", err)
	}
	text := strings.TrimSpace(out.Text)
	return Result{
		Text:       text,
		Confidence: out.Confidence,
		NoSpeech:   text == "",
	}, nil
}

func writePCMToWav(file *os.File, pcm []byte) error {
	if len(pcm)%2 != 0 {
		return fmt.Errorf("pcm payload not aligned")
	}
	samples := make([]int, len(pcm)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(pcm[i*2:])))
	}
	buffer := &goaudio.IntBuffer{
		Format: &goaudio.Format{NumChannels: Channels, SampleRate: SampleRate},
		Data:   samples,
	}

	enc := wav.NewEncoder(file, SampleRate, 16, Channels, 1)
	if err := enc.Write(buffer); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close wav encoder: %w", err)
	}
	return nil
}
