package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitWritesBothFiles(t *testing.T) {
	SetDir(t.TempDir())
	if err := Init(); err != nil {
		t.Fatal(err)
	}
	defer Close()

	Info("daemon_started")
	StateChange(true)
	PhraseMetrics(1.4, 820, 0.91, false)
	TranscriptionText("hello world")
	Close()

	diag, err := os.ReadFile(filepath.Join(Dir(), "daemon_log.txt"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"daemon_started", "state_change", "phrase"} {
		if !strings.Contains(string(diag), want) {
			t.Fatalf("daemon log missing %q:\n%s", want, diag)
		}
	}

	transcript, err := os.ReadFile(filepath.Join(Dir(), "transcript_log.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(transcript), "hello world") {
		t.Fatalf("transcript log missing text:\n%s", transcript)
	}
}

func TestLoggingBeforeInitIsNoop(t *testing.T) {
	Close()
	Info("dropped")
	Warnf("dropped %d", 1)
	TranscriptionText("dropped")
}

func TestResolveDirPrefersFlag(t *testing.T) {
	t.Setenv("VOICE_LOG_PATH", "/env/path")
	got, err := ResolveDir("/flag/path")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/flag/path" {
		t.Fatalf("dir = %s", got)
	}

	got, err = ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/env/path" {
		t.Fatalf("dir = %s", got)
	}
}
