package main

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/sasajib/voice-dictation/audio"
)

type confirmAlways bool

func (c confirmAlways) IsSpeech([]byte) bool { return bool(c) }

// countingConfirmer rejects and records how often it was asked.
type countingConfirmer struct {
	answer bool
	calls  int
}

func (c *countingConfirmer) IsSpeech([]byte) bool {
	c.calls++
	return c.answer
}

func speechFrame(seed int) []byte {
	frame := make([]byte, audio.FrameBytes)
	for i := 0; i+1 < len(frame); i += 2 {
		// Loud sine, comfortably above any RMS threshold.
		s := int16(12000 * math.Sin(float64(seed*audio.FrameBytes+i)*0.05))
		binary.LittleEndian.PutUint16(frame[i:], uint16(s))
	}
	return frame
}

func silenceFrame() []byte {
	return make([]byte, audio.FrameBytes)
}

func testDetector(confirm Confirmer) *Detector {
	return NewDetector(DetectorConfig{
		ProbationFrames: 3,
		Endpoint:        600 * time.Millisecond,
		MaxPhrase:       30 * time.Second,
		SpeechRMS:       0.012,
		Confirm:         confirm,
	})
}

// Feed 300ms silence, 800ms speech, 700ms silence with a 600ms endpoint
// and a 3-frame probation: exactly one phrase spanning speech onset
// through the endpoint window.
func TestDetectorPhraseScenario(t *testing.T) {
	d := testDetector(confirmAlways(true))

	var want bytes.Buffer
	starts, ends := 0, 0
	feed := func(frame []byte, inPhrase bool) {
		switch d.Feed(frame) {
		case EventPhraseStart:
			starts++
		case EventPhraseEnd:
			ends++
		}
		if inPhrase {
			want.Write(frame)
		}
	}

	for i := 0; i < 15; i++ { // 300ms silence
		feed(silenceFrame(), false)
	}
	for i := 0; i < 40; i++ { // 800ms speech, all of it in the phrase
		feed(speechFrame(i), true)
	}
	for i := 0; i < 35; i++ { // 700ms silence; first 30 frames (600ms) sealed in
		feed(silenceFrame(), i < 30)
	}

	if starts != 1 || ends != 1 {
		t.Fatalf("starts=%d ends=%d, want exactly one phrase", starts, ends)
	}
	phrase := d.TakePhrase()
	if len(phrase) != 70*audio.FrameBytes {
		t.Fatalf("phrase length = %d frames, want 70", len(phrase)/audio.FrameBytes)
	}
	if !bytes.Equal(phrase, want.Bytes()) {
		t.Fatal("phrase audio does not match fed frames in order")
	}
}

func TestDetectorTransientNoiseSuppressed(t *testing.T) {
	d := testDetector(confirmAlways(true))

	// Same noisy clip three times: 2 speech frames (below probation) is
	// never enough, no matter how often it repeats.
	for round := 0; round < 3; round++ {
		for i := 0; i < 10; i++ {
			feedExpectNone(t, d, silenceFrame())
		}
		for i := 0; i < 2; i++ {
			feedExpectNone(t, d, speechFrame(i))
		}
	}
	if p := d.TakePhrase(); p != nil {
		t.Fatalf("unexpected sealed phrase of %d bytes", len(p))
	}
}

func feedExpectNone(t *testing.T, d *Detector, frame []byte) {
	t.Helper()
	if ev := d.Feed(frame); ev != EventNone {
		t.Fatalf("unexpected event %d", ev)
	}
}

func TestDetectorConfirmerRejectionDiscardsProbation(t *testing.T) {
	c := &countingConfirmer{answer: false}
	d := testDetector(c)

	for i := 0; i < 50; i++ {
		if ev := d.Feed(speechFrame(i)); ev != EventNone {
			t.Fatalf("phrase started despite confirmer rejection (event %d)", ev)
		}
	}
	if c.calls == 0 {
		t.Fatal("confirmer never consulted")
	}
}

func TestDetectorSpeechResumesDuringTrailing(t *testing.T) {
	d := testDetector(confirmAlways(true))

	for i := 0; i < 5; i++ {
		d.Feed(speechFrame(i))
	}
	// 20 silence frames: under the 30-frame endpoint, phrase stays open.
	for i := 0; i < 20; i++ {
		if ev := d.Feed(silenceFrame()); ev == EventPhraseEnd {
			t.Fatal("phrase sealed before endpoint")
		}
	}
	// Speech resumes; the pause is kept inside the phrase.
	for i := 0; i < 5; i++ {
		d.Feed(speechFrame(i))
	}
	var end DetectorEvent
	for i := 0; i < 30; i++ {
		end = d.Feed(silenceFrame())
	}
	if end != EventPhraseEnd {
		t.Fatalf("expected phrase end, got %d", end)
	}
	// 5 + 20 + 5 + 30 frames, nothing dropped.
	if got := len(d.TakePhrase()) / audio.FrameBytes; got != 60 {
		t.Fatalf("phrase frames = %d, want 60", got)
	}
}

func TestDetectorMaxPhraseForcesSeal(t *testing.T) {
	d := NewDetector(DetectorConfig{
		ProbationFrames: 3,
		Endpoint:        600 * time.Millisecond,
		MaxPhrase:       2 * time.Second, // 100 frames
		Confirm:         confirmAlways(true),
	})

	sealedAt := -1
	for i := 0; i < 200; i++ {
		if d.Feed(speechFrame(i)) == EventPhraseEnd {
			sealedAt = i
			break
		}
	}
	if sealedAt != 99 {
		t.Fatalf("sealed at frame %d, want 99 (exactly 2s)", sealedAt)
	}
	if got := len(d.TakePhrase()) / audio.FrameBytes; got != 100 {
		t.Fatalf("phrase frames = %d, want 100", got)
	}
	// Detector is back in silence and can start a fresh phrase.
	for i := 0; i < 10; i++ {
		if d.Feed(speechFrame(i)) == EventPhraseStart {
			return
		}
	}
	t.Fatal("no new phrase after forced seal")
}

func TestDetectorResetDropsOpenPhrase(t *testing.T) {
	d := testDetector(confirmAlways(true))
	for i := 0; i < 10; i++ {
		d.Feed(speechFrame(i))
	}
	d.Reset()
	if p := d.TakePhrase(); p != nil {
		t.Fatal("reset should drop the open phrase")
	}
	for i := 0; i < 40; i++ {
		feedExpectNone(t, d, silenceFrame())
	}
}

func TestFrameRMS(t *testing.T) {
	if rms := frameRMS(silenceFrame()); rms != 0 {
		t.Fatalf("silence rms = %f", rms)
	}
	if rms := frameRMS(speechFrame(0)); rms < 0.1 {
		t.Fatalf("speech rms = %f, too quiet for the test signal", rms)
	}
}
