package main

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/sasajib/voice-dictation/audio"
)

// Detector turns a stream of capture frames into phrase boundaries. A
// cheap per-frame RMS judgment drives the state machine; a more
// expensive confirmer is consulted once over the accumulated probation
// window before a phrase is allowed to start, which suppresses transient
// noise without ever losing the frames captured during the delay.
//
// States: silence -> probation -> speaking <-> trailing -> silence.

type detectorState int

const (
	detSilence detectorState = iota
	detProbation
	detSpeaking
	detTrailing
)

type DetectorEvent int

const (
	EventNone DetectorEvent = iota
	EventPhraseStart
	EventPhraseContinue
	EventPhraseEnd
)

// Confirmer judges an accumulated audio window as speech or not.
type Confirmer interface {
	IsSpeech(pcm []byte) bool
}

type DetectorConfig struct {
	ProbationFrames int           // consecutive coarse-speech frames before confirmation
	Endpoint        time.Duration // trailing silence that seals a phrase
	MaxPhrase       time.Duration // hard cap on phrase duration
	SpeechRMS       float64       // coarse per-frame energy threshold
	Confirm         Confirmer
}

const (
	defaultProbation = 3
	defaultEndpoint  = 600 * time.Millisecond
	defaultMaxPhrase = 30 * time.Second
	defaultSpeechRMS = 0.012
)

type Detector struct {
	cfg            DetectorConfig
	endpointFrames int
	maxFrames      int

	state    detectorState
	run      int // consecutive coarse-speech frames during probation
	trailing int // consecutive coarse-silence frames while trailing
	frames   int // frames accumulated in buf
	buf      []byte
	sealed   []byte
}

func NewDetector(cfg DetectorConfig) *Detector {
	if cfg.ProbationFrames <= 0 {
		cfg.ProbationFrames = defaultProbation
	}
	if cfg.Endpoint <= 0 {
		cfg.Endpoint = defaultEndpoint
	}
	if cfg.MaxPhrase <= 0 {
		cfg.MaxPhrase = defaultMaxPhrase
	}
	if cfg.SpeechRMS <= 0 {
		cfg.SpeechRMS = defaultSpeechRMS
	}
	frameDur := audio.FrameMs * time.Millisecond
	return &Detector{
		cfg:            cfg,
		endpointFrames: int(cfg.Endpoint / frameDur),
		maxFrames:      int(cfg.MaxPhrase / frameDur),
	}
}

// Feed consumes one capture frame and reports the resulting phrase
// event. After EventPhraseEnd the sealed audio is available from
// TakePhrase.
func (d *Detector) Feed(frame []byte) DetectorEvent {
	speech := frameRMS(frame) >= d.cfg.SpeechRMS

	switch d.state {
	case detSilence:
		if !speech {
			return EventNone
		}
		d.state = detProbation
		d.run = 1
		d.buf = append(d.buf[:0], frame...)
		d.frames = 1
		return d.maybeConfirm()

	case detProbation:
		if !speech {
			// Coarse detector reverted: transient noise, discard.
			d.discard()
			return EventNone
		}
		d.run++
		d.buf = append(d.buf, frame...)
		d.frames++
		return d.maybeConfirm()

	case detSpeaking:
		d.buf = append(d.buf, frame...)
		d.frames++
		if d.frames >= d.maxFrames {
			return d.seal()
		}
		if !speech {
			d.state = detTrailing
			d.trailing = 1
			if d.trailing >= d.endpointFrames {
				return d.seal()
			}
		}
		return EventPhraseContinue

	case detTrailing:
		// Trailing silence stays in the phrase: if speech resumes the
		// gap is part of the utterance, and if it doesn't the engine
		// sees the natural decay.
		d.buf = append(d.buf, frame...)
		d.frames++
		if d.frames >= d.maxFrames {
			return d.seal()
		}
		if speech {
			d.state = detSpeaking
			d.trailing = 0
			return EventPhraseContinue
		}
		d.trailing++
		if d.trailing >= d.endpointFrames {
			return d.seal()
		}
		return EventPhraseContinue
	}
	return EventNone
}

func (d *Detector) maybeConfirm() DetectorEvent {
	if d.run < d.cfg.ProbationFrames {
		return EventNone
	}
	if d.cfg.Confirm != nil && !d.cfg.Confirm.IsSpeech(d.buf) {
		d.discard()
		return EventNone
	}
	d.state = detSpeaking
	d.trailing = 0
	return EventPhraseStart
}

func (d *Detector) seal() DetectorEvent {
	d.sealed = d.buf
	d.buf = nil
	d.discard()
	return EventPhraseEnd
}

func (d *Detector) discard() {
	d.state = detSilence
	d.run = 0
	d.trailing = 0
	d.frames = 0
	d.buf = d.buf[:0]
}

// TakePhrase hands over the most recently sealed phrase audio.
func (d *Detector) TakePhrase() []byte {
	p := d.sealed
	d.sealed = nil
	return p
}

// Reset drops any open and any sealed phrase, returning to silence.
func (d *Detector) Reset() {
	d.buf = nil
	d.sealed = nil
	d.discard()
}

func frameRMS(frame []byte) float64 {
	if len(frame) < 2 {
		return 0
	}
	var sumSquares float64
	for i := 0; i+1 < len(frame); i += 2 {
		sample := int16(binary.LittleEndian.Uint16(frame[i:]))
		normalized := float64(sample) / 32768.0
		sumSquares += normalized * normalized
	}
	return math.Sqrt(sumSquares / float64(len(frame)/2))
}
