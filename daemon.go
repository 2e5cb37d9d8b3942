package main

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/sasajib/voice-dictation/audio"
	"github.com/sasajib/voice-dictation/beep"
	"github.com/sasajib/voice-dictation/log"
	"github.com/sasajib/voice-dictation/transcriber"
	"github.com/sasajib/voice-dictation/tray"
)

const (
	stateIdle int32 = iota
	stateListening
)

var errCaptureStopped = errors.New("audio capture stopped unexpectedly")

// Daemon owns the two lanes: the capture lane feeds frames to the
// detector and hands each sealed phrase to the worker lane, which
// transcribes and dispatches it. While the worker is busy the capture
// lane keeps draining frames but discards them, so at most one
// utterance is ever in flight.
type Daemon struct {
	frames <-chan []byte
	det    *Detector
	engine transcriber.Transcriber
	disp   *Dispatcher
	ctrl   *controlQueue

	state   atomic.Int32
	busy    atomic.Bool
	phrases atomic.Int64
	pending chan []byte
}

func NewDaemon(frames <-chan []byte, det *Detector, engine transcriber.Transcriber, disp *Dispatcher, ctrl *controlQueue) *Daemon {
	return &Daemon{
		frames:  frames,
		det:     det,
		engine:  engine,
		disp:    disp,
		ctrl:    ctrl,
		pending: make(chan []byte, 1),
	}
}

func (d *Daemon) Listening() bool { return d.state.Load() == stateListening }

// Phrases reports how many sealed phrases went through the worker lane.
func (d *Daemon) Phrases() int { return int(d.phrases.Load()) }

// toggle flips Idle<->Listening. Entering Idle drops any open phrase so
// stale audio can never surface after a restart of listening.
func (d *Daemon) toggle() {
	if d.state.CompareAndSwap(stateIdle, stateListening) {
		log.StateChange(true)
		tray.SetState(tray.StateListening)
		beep.PlayListenStart()
		notifySend("voice-dictation", "Listening")
		return
	}
	if d.state.CompareAndSwap(stateListening, stateIdle) {
		d.det.Reset()
		log.StateChange(false)
		tray.SetState(tray.StateIdle)
		beep.PlayListenStop()
		notifySend("voice-dictation", "Stopped")
	}
}

// Run drives the capture lane until quit is requested or the capture
// stream dies. It owns the worker lane's lifetime.
func (d *Daemon) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	workerDone := make(chan struct{})
	go d.workerLane(ctx, workerDone)

	defer func() {
		close(d.pending)
		<-workerDone
	}()

	for {
		select {
		case <-d.ctrl.quit:
			return nil

		case <-d.ctrl.toggle:
			d.toggle()

		case frame, ok := <-d.frames:
			if !ok {
				return errCaptureStopped
			}
			if !d.Listening() || d.busy.Load() {
				continue
			}
			if d.det.Feed(frame) == EventPhraseEnd {
				d.busy.Store(true)
				d.pending <- d.det.TakePhrase()
			}
		}
	}
}

func (d *Daemon) workerLane(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	for phrase := range d.pending {
		d.transcribeOne(ctx, phrase)
		d.busy.Store(false)
	}
}

func (d *Daemon) transcribeOne(ctx context.Context, pcm []byte) {
	audioSec := float64(len(pcm)) / float64(audio.SampleRate*audio.BitsPerSample/8)

	start := time.Now()
	res, err := d.engine.Transcribe(ctx, pcm)
	elapsed := time.Since(start)
	if err != nil {
		log.Errorf("transcription failed: %v", err)
		res = transcriber.Result{NoSpeech: true}
	}

	d.phrases.Add(1)
	log.PhraseMetrics(audioSec, float64(elapsed.Milliseconds()), res.Confidence, res.NoSpeech)
	d.disp.Dispatch(res)
}
