package main

import (
	"fmt"
	"os/exec"

	"github.com/atotto/clipboard"

	"github.com/sasajib/voice-dictation/beep"
	"github.com/sasajib/voice-dictation/inject"
	"github.com/sasajib/voice-dictation/log"
	"github.com/sasajib/voice-dictation/transcriber"
)

// Swappable in tests.
var (
	clipboardWrite = clipboard.WriteAll
	notifySend     = func(summary, body string) {
		if _, err := exec.LookPath("notify-send"); err != nil {
			return
		}
		go exec.Command("notify-send", "-a", "voice-dictation", summary, body).Run()
	}
)

// Dispatcher delivers one finished transcription: mirror to clipboard
// when enabled, inject at the cursor, then feedback.
type Dispatcher struct {
	injector inject.Injector
	mirror   bool
}

func NewDispatcher(injector inject.Injector, mirror bool) *Dispatcher {
	return &Dispatcher{injector: injector, mirror: mirror}
}

func (d *Dispatcher) Dispatch(res transcriber.Result) {
	if res.NoSpeech || res.Text == "" {
		log.Info("no speech in phrase, nothing to type")
		notifySend("voice-dictation", "No speech detected")
		beep.PlayError()
		return
	}

	if d.mirror {
		if err := clipboardWrite(res.Text); err != nil {
			log.Warnf("clipboard mirror failed: %v", err)
		}
	}

	if d.injector == nil {
		log.Error("no text injector available, transcript kept in logs only")
		notifySend("voice-dictation", "No injection tool found; see transcript log")
		beep.PlayError()
		log.TranscriptionText(res.Text)
		return
	}

	if err := d.injector.Inject(res.Text); err != nil {
		log.Errorf("inject via %s: %v", d.injector.Name(), err)
		notifySend("voice-dictation", fmt.Sprintf("Typing failed (%s); see transcript log", d.injector.Name()))
		beep.PlayError()
		log.TranscriptionText(res.Text)
		return
	}

	log.TranscriptionText(res.Text)
	beep.PlayPhraseDone()
}
