// voice-dictation is a background dictation daemon: toggle it on, speak,
// and each detected phrase is transcribed offline and typed into the
// focused window.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sasajib/voice-dictation/audio"
	"github.com/sasajib/voice-dictation/beep"
	"github.com/sasajib/voice-dictation/hotkey"
	"github.com/sasajib/voice-dictation/inject"
	"github.com/sasajib/voice-dictation/log"
	"github.com/sasajib/voice-dictation/transcriber"
	"github.com/sasajib/voice-dictation/tray"
)

const version = "0.2.0"

func main() {
	pidFile := flag.String("pidfile", "/tmp/voice-daemon.pid", "single-instance pid file")
	toggleFile := flag.String("togglefile", "/tmp/voice-daemon-toggle", "marker file polled for external toggles")
	pollInterval := flag.Duration("poll", 200*time.Millisecond, "toggle file poll interval")
	model := flag.String("model", "", "recognition model (overrides VOICE_MODEL)")
	probation := flag.Int("probation", 3, "consecutive speech frames before a phrase opens")
	endpoint := flag.Duration("endpoint", 600*time.Millisecond, "trailing silence that ends a phrase")
	maxPhrase := flag.Duration("maxphrase", 30*time.Second, "hard cap on phrase length")
	threshold := flag.Float64("threshold", 0.012, "per-frame RMS speech threshold")
	mirror := flag.Bool("mirror", false, "also copy transcripts to the clipboard")
	useHotkey := flag.Bool("hotkey", false, "register Ctrl+Shift+Space as a toggle")
	noBeep := flag.Bool("nobeep", false, "disable audio feedback tones")
	logPath := flag.String("logpath", "", "log directory (overrides VOICE_LOG_PATH)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("voice-dictation %s\n", version)
		return
	}
	if *noBeep {
		beep.Disable()
	}

	dir, err := log.ResolveDir(*logPath)
	if err != nil {
		fatal("resolving log directory: %v", err)
	}
	log.SetDir(dir)

	if err := acquirePidFile(*pidFile); err != nil {
		fatal("%v", err)
	}
	defer releasePidFile(*pidFile)

	if err := log.Init(); err != nil {
		fatal("opening logs in %s: %v", dir, err)
	}
	defer log.Close()

	engine, err := transcriber.New(*model)
	if err != nil {
		fatal("recognition engine: %v", err)
	}

	injector, err := inject.Detect(os.Getenv("XDG_SESSION_TYPE"))
	if err != nil {
		log.Warnf("no text injector available: %v", err)
		injector = nil
	}

	ctx, err := audio.NewContext()
	if err != nil {
		fatal("audio system: %v", err)
	}
	defer ctx.Close()

	dev, err := ctx.NewCapture(nil, audio.CaptureConfig{
		SampleRate: audio.SampleRate,
		Channels:   audio.Channels,
	})
	if err != nil {
		fatal("opening capture device: %v", err)
	}
	defer dev.Close()

	source := audio.NewSource(dev, 64)
	if err := source.Start(); err != nil {
		fatal("starting capture: %v", err)
	}
	defer source.Stop()

	confirm, err := newWebRTCConfirmer()
	if err != nil {
		// Energy-only detection still works, just with more false starts.
		log.Warnf("speech confirmer unavailable: %v", err)
	}
	cfg := DetectorConfig{
		ProbationFrames: *probation,
		Endpoint:        *endpoint,
		MaxPhrase:       *maxPhrase,
		SpeechRMS:       *threshold,
	}
	if confirm != nil {
		cfg.Confirm = confirm
	}
	det := NewDetector(cfg)

	ctrl := newControlQueue()
	daemon := NewDaemon(source.Frames(), det, engine, NewDispatcher(injector, *mirror), ctrl)

	stop := make(chan struct{})
	defer close(stop)
	go watchSignals(ctrl, stop)
	go watchToggleFile(*toggleFile, *pollInterval, ctrl, stop)
	tray.OnToggle(ctrl.RequestToggle)
	tray.OnQuit(ctrl.RequestQuit)
	tray.SetState(tray.StateIdle)

	if *useHotkey {
		hk := hotkey.New()
		if err := hk.Register(); err != nil {
			log.Warnf("hotkey unavailable: %v", err)
		} else {
			defer hk.Unregister()
			go watchHotkey(hk, ctrl, stop)
		}
	}

	beep.Init()

	injectorName := "none"
	if injector != nil {
		injectorName = injector.Name()
	}
	log.SessionStart(engine.Model(), engine.Name(), injectorName)
	log.Info(fmt.Sprintf("voice-dictation %s listening on %q, pid file %s", version, source.DeviceName(), *pidFile))

	runErr := daemon.Run()
	log.SessionEnd(daemon.Phrases())
	if dropped := source.Dropped(); dropped > 0 {
		log.Warnf("%d capture frames dropped under backpressure", dropped)
	}
	if runErr != nil {
		log.Errorf("daemon stopped: %v", runErr)
		source.Stop()
		ctx.Close()
		log.Close()
		releasePidFile(*pidFile)
		os.Exit(1)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "voice-dictation: "+format+"\n", args...)
	os.Exit(1)
}
