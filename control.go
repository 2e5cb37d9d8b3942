package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/sasajib/voice-dictation/hotkey"
	"github.com/sasajib/voice-dictation/log"
)

var errAlreadyRunning = errors.New("daemon already running")

// acquirePidFile claims the single-instance lock. A pid file whose
// owner is dead is removed and re-claimed, so a crashed daemon never
// needs manual cleanup.
func acquirePidFile(path string) error {
	data, err := os.ReadFile(path)
	if err == nil {
		pid, perr := strconv.Atoi(strings.TrimSpace(string(data)))
		if perr == nil && pid > 0 && pidAlive(pid) {
			return fmt.Errorf("%w (pid %d)", errAlreadyRunning, pid)
		}
		log.Warnf("removing stale pid file %s", path)
		os.Remove(path)
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
}

func releasePidFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	// Only remove our own claim.
	if strings.TrimSpace(string(data)) == strconv.Itoa(os.Getpid()) {
		os.Remove(path)
	}
}

func pidAlive(pid int) bool {
	err := syscall.Kill(pid, 0)
	if err == nil {
		return true
	}
	// EPERM means the process exists but belongs to someone else.
	return errors.Is(err, syscall.EPERM)
}

// controlQueue fans all toggle/quit sources into two capacity-1
// channels. Sends never block: a request arriving while an identical
// one is pending coalesces with it.
type controlQueue struct {
	toggle chan struct{}
	quit   chan struct{}
}

func newControlQueue() *controlQueue {
	return &controlQueue{
		toggle: make(chan struct{}, 1),
		quit:   make(chan struct{}, 1),
	}
}

func (q *controlQueue) RequestToggle() {
	select {
	case q.toggle <- struct{}{}:
	default:
	}
}

func (q *controlQueue) RequestQuit() {
	select {
	case q.quit <- struct{}{}:
	default:
	}
}

// watchToggleFile polls for the marker file other processes touch to
// flip listening. The file is consumed (deleted) on each sighting. A
// leftover marker from a previous run is cleared before polling so it
// cannot fire a phantom toggle.
func watchToggleFile(path string, interval time.Duration, q *controlQueue, stop <-chan struct{}) {
	os.Remove(path)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if _, err := os.Stat(path); err != nil {
				continue
			}
			os.Remove(path)
			q.RequestToggle()
		}
	}
}

// watchSignals maps SIGUSR1 to toggle and SIGINT/SIGTERM to quit.
func watchSignals(q *controlQueue, stop <-chan struct{}) {
	sigs := make(chan os.Signal, 4)
	signal.Notify(sigs, syscall.SIGUSR1, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	for {
		select {
		case <-stop:
			return
		case sig := <-sigs:
			if sig == syscall.SIGUSR1 {
				q.RequestToggle()
			} else {
				q.RequestQuit()
			}
		}
	}
}

func watchHotkey(hk hotkey.Hotkey, q *controlQueue, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-hk.Toggled():
			q.RequestToggle()
		}
	}
}
