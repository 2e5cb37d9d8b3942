// Package tray is the seam between the daemon and an external system
// tray collaborator. The daemon pushes state changes out through a
// registered render callback; the tray pushes user intent (left-click
// toggle, menu quit) back in. No icon rendering happens here.
package tray

import "sync"

type State int

const (
	StateIdle State = iota
	StateListening
)

func (s State) String() string {
	if s == StateListening {
		return "listening"
	}
	return "idle"
}

var (
	mu       sync.Mutex
	stateFn  func(State)
	toggleFn func()
	quitFn   func()
	current  State
)

// OnState registers the render callback. It is invoked from its own
// goroutine so a slow tray can never stall the control path.
func OnState(fn func(State)) {
	mu.Lock()
	stateFn = fn
	mu.Unlock()
}

func OnToggle(fn func()) {
	mu.Lock()
	toggleFn = fn
	mu.Unlock()
}

func OnQuit(fn func()) {
	mu.Lock()
	quitFn = fn
	mu.Unlock()
}

// SetState publishes the daemon state. Fire-and-forget.
func SetState(s State) {
	mu.Lock()
	current = s
	fn := stateFn
	mu.Unlock()
	if fn != nil {
		go fn(s)
	}
}

// Current returns the last published state, for a tray that attaches late.
func Current() State {
	mu.Lock()
	defer mu.Unlock()
	return current
}

// Toggle routes a tray activation (left-click) into the daemon.
func Toggle() {
	mu.Lock()
	fn := toggleFn
	mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Quit routes the tray menu's quit entry into the daemon.
func Quit() {
	mu.Lock()
	fn := quitFn
	mu.Unlock()
	if fn != nil {
		fn()
	}
}
