// Package inject delivers transcribed text as synthetic keystrokes to
// whatever window currently has keyboard focus. The backend is chosen
// once at startup from the session's display-server type; no runtime
// re-detection.
package inject

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

type Injector interface {
	Name() string
	Inject(text string) error
}

// Swappable in tests.
var (
	lookPath = exec.LookPath

	ydotooldRunning = func() bool {
		// ydotool only works when its daemon is up.
		return exec.Command("pgrep", "-x", "ydotoold").Run() == nil
	}
)

// cmdInjector shells out to an external typing tool with the literal
// transcribed string.
type cmdInjector struct {
	name string
	argv func(text string) []string
}

func (c *cmdInjector) Name() string { return c.name }

func (c *cmdInjector) Inject(text string) error {
	args := c.argv(text)
	out, err := exec.Command(args[0], args[1:]...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", c.name, err, bytes.TrimSpace(out))
	}
	return nil
}

func xdotoolInjector() Injector {
	return &cmdInjector{name: "xdotool", argv: func(text string) []string {
		return []string{"xdotool", "type", "--", text}
	}}
}

func ydotoolInjector() Injector {
	return &cmdInjector{name: "ydotool", argv: func(text string) []string {
		return []string{"ydotool", "type", "--", text}
	}}
}

func wtypeInjector() Injector {
	return &cmdInjector{name: "wtype", argv: func(text string) []string {
		return []string{"wtype", text}
	}}
}

func commandExists(name string) bool {
	_, err := lookPath(name)
	return err == nil
}

// Detect picks the injection backend for the given XDG_SESSION_TYPE.
// X11 prefers xdotool; Wayland prefers ydotool (when its daemon runs)
// and falls back to wtype; with nothing session-specific available it
// tries the tools generically and finally a raw uinput typer.
func Detect(sessionType string) (Injector, error) {
	switch strings.ToLower(sessionType) {
	case "x11":
		if commandExists("xdotool") {
			return xdotoolInjector(), nil
		}
	case "wayland":
		if commandExists("ydotool") && ydotooldRunning() {
			return ydotoolInjector(), nil
		}
		if commandExists("wtype") {
			return wtypeInjector(), nil
		}
	}
	if commandExists("xdotool") {
		return xdotoolInjector(), nil
	}
	if commandExists("ydotool") && ydotooldRunning() {
		return ydotoolInjector(), nil
	}
	return newUinputInjector()
}
