// Package hotkey provides an optional global-shortcut toggle source for
// the daemon (Ctrl+Shift+Space). Each full combo press delivers one
// activation on Toggled.
package hotkey

type Hotkey interface {
	Register() error
	Unregister()
	Toggled() <-chan struct{}
}
