//go:build !linux

package inject

import "errors"

func newUinputInjector() (Injector, error) {
	return nil, errors.New("no text injection tool found (install xdotool, ydotool or wtype)")
}
