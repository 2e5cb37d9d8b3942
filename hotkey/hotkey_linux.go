//go:build linux

package hotkey

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	evKey      = 1
	keyPress   = 1
	keyRelease = 0
	keyLCtrl   = 29
	keyRCtrl   = 97
	keyLShift  = 42
	keyRShift  = 54
	keySpace   = 57
)

const inputEventSize = 24

// linuxHotkey watches raw evdev keyboard devices, which works on both
// X11 and Wayland but needs the user in the 'input' group.
type linuxHotkey struct {
	toggled chan struct{}
	files   []*os.File
	stop    chan struct{}
	once    sync.Once
}

func New() Hotkey {
	return &linuxHotkey{toggled: make(chan struct{}, 1)}
}

func (h *linuxHotkey) Register() error {
	keyboards, err := findKeyboards()
	if err != nil {
		return fmt.Errorf("finding keyboards: %w", err)
	}
	if len(keyboards) == 0 {
		return fmt.Errorf("no keyboard devices found (is user in 'input' group?)")
	}

	h.stop = make(chan struct{})

	for _, path := range keyboards {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		h.files = append(h.files, f)
		go h.readEvents(f)
	}

	if len(h.files) == 0 {
		return fmt.Errorf("could not open any keyboard device (run: sudo usermod -aG input $USER, then re-login)")
	}
	return nil
}

func (h *linuxHotkey) Unregister() {
	h.once.Do(func() {
		if h.stop != nil {
			close(h.stop)
		}
		for _, f := range h.files {
			f.Close()
		}
	})
}

func (h *linuxHotkey) Toggled() <-chan struct{} { return h.toggled }

func (h *linuxHotkey) readEvents(f *os.File) {
	buf := make([]byte, inputEventSize*16)
	var ctrlHeld, shiftHeld, comboFired bool

	for {
		select {
		case <-h.stop:
			return
		default:
		}

		n, err := f.Read(buf)
		if err != nil {
			return
		}

		for off := 0; off+inputEventSize <= n; off += inputEventSize {
			typ := binary.LittleEndian.Uint16(buf[off+16:])
			code := binary.LittleEndian.Uint16(buf[off+18:])
			value := int32(binary.LittleEndian.Uint32(buf[off+20:]))
			if typ != evKey {
				continue
			}

			pressed := value == keyPress
			released := value == keyRelease
			switch code {
			case keyLCtrl, keyRCtrl:
				if pressed {
					ctrlHeld = true
				} else if released {
					ctrlHeld = false
					comboFired = false
				}
			case keyLShift, keyRShift:
				if pressed {
					shiftHeld = true
				} else if released {
					shiftHeld = false
					comboFired = false
				}
			case keySpace:
				if pressed && ctrlHeld && shiftHeld && !comboFired {
					comboFired = true
					select {
					case h.toggled <- struct{}{}:
					default:
					}
				}
				if released {
					comboFired = false
				}
			}
		}
	}
}

func findKeyboards() ([]string, error) {
	byPath, err := filepath.Glob("/dev/input/by-path/*-event-kbd")
	if err == nil && len(byPath) > 0 {
		return byPath, nil
	}

	// Fall back to scanning device names.
	entries, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return nil, err
	}
	var keyboards []string
	for _, dev := range entries {
		namePath := fmt.Sprintf("/sys/class/input/%s/device/name", filepath.Base(dev))
		name, err := os.ReadFile(namePath)
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(string(name)), "keyboard") {
			keyboards = append(keyboards, dev)
		}
	}
	return keyboards, nil
}
