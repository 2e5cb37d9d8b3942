//go:build !linux

package hotkey

import (
	"sync"

	ghotkey "golang.design/x/hotkey"
)

type systemHotkey struct {
	hk      *ghotkey.Hotkey
	toggled chan struct{}
	stop    chan struct{}
	once    sync.Once
}

func New() Hotkey {
	return &systemHotkey{toggled: make(chan struct{}, 1)}
}

func (h *systemHotkey) Register() error {
	h.hk = ghotkey.New([]ghotkey.Modifier{ghotkey.ModCtrl, ghotkey.ModShift}, ghotkey.KeySpace)
	if err := h.hk.Register(); err != nil {
		return err
	}
	h.stop = make(chan struct{})
	go func() {
		for {
			select {
			case <-h.stop:
				return
			case <-h.hk.Keydown():
				select {
				case h.toggled <- struct{}{}:
				default:
				}
			}
		}
	}()
	return nil
}

func (h *systemHotkey) Unregister() {
	h.once.Do(func() {
		if h.stop != nil {
			close(h.stop)
		}
		if h.hk != nil {
			h.hk.Unregister()
		}
	})
}

func (h *systemHotkey) Toggled() <-chan struct{} { return h.toggled }
