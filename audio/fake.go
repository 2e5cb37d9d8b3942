package audio

import (
	"sync"
	"time"
)

// FakeCapture feeds a scripted PCM buffer through the normal callback
// path, for tests. In realtime mode chunks arrive paced at the capture
// rate; otherwise the whole script is delivered on Start, followed by
// silence until Stop.
type FakeCapture struct {
	pcm      []byte
	realtime bool

	mu       sync.Mutex
	cb       DataCallback
	stopCh   chan struct{}
	feedDone chan struct{}
	fed      chan struct{}
}

func NewFakeCapture(pcm []byte, realtime bool) *FakeCapture {
	return &FakeCapture{pcm: pcm, realtime: realtime, fed: make(chan struct{})}
}

// Fed closes once the scripted audio has been fully delivered.
func (f *FakeCapture) Fed() <-chan struct{} { return f.fed }

func (f *FakeCapture) SetCallback(cb DataCallback) {
	f.mu.Lock()
	f.cb = cb
	f.mu.Unlock()
}

func (f *FakeCapture) ClearCallback() {
	f.mu.Lock()
	f.cb = nil
	f.mu.Unlock()
}

func (f *FakeCapture) DeviceName() string { return "fake" }

func (f *FakeCapture) loadCallback() DataCallback {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cb
}

func (f *FakeCapture) feedChunk(cb DataCallback, pos int) int {
	end := min(pos+FrameBytes, len(f.pcm))
	chunk := make([]byte, end-pos)
	copy(chunk, f.pcm[pos:end])
	cb(chunk, uint32(len(chunk)/2))
	return end
}

func (f *FakeCapture) Start() error {
	f.stopCh = make(chan struct{})
	f.feedDone = make(chan struct{})

	interval := time.Millisecond
	if f.realtime {
		interval = FrameMs * time.Millisecond
	}

	go func() {
		defer close(f.feedDone)
		pos := 0
		finished := false
		silence := make([]byte, FrameBytes)
		for {
			select {
			case <-f.stopCh:
				return
			case <-time.After(interval):
			}
			cb := f.loadCallback()
			if cb == nil {
				continue
			}
			if pos < len(f.pcm) {
				if f.realtime {
					pos = f.feedChunk(cb, pos)
				} else {
					for pos < len(f.pcm) {
						pos = f.feedChunk(cb, pos)
					}
				}
				if pos >= len(f.pcm) && !finished {
					finished = true
					close(f.fed)
				}
			} else {
				if !finished {
					finished = true
					close(f.fed)
				}
				cb(silence, FrameBytes/2)
			}
		}
	}()
	return nil
}

func (f *FakeCapture) Stop() {
	if f.stopCh == nil {
		return
	}
	select {
	case <-f.stopCh:
	default:
		close(f.stopCh)
	}
	<-f.feedDone
}

func (f *FakeCapture) Close() { f.Stop() }
