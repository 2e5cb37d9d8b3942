package audio

import (
	"testing"
	"time"
)

// manualDevice lets tests drive the capture callback directly.
type manualDevice struct {
	cb DataCallback
}

func (m *manualDevice) Start() error                { return nil }
func (m *manualDevice) Stop()                       {}
func (m *manualDevice) Close()                      {}
func (m *manualDevice) SetCallback(cb DataCallback) { m.cb = cb }
func (m *manualDevice) ClearCallback()              { m.cb = nil }
func (m *manualDevice) DeviceName() string          { return "manual" }

func (m *manualDevice) push(n int, fill byte) {
	data := make([]byte, n)
	for i := range data {
		data[i] = fill
	}
	m.cb(data, uint32(n/2))
}

func TestSourceSlicesFixedFrames(t *testing.T) {
	dev := &manualDevice{}
	src := NewSource(dev, 8)
	if err := src.Start(); err != nil {
		t.Fatal(err)
	}

	// 1000 bytes: one full frame out, 360 bytes held back.
	dev.push(1000, 1)
	select {
	case frame := <-src.Frames():
		if len(frame) != FrameBytes {
			t.Fatalf("frame size = %d, want %d", len(frame), FrameBytes)
		}
	default:
		t.Fatal("expected one frame")
	}
	select {
	case <-src.Frames():
		t.Fatal("unexpected second frame from partial data")
	default:
	}

	// 280 more bytes complete the second frame.
	dev.push(280, 2)
	select {
	case frame := <-src.Frames():
		if frame[0] != 1 || frame[FrameBytes-1] != 2 {
			t.Fatalf("frame boundary wrong: first=%d last=%d", frame[0], frame[FrameBytes-1])
		}
	default:
		t.Fatal("expected completed frame")
	}
}

func TestSourceDropsOldestWhenFull(t *testing.T) {
	dev := &manualDevice{}
	src := NewSource(dev, 2)
	if err := src.Start(); err != nil {
		t.Fatal(err)
	}

	for i := byte(0); i < 4; i++ {
		dev.push(FrameBytes, i)
	}
	if src.Dropped() == 0 {
		t.Fatal("expected dropped frames")
	}
	// The newest frames survive.
	frame := <-src.Frames()
	if frame[0] == 0 {
		t.Fatal("oldest frame should have been dropped")
	}
}

func TestSourceStopClosesFrames(t *testing.T) {
	dev := &manualDevice{}
	src := NewSource(dev, 2)
	if err := src.Start(); err != nil {
		t.Fatal(err)
	}
	go src.Stop()
	select {
	case _, ok := <-src.Frames():
		if ok {
			t.Fatal("expected closed channel, got frame")
		}
	case <-time.After(time.Second):
		t.Fatal("Frames not closed after Stop")
	}
}

func TestFakeCaptureDeliversScript(t *testing.T) {
	pcm := make([]byte, FrameBytes*3)
	fake := NewFakeCapture(pcm, false)
	src := NewSource(fake, 8)
	if err := src.Start(); err != nil {
		t.Fatal(err)
	}
	defer src.Stop()

	select {
	case <-fake.Fed():
	case <-time.After(2 * time.Second):
		t.Fatal("script never delivered")
	}
	for i := 0; i < 3; i++ {
		select {
		case <-src.Frames():
		case <-time.After(time.Second):
			t.Fatalf("missing frame %d", i)
		}
	}
}
