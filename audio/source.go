package audio

import "sync"

// Source adapts a callback-driven CaptureDevice into a stream of
// fixed-size PCM frames on a channel. The capture callback never blocks:
// when the consumer falls behind, the oldest buffered frames are dropped
// and counted instead.
type Source struct {
	dev    CaptureDevice
	frames chan []byte

	mu      sync.Mutex
	rem     []byte
	started bool
	dropped uint64
}

// NewSource wraps dev with a frame buffer of the given depth.
func NewSource(dev CaptureDevice, depth int) *Source {
	if depth <= 0 {
		depth = 64
	}
	return &Source{dev: dev, frames: make(chan []byte, depth)}
}

func (s *Source) Start() error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.mu.Unlock()

	s.dev.SetCallback(s.onData)
	if err := s.dev.Start(); err != nil {
		s.dev.ClearCallback()
		s.mu.Lock()
		s.started = false
		s.mu.Unlock()
		return err
	}
	return nil
}

// Stop releases the device and closes the frame channel, so a reader
// blocked on Frames() wakes immediately.
func (s *Source) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.mu.Unlock()

	s.dev.ClearCallback()
	s.dev.Stop()
	close(s.frames)
}

// Frames delivers captured PCM frames of exactly FrameBytes each.
func (s *Source) Frames() <-chan []byte { return s.frames }

// Dropped reports how many frames were discarded because the consumer
// lagged behind capture.
func (s *Source) Dropped() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

func (s *Source) DeviceName() string { return s.dev.DeviceName() }

func (s *Source) onData(data []byte, _ uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.rem = append(s.rem, data...)
	for len(s.rem) >= FrameBytes {
		frame := make([]byte, FrameBytes)
		copy(frame, s.rem[:FrameBytes])
		s.rem = s.rem[FrameBytes:]
		select {
		case s.frames <- frame:
		default:
			// Full: drop the oldest frame, then retry once.
			select {
			case <-s.frames:
				s.dropped++
			default:
			}
			select {
			case s.frames <- frame:
			default:
				s.dropped++
			}
		}
	}
}
