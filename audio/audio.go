package audio

// Capture format shared by the whole pipeline. Fixed at startup; the
// detector, the engine handoff and the WAV writer all assume it.
const (
	SampleRate    = 16000
	Channels      = 1
	BitsPerSample = 16

	FrameMs    = 20
	FrameBytes = SampleRate * FrameMs / 1000 * 2 // 640 bytes per frame
)

type DataCallback func(data []byte, frameCount uint32)

type CaptureConfig struct {
	SampleRate uint32
	Channels   uint32
}

type DeviceInfo struct {
	ID   string // opaque platform-specific identifier
	Name string
}

type Context interface {
	Devices() ([]DeviceInfo, error)
	NewCapture(device *DeviceInfo, config CaptureConfig) (CaptureDevice, error)
	Close()
}

type CaptureDevice interface {
	Start() error
	Stop()
	Close()
	SetCallback(cb DataCallback)
	ClearCallback()
	DeviceName() string
}
