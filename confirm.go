package main

import (
	"sync"

	webrtcvad "github.com/maxhawkins/go-webrtcvad"

	"github.com/sasajib/voice-dictation/audio"
)

const (
	confirmMode  = 3 // most aggressive webrtcvad filtering
	confirmRatio = 0.5
)

// webrtcConfirmer scores an accumulated window with the WebRTC VAD and
// approves it when at least confirmRatio of its frames are speech.
type webrtcConfirmer struct {
	mu  sync.Mutex
	vad *webrtcvad.VAD
}

func newWebRTCConfirmer() (*webrtcConfirmer, error) {
	v, err := webrtcvad.New()
	if err != nil {
		return nil, err
	}
	if err := v.SetMode(confirmMode); err != nil {
		return nil, err
	}
	return &webrtcConfirmer{vad: v}, nil
}

func (c *webrtcConfirmer) IsSpeech(pcm []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	total, speech := 0, 0
	for off := 0; off+audio.FrameBytes <= len(pcm); off += audio.FrameBytes {
		active, err := c.vad.Process(audio.SampleRate, pcm[off:off+audio.FrameBytes])
		if err != nil {
			continue
		}
		total++
		if active {
			speech++
		}
	}
	if total == 0 {
		return false
	}
	return float64(speech)/float64(total) >= confirmRatio
}
