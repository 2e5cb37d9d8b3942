// Package beep plays short synthesized feedback tones: listening
// started/stopped, phrase transcribed, and an error/no-speech buzz.
package beep

var disabled bool

// Disable silences all tones (tests, headless runs).
func Disable() { disabled = true }

const (
	sampleRate = 44100

	// Listen start: high pitch, short
	startFreq   = 1200.0
	startVolume = 0.5
	startDecay  = 60.0

	// Listen stop: medium pitch
	stopFreq   = 900.0
	stopVolume = 0.5
	stopDecay  = 40.0

	// Phrase transcribed: soft tick
	doneFreq   = 1000.0
	doneVolume = 0.35
	doneDecay  = 80.0

	// Error / no speech: low pitch double-beep
	errorFreq   = 350.0
	errorVolume = 0.6
	errorDecay  = 30.0
)
