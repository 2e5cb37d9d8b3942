//go:build !linux

package beep

// Feedback tones are PulseAudio-only for now; elsewhere they are no-ops.

func Init()            {}
func PlayListenStart() {}
func PlayListenStop()  {}
func PlayPhraseDone()  {}
func PlayError()       {}
