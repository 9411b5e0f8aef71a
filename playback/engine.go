// SPDX-License-Identifier: EPL-2.0

// Package playback plays audio buffers on the output device.
//
// Engine is what the timeline controller drives. The ebiten subpackage
// implements it on the audio device, Null keeps wall-clock time for
// headless sessions, and tests use a fake from internal/audiotest.
package playback

import (
	"github.com/ik5/wavedit/audio"
)

// Engine loads one buffer at a time and plays it.
type Engine interface {
	// Load replaces the current buffer. Playback stops.
	Load(buf *audio.Buffer) error
	Play(offset float64) error
	Pause()
	// Stop pauses and rewinds to 0.
	Stop()
	Seek(t float64)
	SetPlaybackRate(rate float64)
	CurrentTime() float64
	Duration() float64
	// Playing turns false on its own when the end of the buffer is reached.
	Playing() bool
}
