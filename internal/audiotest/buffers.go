// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds test doubles shared by the wavedit packages:
// generated buffers, a streaming mock source and a fake playback engine.
package audiotest

import (
	"github.com/ik5/wavedit/audio"
)

// NewBuffer builds a Buffer whose samples come from waveform. It panics
// on invalid arguments since it is only used from tests.
func NewBuffer(sampleRate, channels, frames int, waveform func(sample int, channel int) float32) *audio.Buffer {
	data := make([][]float32, channels)
	for c := range channels {
		data[c] = make([]float32, frames)
		for i := range frames {
			data[c][i] = waveform(i, c)
		}
	}
	buf, err := audio.NewBuffer(sampleRate, data)
	if err != nil {
		panic(err)
	}
	return buf
}

// SineBuffer is a unit sine at frequency on every channel.
func SineBuffer(sampleRate, channels, frames int, frequency float64) *audio.Buffer {
	return NewBuffer(sampleRate, channels, frames, Sine(sampleRate, frequency))
}

// SilentBuffer is all zeros.
func SilentBuffer(sampleRate, channels, frames int) *audio.Buffer {
	return ConstantBuffer(sampleRate, channels, frames, 0)
}

// ConstantBuffer holds value on every sample.
func ConstantBuffer(sampleRate, channels, frames int, value float32) *audio.Buffer {
	return NewBuffer(sampleRate, channels, frames, func(int, int) float32 { return value })
}

// RampBuffer stores the sample index itself (offset by channel*0.5), so
// tests can check exactly which source frames survived an edit.
// float32 represents every integer index below 2^24 exactly.
func RampBuffer(sampleRate, channels, frames int) *audio.Buffer {
	return NewBuffer(sampleRate, channels, frames, func(sample, channel int) float32 {
		return float32(sample) + float32(channel)*0.5
	})
}
