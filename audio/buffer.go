// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"math"
	"sync/atomic"
)

var lastBufferID atomic.Uint64

// Buffer is a fully decoded, de-interleaved audio clip.
//
// A Buffer is treated as immutable once constructed: edits produce a new
// Buffer with a new ID and never write into an existing one. The ID is
// unique for the lifetime of the process, which lets caches key on it.
type Buffer struct {
	id         uint64
	sampleRate int
	channels   [][]float32
}

// NewBuffer wraps per-channel sample slices. The slices are owned by the
// Buffer afterwards and must not be modified by the caller.
func NewBuffer(sampleRate int, channels [][]float32) (*Buffer, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	if len(channels) == 0 {
		return nil, ErrNoChannels
	}
	frames := len(channels[0])
	for _, ch := range channels[1:] {
		if len(ch) != frames {
			return nil, ErrChannelLength
		}
	}
	return &Buffer{
		id:         lastBufferID.Add(1),
		sampleRate: sampleRate,
		channels:   channels,
	}, nil
}

// ID identifies this version of the audio.
func (b *Buffer) ID() uint64 { return b.id }

func (b *Buffer) SampleRate() int  { return b.sampleRate }
func (b *Buffer) NumChannels() int { return len(b.channels) }

// Frames is the number of samples per channel.
func (b *Buffer) Frames() int { return len(b.channels[0]) }

// Duration in seconds.
func (b *Buffer) Duration() float64 {
	return float64(b.Frames()) / float64(b.sampleRate)
}

// Channel returns the samples of channel i. The slice must be treated as
// read-only.
func (b *Buffer) Channel(i int) []float32 { return b.channels[i] }

// FrameAt converts a time in seconds to the nearest frame index, clamped
// to [0, Frames()].
func (b *Buffer) FrameAt(t float64) int {
	if math.IsNaN(t) || t <= 0 {
		return 0
	}
	if t >= b.Duration() {
		return b.Frames()
	}
	idx := int(math.Round(t * float64(b.sampleRate)))
	return min(idx, b.Frames())
}

// Mixdown averages all channels into a new mono Buffer. A mono Buffer is
// returned unchanged.
func (b *Buffer) Mixdown() *Buffer {
	if len(b.channels) == 1 {
		return b
	}

	frames := b.Frames()
	out := make([]float32, frames)
	invChannels := float32(1.0) / float32(len(b.channels))

	switch len(b.channels) {
	case 2:
		l, r := b.channels[0], b.channels[1]
		for f := range frames {
			out[f] = (l[f] + r[f]) * 0.5
		}
	default:
		for f := range frames {
			sum := float32(0)
			for _, ch := range b.channels {
				sum += ch[f]
			}
			out[f] = sum * invChannels
		}
	}

	return &Buffer{
		id:         lastBufferID.Add(1),
		sampleRate: b.sampleRate,
		channels:   [][]float32{out},
	}
}

// Reader returns an interleaved streaming view over the buffer.
func (b *Buffer) Reader() Source {
	return &bufferReader{buf: b}
}

type bufferReader struct {
	buf *Buffer
	pos int
}

func (r *bufferReader) SampleRate() int { return r.buf.sampleRate }
func (r *bufferReader) Channels() int   { return len(r.buf.channels) }
func (r *bufferReader) BufSize() int    { return 4096 }
func (r *bufferReader) Close() error    { return nil }

func (r *bufferReader) ReadSamples(dst []float32) (int, error) {
	channels := len(r.buf.channels)
	if len(dst)%channels != 0 {
		return 0, ErrInvalidDstSize
	}

	frames := min(len(dst)/channels, r.buf.Frames()-r.pos)
	if frames <= 0 {
		return 0, io.EOF
	}

	for f := range frames {
		base := f * channels
		for c, ch := range r.buf.channels {
			dst[base+c] = ch[r.pos+f]
		}
	}
	r.pos += frames

	if r.pos >= r.buf.Frames() {
		return frames * channels, io.EOF
	}
	return frames * channels, nil
}
