// SPDX-License-Identifier: EPL-2.0

// Package edit produces new audio buffers from time ranges of an existing
// one. Inputs are never modified.
//
// Range boundaries are converted to frame indices with Buffer.FrameAt, so
// the two halves of a cut meet at the same index and a keep of [a, b)
// followed by a keep of [b, c) covers every frame exactly once.
package edit

import (
	"errors"
	"math"

	"github.com/ik5/wavedit/audio"
)

// ErrFormatMismatch is returned by Replace when the replacement has a
// different sample rate or channel count.
var ErrFormatMismatch = errors.New("replacement audio format does not match")

// Frames returns the frame range [lo, hi) covered by [start, end] after
// clamping both to the clip and ordering them.
func Frames(buf *audio.Buffer, start, end float64) (lo, hi int) {
	dur := buf.Duration()
	start = clamp(start, 0, dur)
	end = clamp(end, 0, dur)
	if end < start {
		start, end = end, start
	}
	return buf.FrameAt(start), buf.FrameAt(end)
}

// Splice keeps only [start, end) of every channel.
func Splice(buf *audio.Buffer, start, end float64) (*audio.Buffer, error) {
	lo, hi := Frames(buf, start, end)

	out := make([][]float32, buf.NumChannels())
	for c := range out {
		out[c] = append([]float32(nil), buf.Channel(c)[lo:hi]...)
		if out[c] == nil {
			out[c] = []float32{}
		}
	}
	return audio.NewBuffer(buf.SampleRate(), out)
}

// Cut removes [start, end) and joins what is left.
func Cut(buf *audio.Buffer, start, end float64) (*audio.Buffer, error) {
	lo, hi := Frames(buf, start, end)
	n := buf.Frames()

	out := make([][]float32, buf.NumChannels())
	for c := range out {
		ch := buf.Channel(c)
		joined := make([]float32, 0, lo+n-hi)
		joined = append(joined, ch[:lo]...)
		joined = append(joined, ch[hi:]...)
		out[c] = joined
	}
	return audio.NewBuffer(buf.SampleRate(), out)
}

// Replace substitutes [start, end) with the frames of with, which may be
// longer or shorter than the range it replaces.
func Replace(buf *audio.Buffer, start, end float64, with *audio.Buffer) (*audio.Buffer, error) {
	if with.SampleRate() != buf.SampleRate() || with.NumChannels() != buf.NumChannels() {
		return nil, ErrFormatMismatch
	}
	lo, hi := Frames(buf, start, end)
	n := buf.Frames()

	out := make([][]float32, buf.NumChannels())
	for c := range out {
		ch := buf.Channel(c)
		joined := make([]float32, 0, lo+with.Frames()+n-hi)
		joined = append(joined, ch[:lo]...)
		joined = append(joined, with.Channel(c)...)
		joined = append(joined, ch[hi:]...)
		out[c] = joined
	}
	return audio.NewBuffer(buf.SampleRate(), out)
}

// Trim classifies a removed range by where it sits in the clip.
type Trim int

const (
	TrimNone Trim = iota
	TrimStart
	TrimEnd
)

func (t Trim) String() string {
	switch t {
	case TrimStart:
		return "start"
	case TrimEnd:
		return "end"
	default:
		return "none"
	}
}

// DefaultTrimTolerance is how close to either end of the clip a removed
// range must be to count as trimming silence.
const DefaultTrimTolerance = 0.1

// ClassifyTrim tags a cut touching the start or end of the clip, within
// tolerance seconds. A range touching both ends reports TrimStart.
func ClassifyTrim(start, end, duration, tolerance float64) Trim {
	if end < start {
		start, end = end, start
	}
	switch {
	case start <= tolerance:
		return TrimStart
	case end >= duration-tolerance:
		return TrimEnd
	default:
		return TrimNone
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(math.Max(v, lo), hi)
}
