// SPDX-License-Identifier: EPL-2.0

// Package utils holds small sample-level helpers shared by the audio,
// format and playback packages.
package utils

// CubicInterpolate performs Catmull-Rom interpolation.
// x is the fractional position between y1 and y2 (0 <= x <= 1)
// y0, y1, y2, y3 are four consecutive samples
func CubicInterpolate(y0, y1, y2, y3, x float32) float32 {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2
	a3 := y1

	return a0*x*x*x + a1*x*x + a2*x + a3
}

// InterpolateAt reads src at a fractional frame position using
// CubicInterpolate. Neighbours past either end repeat the edge sample.
// An empty src reads as silence.
func InterpolateAt(src []float32, pos float64) float32 {
	if len(src) == 0 {
		return 0
	}
	last := len(src) - 1
	if pos <= 0 {
		return src[0]
	}
	if pos >= float64(last) {
		return src[last]
	}

	idx := int(pos)
	frac := float32(pos - float64(idx))
	at := func(i int) float32 {
		return src[max(0, min(i, last))]
	}
	return CubicInterpolate(at(idx-1), at(idx), at(idx+1), at(idx+2), frac)
}
