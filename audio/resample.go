// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math"

	"github.com/ik5/wavedit/utils"
)

// Resample converts buf to dstRate using Catmull-Rom cubic interpolation.
// When downsampling a one-pole low-pass is applied first to tame aliasing.
// The channel count is preserved. A buffer already at dstRate is returned
// unchanged.
func Resample(buf *Buffer, dstRate int) (*Buffer, error) {
	if dstRate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	if buf.sampleRate == dstRate {
		return buf, nil
	}

	// ratio is how many source frames one output frame advances.
	ratio := float64(buf.sampleRate) / float64(dstRate)
	srcFrames := buf.Frames()
	dstFrames := int(math.Round(float64(srcFrames) / ratio))

	out := make([][]float32, len(buf.channels))
	for c, ch := range buf.channels {
		src := ch
		if ratio > 1.0 {
			src = lowPass(ch, 0.5)
		}
		out[c] = resampleChannel(src, ratio, dstFrames)
	}

	return NewBuffer(dstRate, out)
}

func resampleChannel(src []float32, ratio float64, dstFrames int) []float32 {
	dst := make([]float32, dstFrames)
	for i := range dstFrames {
		dst[i] = utils.InterpolateAt(src, float64(i)*ratio)
	}
	return dst
}

// lowPass runs y[n] = alpha*x[n] + (1-alpha)*y[n-1], seeded with the first
// sample to avoid a warm-up transient.
func lowPass(src []float32, alpha float32) []float32 {
	out := make([]float32, len(src))
	if len(src) == 0 {
		return out
	}
	state := src[0]
	for i, x := range src {
		state = alpha*x + (1-alpha)*state
		out[i] = state
	}
	return out
}
