// SPDX-License-Identifier: EPL-2.0

package utils

// FloatToPCM scales a sample in [-1,1] to a signed integer of bitDepth
// bits. Positive full scale maps to 2^(bitDepth-1)-1 so that 1.0 never
// overflows; values outside [-1,1] are clamped.
func FloatToPCM(x float32, bitDepth int) int {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}
	scale := float64(int64(1)<<(bitDepth-1)) - 1
	return int(float64(x) * scale)
}

// PCMToFloat is the inverse of FloatToPCM for decoders: it divides by
// 2^(bitDepth-1) so the most negative code maps exactly to -1.
func PCMToFloat(v int, bitDepth int) float32 {
	return float32(float64(v) / float64(int64(1)<<(bitDepth-1)))
}
