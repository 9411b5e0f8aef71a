// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files with github.com/go-audio/aiff.
//
// 8, 16, 24 and 32-bit signed PCM is supported at any channel count and
// sample rate. The go-audio decoder needs an io.ReadSeeker; plain readers
// are buffered in memory first.
//
//	f, _ := os.Open("loop.aif")
//	buf, err := aiff.Decoder{}.Decode(f)
//
// # Errors
//
//   - ErrNotAiffFile: no FORM/AIFF header
//   - ErrUnsupportedBitDepth: widths other than 8, 16, 24 or 32 bits
//   - ErrUnsupportedAiffLayout: the COMM chunk did not describe any channels
package aiff
