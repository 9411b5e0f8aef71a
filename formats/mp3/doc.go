// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 files with github.com/hajimehoshi/go-mp3.
//
// go-mp3 always produces interleaved 16-bit stereo, so the returned
// *audio.Buffer has two channels even for mono streams. Call Mixdown on the
// result when a single channel is wanted.
//
//	f, _ := os.Open("voice.mp3")
//	buf, err := mp3.Decoder{}.Decode(f)
//
// Samples are normalized to [-1.0, 1.0]. Errors from go-mp3 are returned
// wrapped, so errors.Is works against the library's own values.
package mp3
