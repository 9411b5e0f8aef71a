// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files with github.com/jfreymuth/oggvorbis.
//
// The decoder keeps the stream's channel count and sample rate and returns
// the whole clip as an *audio.Buffer with samples in [-1.0, 1.0].
//
//	f, _ := os.Open("ambience.ogg")
//	buf, err := vorbis.Decoder{}.Decode(f)
package vorbis
