// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and encodes integer PCM WAV files.
//
// Both directions are built on github.com/go-audio/wav. The decoder reads
// 8, 16, 24 and 32-bit PCM with any channel count and returns the whole clip
// as an *audio.Buffer. Samples are normalized to [-1.0, 1.0].
//
//	f, _ := os.Open("take.wav")
//	buf, err := wav.Decoder{}.Decode(f)
//
// Encode writes a Buffer back out. The writer must be seekable since the
// chunk sizes are patched after the frames are written; EncodeBytes uses an
// in-memory writer instead.
//
//	out, _ := os.Create("edited.wav")
//	err := wav.Encode(out, buf, 16)
//
// # Errors
//
//   - ErrNotWavFile: no RIFF/WAVE header
//   - ErrUnsupportedFormat: IEEE float, ADPCM and other non-PCM encodings
//   - ErrUnsupportedBitDepth: widths other than 8, 16, 24 or 32 bits
//   - ErrEmptyData: the data chunk holds no frames
package wav
