// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	// ErrNotWavFile indicates the input does not carry a RIFF/WAVE header.
	ErrNotWavFile = errors.New("not a WAV file")

	// ErrUnsupportedFormat indicates a non-PCM encoding such as IEEE float or ADPCM.
	ErrUnsupportedFormat = errors.New("only integer PCM WAV is supported")

	// ErrUnsupportedBitDepth indicates a sample width other than 8, 16, 24 or 32 bits.
	ErrUnsupportedBitDepth = errors.New("unsupported WAV bit depth")

	// ErrEmptyData indicates a WAV file with no PCM frames.
	ErrEmptyData = errors.New("WAV file has no audio data")
)
