// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/ik5/wavedit/audio"
	"github.com/ik5/wavedit/internal/memio"
	"github.com/ik5/wavedit/utils"
)

// DefaultBitDepth is used by callers that do not choose a sample width.
const DefaultBitDepth = 16

// encodeChunkFrames bounds the interleaved scratch buffer handed to the encoder.
const encodeChunkFrames = 8192

// Encode writes buf as an integer PCM WAV file. w must be seekable because
// the RIFF and data chunk sizes are patched once all frames are written.
func Encode(w io.WriteSeeker, buf *audio.Buffer, bitDepth int) error {
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	nch := buf.NumChannels()
	enc := wav.NewEncoder(w, buf.SampleRate(), bitDepth, nch, formatPCM)

	frames := buf.Frames()
	chunk := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: nch,
			SampleRate:  buf.SampleRate(),
		},
		Data:           make([]int, 0, min(frames, encodeChunkFrames)*nch),
		SourceBitDepth: bitDepth,
	}

	// An empty write still emits the data chunk header.
	start := 0
	for {
		end := min(start+encodeChunkFrames, frames)
		chunk.Data = chunk.Data[:0]
		for i := start; i < end; i++ {
			for c := range nch {
				v := utils.FloatToPCM(buf.Channel(c)[i], bitDepth)
				if bitDepth == 8 {
					v += 128
				}
				chunk.Data = append(chunk.Data, v)
			}
		}
		if err := enc.Write(chunk); err != nil {
			return fmt.Errorf("writing wav frames: %w", err)
		}
		start = end
		if start >= frames {
			break
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalizing wav: %w", err)
	}
	return nil
}

// EncodeBytes encodes buf into an in-memory WAV file.
func EncodeBytes(buf *audio.Buffer, bitDepth int) ([]byte, error) {
	var out memio.WriteSeeker
	if err := Encode(&out, buf, bitDepth); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
