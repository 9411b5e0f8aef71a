// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
)

// maxEmptyReads bounds how many consecutive (0, nil) reads Collect accepts
// before giving up on a source.
const maxEmptyReads = 100

// Collect drains src into a de-interleaved Buffer.
//
// Decoders that only offer a streaming interface use this to produce the
// in-memory clip the editor works on. Reads need not be frame aligned; a
// trailing partial frame is dropped. src is not closed.
func Collect(src Source) (*Buffer, error) {
	channels := src.Channels()
	if channels <= 0 {
		return nil, ErrNoChannels
	}

	bufSize := src.BufSize()
	if bufSize < channels {
		bufSize = 4096
	}
	// Keep reads frame aligned.
	bufSize -= bufSize % channels
	if bufSize == 0 {
		bufSize = channels
	}

	out := make([][]float32, channels)
	buf := make([]float32, bufSize)
	empty := 0
	next := 0

	for {
		n, err := src.ReadSamples(buf)
		for _, s := range buf[:n] {
			out[next] = append(out[next], s)
			next = (next + 1) % channels
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}
		if n > 0 {
			empty = 0
			continue
		}
		empty++
		if empty >= maxEmptyReads {
			return nil, io.ErrNoProgress
		}
	}

	frames := len(out[channels-1])
	for c := range out {
		if out[c] == nil {
			out[c] = []float32{}
		}
		out[c] = out[c][:frames]
	}
	return NewBuffer(src.SampleRate(), out)
}
