// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"encoding/binary"
	"io"
	"math"
	"sync"

	"github.com/ik5/wavedit/audio"
	"github.com/ik5/wavedit/utils"
)

// bytesPerFrame is one stereo float32 frame.
const bytesPerFrame = 8

// Stream renders a Buffer as interleaved stereo little-endian float32 at
// the output rate. Mono is duplicated to both sides; channels past the
// second are ignored. The read position can be moved and the speed
// changed while it is being read.
type Stream struct {
	mu    sync.Mutex
	buf   *audio.Buffer
	step  float64
	rate  float64
	pos   float64
	ended bool
}

// NewStream wraps buf for a device running at outputRate.
func NewStream(buf *audio.Buffer, outputRate int) *Stream {
	return &Stream{
		buf:  buf,
		step: float64(buf.SampleRate()) / float64(outputRate),
		rate: 1,
	}
}

func (s *Stream) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return 0, io.EOF
	}

	left := s.buf.Channel(0)
	right := left
	if s.buf.NumChannels() > 1 {
		right = s.buf.Channel(1)
	}
	end := float64(s.buf.Frames())
	advance := s.step * s.rate

	n := 0
	for ; n+bytesPerFrame <= len(p); n += bytesPerFrame {
		if s.pos >= end {
			s.ended = true
			break
		}
		l := utils.InterpolateAt(left, s.pos)
		r := utils.InterpolateAt(right, s.pos)
		binary.LittleEndian.PutUint32(p[n:], math.Float32bits(l))
		binary.LittleEndian.PutUint32(p[n+4:], math.Float32bits(r))
		s.pos += advance
	}

	if s.ended && n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Seek moves the read position to t seconds, clamped to the buffer.
func (s *Stream) Seek(t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pos = float64(s.buf.FrameAt(t))
	s.ended = false
}

// Position is the read position in seconds.
func (s *Stream) Position() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return min(s.pos, float64(s.buf.Frames())) / float64(s.buf.SampleRate())
}

// SetRate changes the playback speed. Non-positive rates are ignored.
func (s *Stream) SetRate(rate float64) {
	if rate <= 0 || math.IsNaN(rate) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rate = rate
}

// Ended reports whether the end of the buffer has been read.
func (s *Stream) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

func (s *Stream) Close() error { return nil }
