// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/ik5/wavedit/audio"
)

// fakeOgg hands out interleaved float32 frames, at most chunk frames per
// Read, the way oggvorbis.Reader returns one packet at a time.
type fakeOgg struct {
	rate, channels int
	samples        []float32
	chunk          int
	failErr        error
}

func (f *fakeOgg) SampleRate() int { return f.rate }
func (f *fakeOgg) Channels() int   { return f.channels }

func (f *fakeOgg) Read(p []float32) (int, error) {
	if f.failErr != nil {
		return 0, f.failErr
	}
	if len(f.samples) == 0 {
		return 0, io.EOF
	}
	frames := len(p) / f.channels
	if f.chunk > 0 {
		frames = min(frames, f.chunk)
	}
	n := min(frames*f.channels, len(f.samples))
	copy(p, f.samples[:n])
	f.samples = f.samples[n:]
	return n, nil
}

func newSource(dec oggReader, bufSize int) *source {
	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   dec.Channels(),
		frameBuf:   make([]float32, bufSize),
	}
}

func TestDecoder_RejectsGarbage(t *testing.T) {
	t.Parallel()

	for name, data := range map[string][]byte{
		"empty": {},
		"text":  []byte("OggS but not really"),
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if _, err := (Decoder{}).Decode(bytes.NewReader(data)); err == nil {
				t.Error("Decode() error = nil, want error")
			}
		})
	}
}

func TestSource_Channels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
		frames   int
	}{
		{"mono", 1, 700},
		{"stereo", 2, 500},
		{"5.1", 6, 123},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			samples := make([]float32, tt.channels*tt.frames)
			for i := range tt.frames {
				for c := range tt.channels {
					samples[i*tt.channels+c] = float32(c) + float32(i)/float32(tt.frames)
				}
			}

			buf, err := audio.Collect(newSource(&fakeOgg{rate: 48000, channels: tt.channels, samples: samples, chunk: 64}, 256))
			if err != nil {
				t.Fatalf("Collect() error = %v", err)
			}
			if buf.NumChannels() != tt.channels || buf.Frames() != tt.frames {
				t.Fatalf("got %d ch x %d frames, want %d x %d", buf.NumChannels(), buf.Frames(), tt.channels, tt.frames)
			}
			for c := range tt.channels {
				for i, got := range buf.Channel(c) {
					if want := float32(c) + float32(i)/float32(tt.frames); got != want {
						t.Fatalf("channel %d frame %d = %v, want %v", c, i, got, want)
					}
				}
			}
		})
	}
}

func TestSource_ReadSamples_FrameAlignment(t *testing.T) {
	t.Parallel()

	src := newSource(&fakeOgg{rate: 44100, channels: 2, samples: []float32{1, 2, 3, 4, 5, 6}}, 0)

	// Five slots hold two whole stereo frames.
	dst := make([]float32, 5)
	n, err := src.ReadSamples(dst)
	if err != nil || n != 4 {
		t.Fatalf("ReadSamples() = %d, %v, want 4, nil", n, err)
	}

	if n, err := src.ReadSamples(dst[:1]); n != 0 || !errors.Is(err, audio.ErrInvalidDstSize) {
		t.Errorf("ReadSamples(1 slot) = %d, %v, want 0, ErrInvalidDstSize", n, err)
	}
	if n, err := src.ReadSamples(nil); n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = %d, %v, want 0, nil", n, err)
	}
}

func TestSource_ReadError(t *testing.T) {
	t.Parallel()

	src := newSource(&fakeOgg{rate: 44100, channels: 2, failErr: io.ErrUnexpectedEOF}, 64)
	if _, err := audio.Collect(src); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("Collect() error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	samples := make([]float32, 2*44100)
	dst := make([]float32, 4096)

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		src := newSource(&fakeOgg{rate: 44100, channels: 2, samples: samples}, 4096)
		for {
			if _, err := src.ReadSamples(dst); err != nil {
				break
			}
		}
	}
}
