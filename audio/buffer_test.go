// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/ik5/wavedit/audio"
	"github.com/ik5/wavedit/internal/audiotest"
)

func TestNewBuffer_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rate     int
		channels [][]float32
		wantErr  error
	}{
		{"zero rate", 0, [][]float32{{0}}, audio.ErrInvalidSampleRate},
		{"negative rate", -44100, [][]float32{{0}}, audio.ErrInvalidSampleRate},
		{"no channels", 44100, nil, audio.ErrNoChannels},
		{"ragged channels", 44100, [][]float32{{0, 1}, {0}}, audio.ErrChannelLength},
		{"mono", 44100, [][]float32{{0, 1, 2}}, nil},
		{"empty stereo", 44100, [][]float32{{}, {}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := audio.NewBuffer(tt.rate, tt.channels)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewBuffer() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuffer_Metadata(t *testing.T) {
	t.Parallel()

	buf := audiotest.SilentBuffer(44100, 2, 44100*3)

	if buf.SampleRate() != 44100 {
		t.Errorf("SampleRate() = %d, want 44100", buf.SampleRate())
	}
	if buf.NumChannels() != 2 {
		t.Errorf("NumChannels() = %d, want 2", buf.NumChannels())
	}
	if buf.Frames() != 132300 {
		t.Errorf("Frames() = %d, want 132300", buf.Frames())
	}
	if math.Abs(buf.Duration()-3.0) > 1e-9 {
		t.Errorf("Duration() = %v, want 3", buf.Duration())
	}
}

func TestBuffer_IDsAreUnique(t *testing.T) {
	t.Parallel()

	a := audiotest.SilentBuffer(8000, 1, 10)
	b := audiotest.SilentBuffer(8000, 1, 10)
	if a.ID() == b.ID() {
		t.Errorf("two buffers share ID %d", a.ID())
	}
	if b.Mixdown() != b {
		t.Error("Mixdown() of a mono buffer should return the same buffer")
	}
}

func TestBuffer_FrameAt(t *testing.T) {
	t.Parallel()

	buf := audiotest.SilentBuffer(44100, 1, 441000)

	tests := []struct {
		t    float64
		want int
	}{
		{-1, 0},
		{0, 0},
		{3.0, 132300},
		{1.0 / 44100 * 0.6, 1},
		{1.0 / 44100 * 0.4, 0},
		{10, 441000},
		{20, 441000},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := buf.FrameAt(tt.t); got != tt.want {
			t.Errorf("FrameAt(%v) = %d, want %d", tt.t, got, tt.want)
		}
	}
}

func TestBuffer_Mixdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
		value    func(sample, channel int) float32
		want     float32
	}{
		{"stereo", 2, func(_, c int) float32 { return []float32{0.4, 0.6}[c] }, 0.5},
		{"quad", 4, func(_, c int) float32 { return float32(c) * 0.1 }, 0.15},
		{"five channels", 5, func(_, c int) float32 { return float32(c) }, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			buf := audiotest.NewBuffer(8000, tt.channels, 16, tt.value)
			mono := buf.Mixdown()
			if mono.NumChannels() != 1 {
				t.Fatalf("NumChannels() = %d, want 1", mono.NumChannels())
			}
			if mono.Frames() != 16 {
				t.Fatalf("Frames() = %d, want 16", mono.Frames())
			}
			for i, s := range mono.Channel(0) {
				if math.Abs(float64(s-tt.want)) > 1e-6 {
					t.Errorf("sample %d = %v, want %v", i, s, tt.want)
				}
			}
		})
	}
}

func TestBuffer_ReaderInterleaves(t *testing.T) {
	t.Parallel()

	buf := audiotest.RampBuffer(8000, 2, 5)
	r := buf.Reader()

	if r.Channels() != 2 || r.SampleRate() != 8000 {
		t.Fatalf("reader metadata = %d ch @ %d Hz", r.Channels(), r.SampleRate())
	}

	dst := make([]float32, 4)
	var got []float32
	for {
		n, err := r.ReadSamples(dst)
		got = append(got, dst[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	want := []float32{0, 0.5, 1, 1.5, 2, 2.5, 3, 3.5, 4, 4.5}
	if len(got) != len(want) {
		t.Fatalf("read %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBuffer_ReaderRejectsMisalignedDst(t *testing.T) {
	t.Parallel()

	r := audiotest.SilentBuffer(8000, 2, 10).Reader()
	if _, err := r.ReadSamples(make([]float32, 3)); !errors.Is(err, audio.ErrInvalidDstSize) {
		t.Errorf("ReadSamples() error = %v, want ErrInvalidDstSize", err)
	}
}
