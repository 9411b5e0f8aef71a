// SPDX-License-Identifier: EPL-2.0

package edit

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/ik5/wavedit/audio"
	"github.com/ik5/wavedit/internal/audiotest"
)

const rate = 44100

// tenSeconds is a mono ramp whose sample values equal their index.
func tenSeconds() *audio.Buffer {
	return audiotest.RampBuffer(rate, 1, 10*rate)
}

func TestSplice_KeepOneSecond(t *testing.T) {
	t.Parallel()

	src := tenSeconds()
	got, err := Splice(src, 3, 4)
	if err != nil {
		t.Fatalf("Splice() error = %v", err)
	}
	if math.Abs(got.Duration()-1) > 1.0/rate {
		t.Errorf("Duration() = %v, want 1", got.Duration())
	}
	if d := got.Frames() - rate; d < -1 || d > 1 {
		t.Errorf("Frames() = %d, want %d±1", got.Frames(), rate)
	}
	if got.Channel(0)[0] != 3*rate {
		t.Errorf("first sample = %v, want %v", got.Channel(0)[0], 3*rate)
	}
	if got.SampleRate() != rate || got.NumChannels() != 1 {
		t.Errorf("format = %d Hz x %d, want %d Hz x 1", got.SampleRate(), got.NumChannels(), rate)
	}
	if got.ID() == src.ID() {
		t.Error("Splice() must return a new buffer identity")
	}
}

func TestCut_RemoveOneSecond(t *testing.T) {
	t.Parallel()

	src := tenSeconds()
	got, err := Cut(src, 3, 4)
	if err != nil {
		t.Fatalf("Cut() error = %v", err)
	}
	if math.Abs(got.Duration()-9) > 1.0/rate {
		t.Errorf("Duration() = %v, want 9", got.Duration())
	}

	// The seam joins the frame just before 3s to the frame at 4s.
	ch := got.Channel(0)
	seam := 3 * rate
	if ch[seam-1] != 3*rate-1 || ch[seam] != 4*rate {
		t.Errorf("seam = (%v, %v), want (%v, %v)", ch[seam-1], ch[seam], 3*rate-1, 4*rate)
	}
	for i := 1; i < len(ch); i++ {
		if i != seam && ch[i] != ch[i-1]+1 {
			t.Fatalf("gap or repeat at %d: %v after %v", i, ch[i], ch[i-1])
		}
	}
}

func TestSpliceCutComplementarity(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(5, 8))
	src := audiotest.RampBuffer(8000, 2, 8000*5)
	d := src.Duration()
	period := 1.0 / 8000

	for range 200 {
		s := rng.Float64() * d
		e := s + rng.Float64()*(d-s)

		kept, _ := Splice(src, s, e)
		cut, _ := Cut(src, s, e)
		if math.Abs(kept.Duration()-(e-s)) > period {
			t.Fatalf("Splice(%v, %v).Duration() = %v", s, e, kept.Duration())
		}
		if math.Abs(cut.Duration()-(d-(e-s))) > period {
			t.Fatalf("Cut(%v, %v).Duration() = %v", s, e, cut.Duration())
		}
		if kept.Frames()+cut.Frames() != src.Frames() {
			t.Fatalf("kept %d + cut %d != %d", kept.Frames(), cut.Frames(), src.Frames())
		}
	}
}

func TestSplice_Reconstruction(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(9, 9))
	src := audiotest.RampBuffer(22050, 2, 22050*3)
	d := src.Duration()

	for range 100 {
		s := rng.Float64() * d
		e := s + rng.Float64()*(d-s)

		a, _ := Splice(src, 0, s)
		b, _ := Splice(src, s, e)
		c, _ := Splice(src, e, d)

		for ch := range src.NumChannels() {
			var joined []float32
			joined = append(joined, a.Channel(ch)...)
			joined = append(joined, b.Channel(ch)...)
			joined = append(joined, c.Channel(ch)...)

			orig := src.Channel(ch)
			if len(joined) != len(orig) {
				t.Fatalf("[%v, %v]: %d frames, want %d", s, e, len(joined), len(orig))
			}
			for i := range orig {
				if joined[i] != orig[i] {
					t.Fatalf("[%v, %v]: frame %d = %v, want %v", s, e, i, joined[i], orig[i])
				}
			}
		}
	}
}

func TestBoundsAreClampedAndOrdered(t *testing.T) {
	t.Parallel()

	src := tenSeconds()

	tests := []struct {
		name       string
		start, end float64
		wantLo     int
		wantHi     int
	}{
		{"in range", 1, 2, rate, 2 * rate},
		{"reversed", 2, 1, rate, 2 * rate},
		{"negative start", -5, 1, 0, rate},
		{"end past duration", 9, 99, 9 * rate, 10 * rate},
		{"both outside", 20, 30, 10 * rate, 10 * rate},
		{"NaN start", math.NaN(), 1, 0, rate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			lo, hi := Frames(src, tt.start, tt.end)
			if lo != tt.wantLo || hi != tt.wantHi {
				t.Errorf("Frames(%v, %v) = [%d, %d), want [%d, %d)", tt.start, tt.end, lo, hi, tt.wantLo, tt.wantHi)
			}
		})
	}

	empty, err := Splice(src, 20, 30)
	if err != nil || empty.Frames() != 0 {
		t.Errorf("Splice past end = %d frames, %v; want empty", empty.Frames(), err)
	}
	all, err := Cut(src, -1, 11)
	if err != nil || all.Frames() != 0 {
		t.Errorf("Cut of everything = %d frames, %v; want empty", all.Frames(), err)
	}
}

func TestEditsDoNotMutateInput(t *testing.T) {
	t.Parallel()

	src := audiotest.RampBuffer(1000, 2, 1000)
	before := append([]float32(nil), src.Channel(1)...)

	Cut(src, 0.2, 0.4)
	Splice(src, 0.1, 0.9)
	Replace(src, 0.1, 0.2, audiotest.SilentBuffer(1000, 2, 500))

	for i, s := range src.Channel(1) {
		if s != before[i] {
			t.Fatalf("input sample %d changed from %v to %v", i, before[i], s)
		}
	}
}

func TestReplace(t *testing.T) {
	t.Parallel()

	src := audiotest.ConstantBuffer(1000, 2, 1000, 1)
	with := audiotest.SilentBuffer(1000, 2, 300)

	got, err := Replace(src, 0.2, 0.4, with)
	if err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if got.Frames() != 1100 {
		t.Fatalf("Frames() = %d, want 1100", got.Frames())
	}
	for i, s := range got.Channel(0) {
		want := float32(1)
		if i >= 200 && i < 500 {
			want = 0
		}
		if s != want {
			t.Fatalf("sample %d = %v, want %v", i, s, want)
		}
	}

	if _, err := Replace(src, 0, 1, audiotest.SilentBuffer(2000, 2, 10)); !errors.Is(err, ErrFormatMismatch) {
		t.Errorf("rate mismatch error = %v, want ErrFormatMismatch", err)
	}
	if _, err := Replace(src, 0, 1, audiotest.SilentBuffer(1000, 1, 10)); !errors.Is(err, ErrFormatMismatch) {
		t.Errorf("channel mismatch error = %v, want ErrFormatMismatch", err)
	}
}

func TestClassifyTrim(t *testing.T) {
	t.Parallel()

	tests := []struct {
		start, end float64
		want       Trim
	}{
		{0, 1, TrimStart},
		{0.05, 1, TrimStart},
		{9, 10, TrimEnd},
		{8, 9.95, TrimEnd},
		{3, 4, TrimNone},
		{4, 3, TrimNone},
		{0, 10, TrimStart},
	}
	for _, tt := range tests {
		if got := ClassifyTrim(tt.start, tt.end, 10, DefaultTrimTolerance); got != tt.want {
			t.Errorf("ClassifyTrim(%v, %v) = %v, want %v", tt.start, tt.end, got, tt.want)
		}
	}
}

func BenchmarkCut(b *testing.B) {
	src := audiotest.SineBuffer(44100, 2, 44100*60, 440)

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		if _, err := Cut(src, 12.5, 31.25); err != nil {
			b.Fatal(err)
		}
	}
}
