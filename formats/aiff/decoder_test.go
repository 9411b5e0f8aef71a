// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/ik5/wavedit/audio"
	"github.com/ik5/wavedit/internal/memio"
)

// fakeAiff stands in for aiff.Decoder. It copies at most len(buf.Data)
// samples per call and reports io.EOF with the last batch.
type fakeAiff struct {
	rate, channels int
	samples        []int
	failErr        error
}

func (f *fakeAiff) Format() *goaudio.Format {
	return &goaudio.Format{SampleRate: f.rate, NumChannels: f.channels}
}

func (f *fakeAiff) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if f.failErr != nil {
		return 0, f.failErr
	}
	if len(f.samples) == 0 {
		return 0, io.EOF
	}
	n := copy(buf.Data, f.samples)
	f.samples = f.samples[n:]
	if len(f.samples) == 0 {
		return n, io.EOF
	}
	return n, nil
}

func newSource(f *fakeAiff, bitDepth int) *source {
	return &source{dec: f, sampleRate: f.rate, channels: f.channels, bitDepth: bitDepth}
}

// encodeAiff writes a real AIFF file with go-audio's encoder.
func encodeAiff(t *testing.T, rate, bitDepth, channels int, data []int) []byte {
	t.Helper()

	var out memio.WriteSeeker
	enc := aiff.NewEncoder(&out, rate, bitDepth, channels)
	err := enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{SampleRate: rate, NumChannels: channels},
		Data:           data,
		SourceBitDepth: bitDepth,
	})
	if err != nil {
		t.Fatalf("aiff Write() error = %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("aiff Close() error = %v", err)
	}
	return out.Bytes()
}

func TestDecoder_RealFile(t *testing.T) {
	t.Parallel()

	data := []int{16384, -16384, 8192, -8192, 0, 0}
	buf, err := Decoder{}.Decode(bytes.NewReader(encodeAiff(t, 22050, 16, 2, data)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if buf.SampleRate() != 22050 || buf.NumChannels() != 2 || buf.Frames() != 3 {
		t.Fatalf("got %d Hz x %d ch x %d frames, want 22050 x 2 x 3",
			buf.SampleRate(), buf.NumChannels(), buf.Frames())
	}
	for i, want := range []float32{0.5, 0.25, 0} {
		if got := buf.Channel(0)[i]; got != want {
			t.Errorf("left[%d] = %v, want %v", i, got, want)
		}
		if got := buf.Channel(1)[i]; got != -want {
			t.Errorf("right[%d] = %v, want %v", i, got, -want)
		}
	}
}

func TestDecoder_RejectsGarbage(t *testing.T) {
	t.Parallel()

	for name, data := range map[string][]byte{
		"empty": {},
		"text":  []byte("This is not AIFF data"),
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if _, err := (Decoder{}).Decode(bytes.NewReader(data)); err == nil {
				t.Error("Decode() error = nil, want error")
			}
		})
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	src := newSource(&fakeAiff{rate: 44100, channels: 1, samples: []int{64, -64, 32, 0, 127}}, 8)

	dst := make([]float32, 3)
	n, err := src.ReadSamples(dst)
	if n != 3 || err != nil {
		t.Fatalf("first ReadSamples() = %d, %v, want 3, nil", n, err)
	}
	if dst[0] != 0.5 || dst[1] != -0.5 || dst[2] != 0.25 {
		t.Errorf("first read = %v, want [0.5 -0.5 0.25]", dst)
	}

	n, err = src.ReadSamples(dst)
	if n != 2 || err != io.EOF {
		t.Fatalf("second ReadSamples() = %d, %v, want 2, EOF", n, err)
	}

	if n, err := src.ReadSamples(dst); n != 0 || err != io.EOF {
		t.Errorf("drained ReadSamples() = %d, %v, want 0, EOF", n, err)
	}
	if n, err := src.ReadSamples(nil); n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = %d, %v, want 0, nil", n, err)
	}
}

func TestSource_ReadError(t *testing.T) {
	t.Parallel()

	src := newSource(&fakeAiff{rate: 44100, channels: 2, failErr: io.ErrUnexpectedEOF}, 16)
	if _, err := audio.Collect(src); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("Collect() error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestSource_BufSize(t *testing.T) {
	t.Parallel()

	src := newSource(&fakeAiff{rate: 8000, channels: 1, samples: make([]int, 10)}, 16)
	if got := src.BufSize(); got != 4096 {
		t.Errorf("BufSize() before reading = %d, want 4096", got)
	}
	if _, err := src.ReadSamples(make([]float32, 512)); err != nil && err != io.EOF {
		t.Fatal(err)
	}
	if got := src.BufSize(); got != 512 {
		t.Errorf("BufSize() after a 512 read = %d, want 512", got)
	}
}

func TestSource_BitDepthNormalization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		bitDepth int
		input    int
		expected float32
	}{
		{"8-bit max", 8, 127, 127.0 / 128.0},
		{"8-bit min", 8, -128, -1.0},
		{"16-bit max", 16, 32767, 32767.0 / 32768.0},
		{"16-bit min", 16, -32768, -1.0},
		{"24-bit", 24, 8388607, 8388607.0 / 8388608.0},
		{"32-bit", 32, 2147483647, 2147483647.0 / 2147483648.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newSource(&fakeAiff{rate: 44100, channels: 1, samples: []int{tt.input}}, tt.bitDepth)

			dst := make([]float32, 1)
			n, _ := src.ReadSamples(dst)

			if n != 1 {
				t.Fatalf("ReadSamples() n = %d, want 1", n)
			}

			tolerance := float32(0.001)
			if dst[0] < tt.expected-tolerance || dst[0] > tt.expected+tolerance {
				t.Errorf("ReadSamples() dst[0] = %f, want ~%f", dst[0], tt.expected)
			}
		})
	}
}

func TestErrors_Messages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err     error
		message string
	}{
		{ErrNotAiffFile, "not an AIFF file"},
		{ErrUnsupportedBitDepth, "unsupported AIFF bit depth"},
		{ErrUnsupportedAiffLayout, "unsupported AIFF layout"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			if tt.err.Error() != tt.message {
				t.Errorf("Error message = %q, want %q", tt.err.Error(), tt.message)
			}
			if !errors.Is(errors.Join(errors.New("context"), tt.err), tt.err) {
				t.Errorf("Wrapped error doesn't match base error %v", tt.err)
			}
		})
	}
}

func TestDecoder_InvalidInputIsNotAiff(t *testing.T) {
	t.Parallel()

	_, err := Decoder{}.Decode(io.MultiReader(bytes.NewReader([]byte("FORMxxxxWAVE"))))
	if !errors.Is(err, ErrNotAiffFile) {
		t.Errorf("Decode() error = %v, want ErrNotAiffFile", err)
	}
}

func TestSource_FeedsCollect(t *testing.T) {
	t.Parallel()

	src := newSource(&fakeAiff{rate: 22050, channels: 2, samples: []int{16384, -16384, 8192, -8192}}, 16)

	buf, err := audio.Collect(src)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if buf.Frames() != 2 || buf.NumChannels() != 2 {
		t.Fatalf("got %dx%d, want 2x2", buf.NumChannels(), buf.Frames())
	}
	if buf.Channel(0)[0] != 0.5 || buf.Channel(1)[1] != -0.25 {
		t.Errorf("unexpected samples: %v %v", buf.Channel(0), buf.Channel(1))
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	samples := make([]int, 2*44100)
	for i := range samples {
		samples[i] = i % 32768
	}
	dst := make([]float32, 4096)

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		src := newSource(&fakeAiff{rate: 44100, channels: 2, samples: samples}, 16)
		for {
			if _, err := src.ReadSamples(dst); err != nil {
				break
			}
		}
	}
}
