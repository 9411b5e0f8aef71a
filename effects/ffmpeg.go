// SPDX-License-Identifier: EPL-2.0

package effects

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/ik5/wavedit/audio"
	"github.com/ik5/wavedit/formats/wav"
)

// ffmpeg filter names.
const (
	HighPass    = "highpass"
	LowPass     = "lowpass"
	Pitch       = "pitch"
	Tempo       = "tempo"
	NoiseReduce = "noise_reduce"
	Loudnorm    = "loudnorm"
)

var (
	// ErrFFmpegNotFound is returned when no ffmpeg binary is configured.
	ErrFFmpegNotFound = errors.New("ffmpeg not found")

	// ErrUnknownFilter is returned for filter names FFmpeg does not know.
	ErrUnknownFilter = errors.New("unknown ffmpeg filter")
)

// inputBitDepth is the WAV depth handed to ffmpeg.
const inputBitDepth = 24

type filterFunc func(p Params, rate int) string

var filters = map[string]filterFunc{
	HighPass: func(p Params, _ int) string {
		return fmt.Sprintf("highpass=f=%g", p.Get("frequency", 200))
	},
	LowPass: func(p Params, _ int) string {
		return fmt.Sprintf("lowpass=f=%g", p.Get("frequency", 3000))
	},
	Pitch: func(p Params, rate int) string {
		st := math.Max(-12, math.Min(12, p.Get("semitones", 0)))
		factor := math.Pow(2, st/12)
		return fmt.Sprintf("asetrate=%d,aresample=%d,atempo=%g",
			int(math.Round(float64(rate)*factor)), rate, 1/factor)
	},
	Tempo: func(p Params, _ int) string {
		return fmt.Sprintf("atempo=%g", math.Max(0.5, math.Min(2, p.Get("factor", 1))))
	},
	NoiseReduce: func(p Params, _ int) string {
		return fmt.Sprintf("afftdn=nr=%g", math.Max(0.01, math.Min(97, p.Get("amount", 12))))
	},
	Loudnorm: func(p Params, _ int) string {
		return fmt.Sprintf("loudnorm=I=%g:TP=%g", p.Get("integrated", -16), p.Get("true_peak", -1.5))
	},
}

// FilterNames lists the filters FFmpeg can run.
func FilterNames() []string {
	return []string{HighPass, LowPass, Loudnorm, NoiseReduce, Pitch, Tempo}
}

// FilterGraph returns the -af argument for the named filter.
func FilterGraph(name string, p Params, rate int) (string, error) {
	f, ok := filters[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownFilter, name)
	}
	return f(p, rate), nil
}

// ResolvePath returns the ffmpeg binary to use. A custom path must exist
// and be executable; otherwise ffmpeg is looked up in PATH. It returns ""
// when nothing is found.
func ResolvePath(customPath string) string {
	if customPath != "" {
		if _, err := exec.LookPath(customPath); err == nil {
			return customPath
		}
		return ""
	}
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return ""
	}
	return path
}

// FFmpeg runs one audio filter through an ffmpeg subprocess. The buffer
// goes in as WAV on stdin and comes back as raw float32 on stdout, at the
// input rate and channel count.
type FFmpeg struct {
	Path   string
	Filter string
	Logger *slog.Logger
}

// Args builds the ffmpeg command line for a buffer of the given shape.
func (f *FFmpeg) Args(p Params, rate, channels int) ([]string, error) {
	graph, err := FilterGraph(f.Filter, p, rate)
	if err != nil {
		return nil, err
	}
	return []string{
		"-hide_banner", "-loglevel", "error", "-nostdin",
		"-f", "wav", "-i", "pipe:0",
		"-af", graph,
		"-f", "f32le",
		"-ar", strconv.Itoa(rate),
		"-ac", strconv.Itoa(channels),
		"pipe:1",
	}, nil
}

func (f *FFmpeg) Process(ctx context.Context, buf *audio.Buffer, params Params) (*audio.Buffer, error) {
	if f.Path == "" {
		return nil, ErrFFmpegNotFound
	}
	logger := f.Logger
	if logger == nil {
		logger = slog.Default()
	}

	args, err := f.Args(params, buf.SampleRate(), buf.NumChannels())
	if err != nil {
		return nil, err
	}
	input, err := wav.EncodeBytes(buf, inputBitDepth)
	if err != nil {
		return nil, fmt.Errorf("encode ffmpeg input: %w", err)
	}

	cmd := exec.CommandContext(ctx, f.Path, args...)
	cmd.Stdin = bytes.NewReader(input)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("running ffmpeg", "filter", f.Filter, "args", strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		logger.Error("failed to run ffmpeg", "filter", f.Filter, "error", err, "stderr", msg)
		if msg != "" {
			return nil, fmt.Errorf("ffmpeg %s: %w: %s", f.Filter, err, msg)
		}
		return nil, fmt.Errorf("ffmpeg %s: %w", f.Filter, err)
	}

	return decodeF32LE(stdout.Bytes(), buf.SampleRate(), buf.NumChannels())
}

// decodeF32LE de-interleaves raw little-endian float32 samples. A trailing
// partial frame is dropped.
func decodeF32LE(data []byte, rate, channels int) (*audio.Buffer, error) {
	frames := len(data) / 4 / channels
	out := make([][]float32, channels)
	for c := range out {
		out[c] = make([]float32, frames)
	}
	for i := range frames {
		for c := range channels {
			off := (i*channels + c) * 4
			out[c][i] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
		}
	}
	return audio.NewBuffer(rate, out)
}
