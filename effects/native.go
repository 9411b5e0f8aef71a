// SPDX-License-Identifier: EPL-2.0

package effects

import (
	"context"
	"math"

	"github.com/ik5/wavedit/audio"
)

// Native effect names.
const (
	Gain       = "gain"
	Normalize  = "normalize"
	FadeIn     = "fade_in"
	FadeOut    = "fade_out"
	Reverse    = "reverse"
	Delay      = "delay"
	Distortion = "distortion"
	Compressor = "compressor"
)

// channelFunc writes the processed form of in to out. Both have the same
// length and out starts zeroed.
type channelFunc func(rate int, in, out []float32, p Params)

// native runs a channelFunc on every channel independently.
type native struct {
	fn channelFunc
}

func (n native) Process(ctx context.Context, buf *audio.Buffer, params Params) (*audio.Buffer, error) {
	out := make([][]float32, buf.NumChannels())
	for c := range out {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[c] = make([]float32, buf.Frames())
		n.fn(buf.SampleRate(), buf.Channel(c), out[c], params)
	}
	return audio.NewBuffer(buf.SampleRate(), out)
}

// normalizer needs the peak across all channels, so it is not a channelFunc.
type normalizer struct{}

func (normalizer) Process(ctx context.Context, buf *audio.Buffer, params Params) (*audio.Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var peak float32
	for c := range buf.NumChannels() {
		for _, s := range buf.Channel(c) {
			peak = max(peak, float32(math.Abs(float64(s))))
		}
	}
	scale := float32(1)
	if peak > 0 {
		scale = float32(params.Get("peak", 1)) / peak
	}
	return native{fn: func(_ int, in, out []float32, _ Params) {
		for i, s := range in {
			out[i] = s * scale
		}
	}}.Process(ctx, buf, params)
}

// Native returns the in-process effects by name.
func Native() map[string]Processor {
	return map[string]Processor{
		Gain:       native{fn: gain},
		Normalize:  normalizer{},
		FadeIn:     native{fn: fadeIn},
		FadeOut:    native{fn: fadeOut},
		Reverse:    native{fn: reverse},
		Delay:      native{fn: delay},
		Distortion: native{fn: distortion},
		Compressor: native{fn: compressor},
	}
}

func dbToLinear(db float64) float32 {
	return float32(math.Pow(10, db/20))
}

// gain: "db" (default 0).
func gain(_ int, in, out []float32, p Params) {
	g := dbToLinear(p.Get("db", 0))
	for i, s := range in {
		out[i] = s * g
	}
}

// fadeLength converts the "duration" parameter to frames. A missing or
// non-positive duration fades across the whole input.
func fadeLength(rate, frames int, p Params) int {
	d := p.Get("duration", 0)
	if d <= 0 {
		return frames
	}
	return min(frames, int(math.Round(d*float64(rate))))
}

func fadeIn(rate int, in, out []float32, p Params) {
	n := fadeLength(rate, len(in), p)
	for i, s := range in {
		if i < n {
			s *= float32(i) / float32(n)
		}
		out[i] = s
	}
}

func fadeOut(rate int, in, out []float32, p Params) {
	n := fadeLength(rate, len(in), p)
	from := len(in) - n
	for i, s := range in {
		if i >= from {
			s *= float32(len(in)-1-i) / float32(n)
		}
		out[i] = s
	}
}

func reverse(_ int, in, out []float32, _ Params) {
	for i, s := range in {
		out[len(in)-1-i] = s
	}
}

// delay: feedback echo. "time_ms" (250), "feedback" (0.4, at most 0.95),
// "wet" (0.3). The output keeps the input length.
func delay(rate int, in, out []float32, p Params) {
	samples := max(1, int(p.Get("time_ms", 250)*float64(rate)/1000))
	feedback := clampf(float32(p.Get("feedback", 0.4)), 0, 0.95)
	wet := clampf(float32(p.Get("wet", 0.3)), 0, 1)

	line := make([]float32, samples)
	pos := 0
	for i, s := range in {
		delayed := line[pos]
		line[pos] = s + delayed*feedback
		pos++
		if pos == len(line) {
			pos = 0
		}
		out[i] = s*(1-wet) + delayed*wet
	}
}

// distortion: tanh waveshaper. "drive" (4) and "output" (1) gains.
func distortion(_ int, in, out []float32, p Params) {
	drive := p.Get("drive", 4)
	level := float32(p.Get("output", 1))
	for i, s := range in {
		out[i] = float32(math.Tanh(float64(s)*drive)) * level
	}
}

// compressor: envelope follower with ratio above threshold.
// "threshold_db" (-20), "ratio" (4), "attack_ms" (5), "release_ms" (50),
// "makeup_db" (0).
func compressor(rate int, in, out []float32, p Params) {
	sr := float64(rate)
	threshold := dbToLinear(p.Get("threshold_db", -20))
	ratio := max(1, p.Get("ratio", 4))
	attack := float32(1 - math.Exp(-1/(math.Max(p.Get("attack_ms", 5), 0.01)*sr/1000)))
	release := float32(1 - math.Exp(-1/(math.Max(p.Get("release_ms", 50), 0.01)*sr/1000)))
	makeup := dbToLinear(p.Get("makeup_db", 0))

	var env float32
	for i, s := range in {
		abs := float32(math.Abs(float64(s)))
		if abs > env {
			env += attack * (abs - env)
		} else {
			env += release * (abs - env)
		}
		g := float32(1)
		if env > threshold {
			g = float32(math.Pow(float64(env/threshold), 1/ratio-1))
		}
		out[i] = s * g * makeup
	}
}

func clampf(v, lo, hi float32) float32 {
	return min(max(v, lo), hi)
}
