// SPDX-License-Identifier: EPL-2.0

package peaks

import (
	"math"

	"github.com/ik5/wavedit/audio"
)

// scanSteps is the number of samples read per pixel once a pixel spans more
// than that many samples.
const scanSteps = 10

// Peak is the sample extremes inside one pixel column.
type Peak struct {
	Min float32 `json:"min"`
	Max float32 `json:"max"`
}

// Set holds per-pixel peaks for every channel of one source at one
// resolution, plus the channel average used for single-line drawing.
type Set struct {
	SamplesPerPixel float64  `json:"samples_per_pixel"`
	Width           int      `json:"width"`
	Channels        [][]Peak `json:"channels"`
	Merged          []Peak   `json:"merged"`
}

// Compute reduces buf to width pixel columns of samplesPerPixel samples
// each. It returns nil for a nil buffer or a non-positive samplesPerPixel,
// and an empty Set for a non-positive width.
func Compute(buf *audio.Buffer, samplesPerPixel float64, width int) *Set {
	if buf == nil || samplesPerPixel <= 0 || math.IsNaN(samplesPerPixel) || math.IsInf(samplesPerPixel, 0) {
		return nil
	}

	width = max(width, 0)
	set := &Set{
		SamplesPerPixel: samplesPerPixel,
		Width:           width,
		Channels:        make([][]Peak, buf.NumChannels()),
		Merged:          make([]Peak, width),
	}
	for c := range set.Channels {
		set.Channels[c] = channelPeaks(buf.Channel(c), samplesPerPixel, width)
	}

	if len(set.Channels) == 0 {
		return set
	}
	scale := 1 / float32(len(set.Channels))
	for x := range width {
		var lo, hi float32
		for _, ch := range set.Channels {
			lo += ch[x].Min
			hi += ch[x].Max
		}
		set.Merged[x] = Peak{Min: lo * scale, Max: hi * scale}
	}
	return set
}

func channelPeaks(samples []float32, spp float64, width int) []Peak {
	out := make([]Peak, width)
	frames := len(samples)

	for x := range width {
		start := int(math.Floor(float64(x) * spp))
		if start >= frames {
			// Past the end of the source: leave {0, 0}.
			continue
		}
		end := min(int(math.Floor(float64(x+1)*spp)), frames)
		if end <= start {
			// Zoomed in past one sample per pixel.
			s := samples[start]
			out[x] = Peak{Min: s, Max: s}
			continue
		}

		stride := max(1, (end-start)/scanSteps)
		lo, hi := samples[start], samples[start]
		for i := start + stride; i < end; i += stride {
			s := samples[i]
			if s < lo {
				lo = s
			}
			if s > hi {
				hi = s
			}
		}
		out[x] = Peak{Min: lo, Max: hi}
	}
	return out
}

// Normalize returns a copy of set scaled so the largest absolute peak
// across all channels equals targetMax. A silent set is scaled by
// targetMax instead of dividing by zero.
func Normalize(set *Set, targetMax float32) *Set {
	if set == nil {
		return nil
	}

	var absMax float32
	scan := func(ps []Peak) {
		for _, p := range ps {
			absMax = max(absMax, abs(p.Min), abs(p.Max))
		}
	}
	for _, ch := range set.Channels {
		scan(ch)
	}
	scan(set.Merged)
	if absMax == 0 {
		absMax = 1
	}
	k := targetMax / absMax

	scaled := func(ps []Peak) []Peak {
		out := make([]Peak, len(ps))
		for i, p := range ps {
			out[i] = Peak{Min: p.Min * k, Max: p.Max * k}
		}
		return out
	}

	out := &Set{
		SamplesPerPixel: set.SamplesPerPixel,
		Width:           set.Width,
		Channels:        make([][]Peak, len(set.Channels)),
		Merged:          scaled(set.Merged),
	}
	for c, ch := range set.Channels {
		out.Channels[c] = scaled(ch)
	}
	return out
}

// SamplesPerPixel returns the resolution that fits a clip of frames into
// width columns.
func SamplesPerPixel(frames, width int) float64 {
	if width <= 0 {
		return 0
	}
	return math.Max(float64(frames)/float64(width), math.SmallestNonzeroFloat64)
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
