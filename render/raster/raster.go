// SPDX-License-Identifier: EPL-2.0

// Package raster draws frames into an in-memory RGBA image, for PNG
// snapshots and for uploading into a window texture.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/ik5/wavedit/peaks"
	"github.com/ik5/wavedit/render"
)

// tickSteps are the ruler spacings in seconds, smallest first.
var tickSteps = []float64{0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1, 2, 5, 10, 15, 30, 60, 120, 300, 600, 1800, 3600}

// MinTickSpacing is the smallest gap in pixels between ruler ticks.
const MinTickSpacing = 80.0

// TickInterval picks the smallest step that keeps ticks at least
// minSpacing pixels apart at pixelsPerSecond.
func TickInterval(pixelsPerSecond, minSpacing float64) float64 {
	if pixelsPerSecond <= 0 {
		return tickSteps[len(tickSteps)-1]
	}
	for _, s := range tickSteps {
		if s*pixelsPerSecond >= minSpacing {
			return s
		}
	}
	return tickSteps[len(tickSteps)-1]
}

// Surface implements render.Surface on an *image.RGBA.
type Surface struct {
	img   *image.RGBA
	theme Theme
}

var _ render.Surface = (*Surface)(nil)

// New returns a transparent surface.
func New(width, height int, theme Theme) *Surface {
	return &Surface{
		img:   image.NewRGBA(image.Rect(0, 0, max(0, width), max(0, height))),
		theme: theme,
	}
}

// Image returns the backing image. It is replaced by Resize.
func (s *Surface) Image() *image.RGBA { return s.img }

func (s *Surface) Width() int  { return s.img.Rect.Dx() }
func (s *Surface) Height() int { return s.img.Rect.Dy() }

func (s *Surface) Resize(width, height int) {
	if width == s.Width() && height == s.Height() {
		return
	}
	s.img = image.NewRGBA(image.Rect(0, 0, max(0, width), max(0, height)))
}

func (s *Surface) Clear() {
	draw.Draw(s.img, s.img.Rect, image.Transparent, image.Point{}, draw.Src)
}

func (s *Surface) DrawBackground() {
	s.fill(s.img.Rect, s.theme.Background, draw.Src)
}

func (s *Surface) DrawWaveform(set *peaks.Set, o render.WaveformOptions) {
	if set == nil || set.Width == 0 || o.Width <= 0 {
		return
	}
	mid := o.Height / 2
	for x := range s.Width() {
		cx := float64(x) - o.StartX
		if cx < 0 || cx >= o.Width {
			continue
		}
		p := set.Merged[min(set.Width-1, int(cx*float64(set.Width)/o.Width))]
		s.vline(x, mid-float64(p.Max)*mid, mid-float64(p.Min)*mid, s.theme.Wave)
	}
}

func (s *Surface) DrawProgress(fraction float64, o render.ProgressOptions) {
	end := o.StartX + fraction*o.Width
	s.fill(image.Rect(int(math.Floor(o.StartX)), 0, int(math.Round(end)), s.Height()), s.theme.Progress, draw.Over)
}

func (s *Surface) DrawRegion(startX, endX float64, style render.RegionStyle) {
	x0, x1 := int(math.Round(startX)), int(math.Round(endX))
	s.fill(image.Rect(x0, 0, x1, s.Height()), style.Fill, draw.Over)
	s.vline(x0, 0, float64(s.Height()), style.Handle)
	s.vline(x1, 0, float64(s.Height()), style.Handle)
}

func (s *Surface) DrawCursor(x float64) {
	s.vline(int(math.Round(x)), 0, float64(s.Height()), s.theme.Cursor)
}

func (s *Surface) DrawTimeline(duration, pps float64, o render.TimelineOptions) {
	if duration <= 0 || pps <= 0 {
		return
	}
	step := TickInterval(pps, MinTickSpacing)
	minor := step / 5
	h := o.Height
	for i := 0; ; i++ {
		t := float64(i) * minor
		if t > duration {
			break
		}
		x := t*pps - o.Offset
		if x < 0 {
			continue
		}
		if x >= float64(s.Width()) {
			break
		}
		top := h * 0.75
		if i%5 == 0 {
			top = h * 0.35
		}
		s.vline(int(math.Round(x)), top, h, s.theme.Ruler)
	}
	s.fill(image.Rect(0, int(h)-1, s.Width(), int(h)), s.theme.Ruler, draw.Src)
}

func (s *Surface) DrawMinimap(set *peaks.Set, vpStart, vpEnd float64, o render.MinimapOptions) {
	w := float64(s.Width())
	s.DrawWaveform(set, render.WaveformOptions{Width: w, Height: o.Height})

	x0, x1 := int(math.Round(vpStart*w)), int(math.Round(vpEnd*w))
	s.fill(image.Rect(x0, 0, x1, int(o.Height)), s.theme.Viewport, draw.Over)
	border := s.theme.Viewport
	border.A = 0xff
	s.vline(x0, 0, o.Height, border)
	s.vline(x1-1, 0, o.Height, border)
}

func (s *Surface) fill(r image.Rectangle, c color.RGBA, op draw.Op) {
	r = r.Canon().Intersect(s.img.Rect)
	if r.Empty() {
		return
	}
	draw.Draw(s.img, r, image.NewUniform(c), image.Point{}, op)
}

func (s *Surface) vline(x int, y0, y1 float64, c color.RGBA) {
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	top := int(math.Floor(y0))
	bottom := max(int(math.Ceil(y1)), top+1)
	s.fill(image.Rect(x, top, x+1, bottom), c, draw.Over)
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Stack places images top to bottom on one canvas as wide as the widest.
func Stack(imgs ...*image.RGBA) *image.RGBA {
	w, h := 0, 0
	for _, img := range imgs {
		w = max(w, img.Rect.Dx())
		h += img.Rect.Dy()
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	y := 0
	for _, img := range imgs {
		r := image.Rect(0, y, img.Rect.Dx(), y+img.Rect.Dy())
		draw.Draw(out, r, img, img.Rect.Min, draw.Src)
		y += img.Rect.Dy()
	}
	return out
}
