// SPDX-License-Identifier: EPL-2.0

// Package view maps between time and pixel coordinates for a zoomed and
// scrolled waveform. Every renderer and the region editor use the same
// State methods, which keeps the cursor, region edges, ruler ticks and
// minimap aligned to the pixel.
package view

import "math"

const (
	// MinMaxZoom is the lowest zoom ceiling in pixels per second.
	MinMaxZoom = 3000.0
	// MaxZoomFitFactor bounds the ceiling relative to the fit zoom.
	MaxZoomFitFactor = 50.0
)

// State is a zoom level (pixels per second), a scroll offset (seconds from
// the start of the clip to the left edge), the container width in pixels and
// the clip duration in seconds.
type State struct {
	Zoom     float64 `json:"zoom"`
	Scroll   float64 `json:"scroll"`
	Width    float64 `json:"width"`
	Duration float64 `json:"duration"`
}

// Fit returns the state that shows the whole clip in width pixels.
func Fit(width, duration float64) State {
	s := State{Width: width, Duration: duration}
	s.Zoom = s.FitZoom()
	return s
}

// TimeToPixel returns the x position of t relative to the left edge.
func (s State) TimeToPixel(t float64) float64 {
	return (t - s.Scroll) * s.Zoom
}

// PixelToTime returns the time under x, clamped to [0, Duration].
func (s State) PixelToTime(x float64) float64 {
	return clamp(s.rawTime(x), 0, s.Duration)
}

func (s State) rawTime(x float64) float64 {
	if s.Zoom <= 0 {
		return s.Scroll
	}
	return s.Scroll + x/s.Zoom
}

// VisibleDuration is the number of seconds the container spans.
func (s State) VisibleDuration() float64 {
	if s.Zoom <= 0 {
		return s.Duration
	}
	return s.Width / s.Zoom
}

// VisibleWindow returns the time range shown in the container.
func (s State) VisibleWindow() (start, end float64) {
	return s.Scroll, math.Min(s.Duration, s.Scroll+s.VisibleDuration())
}

// IsVisible reports whether any part of [start, end] is on screen.
func (s State) IsVisible(start, end float64) bool {
	lo, hi := s.VisibleWindow()
	return end >= lo && start <= hi
}

// FitZoom is the zoom level at which the whole clip fills the container.
// It is zero for an empty clip.
func (s State) FitZoom() float64 {
	if s.Duration <= 0 || s.Width <= 0 {
		return 0
	}
	return s.Width / s.Duration
}

// MaxZoom is the zoom ceiling: max(3000, FitZoom*50).
func (s State) MaxZoom() float64 {
	return math.Max(MinMaxZoom, s.FitZoom()*MaxZoomFitFactor)
}

// ClampZoom limits level to [FitZoom, MaxZoom].
func (s State) ClampZoom(level float64) float64 {
	if math.IsNaN(level) {
		level = s.FitZoom()
	}
	return clamp(level, s.FitZoom(), s.MaxZoom())
}

// MaxScroll is the largest valid scroll offset at the current zoom.
func (s State) MaxScroll() float64 {
	return math.Max(0, s.Duration-s.VisibleDuration())
}

// ClampScroll limits offset to [0, MaxScroll].
func (s State) ClampScroll(offset float64) float64 {
	if math.IsNaN(offset) {
		return 0
	}
	return clamp(offset, 0, s.MaxScroll())
}

// ContentWidth is the width of the full waveform at the current zoom, never
// narrower than the container.
func (s State) ContentWidth() float64 {
	return math.Max(s.Width, s.Duration*s.Zoom)
}

// Clamped returns s with zoom and scroll brought inside their bounds.
func (s State) Clamped() State {
	s.Zoom = s.ClampZoom(s.Zoom)
	s.Scroll = s.ClampScroll(s.Scroll)
	return s
}

// WithZoom applies a clamped zoom level and re-clamps scroll.
func (s State) WithZoom(level float64) State {
	s.Zoom = s.ClampZoom(level)
	s.Scroll = s.ClampScroll(s.Scroll)
	return s
}

// WithZoomAt zooms to level keeping the time under pointerX fixed, unless
// scroll bounds prevent it.
func (s State) WithZoomAt(level, pointerX float64) State {
	anchor := s.rawTime(pointerX)
	s.Zoom = s.ClampZoom(level)
	if s.Zoom > 0 {
		s.Scroll = s.ClampScroll(anchor - pointerX/s.Zoom)
	}
	return s
}

// Centered returns the scroll offset that puts t in the middle of the
// container, clamped.
func (s State) Centered(t float64) float64 {
	return s.ClampScroll(t - s.VisibleDuration()/2)
}

// Fraction returns t as a position in [0, 1] of the clip.
func (s State) Fraction(t float64) float64 {
	if s.Duration <= 0 {
		return 0
	}
	return clamp(t/s.Duration, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	return math.Min(math.Max(v, lo), hi)
}
