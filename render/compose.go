// SPDX-License-Identifier: EPL-2.0

package render

import (
	"github.com/ik5/wavedit/peaks"
	"github.com/ik5/wavedit/region"
	"github.com/ik5/wavedit/view"
)

// Frame is everything drawn for one refresh.
type Frame struct {
	Peaks   *peaks.Set
	View    view.State
	Time    float64
	Playing bool
	Region  *region.Region
	Draft   *region.Region
}

// Compose draws f in order: background, waveform, progress, committed
// region, draft region, cursor.
func Compose(s Surface, f Frame) {
	v := f.View
	offset := -v.Scroll * v.Zoom
	width := v.ContentWidth()

	s.Clear()
	s.DrawBackground()

	if f.Peaks != nil {
		s.DrawWaveform(f.Peaks, WaveformOptions{
			StartX: offset,
			Width:  width,
			Height: float64(s.Height()),
		})
	}

	if v.Duration > 0 {
		s.DrawProgress(v.Fraction(f.Time), ProgressOptions{Width: width, StartX: offset})
	}

	if r := f.Region; r != nil && v.IsVisible(r.Start, r.End) {
		s.DrawRegion(v.TimeToPixel(r.Start), v.TimeToPixel(r.End), RegionFinal)
	}
	if d := f.Draft; d != nil && v.IsVisible(d.Start, d.End) {
		s.DrawRegion(v.TimeToPixel(d.Start), v.TimeToPixel(d.End), RegionDraft)
	}

	if x := v.TimeToPixel(f.Time); x >= 0 && x <= v.Width {
		s.DrawCursor(x)
	}
}

// ComposeRuler draws the time ruler for f's view.
func ComposeRuler(s Surface, f Frame) {
	v := f.View
	s.Clear()
	s.DrawBackground()
	s.DrawTimeline(v.Duration, v.Zoom, TimelineOptions{
		Height: float64(s.Height()),
		Offset: v.Scroll * v.Zoom,
	})
}

// ComposeMinimap draws the whole clip from set, which should be generated
// at the surface width, with f's visible window highlighted and the play
// position marked.
func ComposeMinimap(s Surface, set *peaks.Set, f Frame) {
	v := f.View
	s.Clear()
	s.DrawBackground()
	if v.Duration <= 0 {
		return
	}

	start, end := v.VisibleWindow()
	s.DrawMinimap(set, v.Fraction(start), v.Fraction(end), MinimapOptions{Height: float64(s.Height())})
	s.DrawCursor(v.Fraction(f.Time) * float64(s.Width()))
}

// MinimapTime converts a click at x on a minimap width pixels wide to a
// time in the clip.
func MinimapTime(x, width, duration float64) float64 {
	if width <= 0 || duration <= 0 {
		return 0
	}
	return view.Fit(width, duration).PixelToTime(x)
}
