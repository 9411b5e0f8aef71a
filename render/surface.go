// SPDX-License-Identifier: EPL-2.0

// Package render composes waveform frames onto a drawing surface.
//
// Compose, ComposeRuler and ComposeMinimap turn a Frame into a fixed
// sequence of Surface calls, with every x position taken from view.State.
// Loop decides when to compose: on demand when something visible changed,
// and every frame while playback animates the cursor.
package render

import (
	"image/color"

	"github.com/ik5/wavedit/peaks"
)

// WaveformOptions places the waveform. StartX is negative when the view
// is scrolled; Width can exceed the surface when zoomed in.
type WaveformOptions struct {
	StartX float64
	Width  float64
	Height float64
}

// ProgressOptions places the played-portion overlay over the waveform.
type ProgressOptions struct {
	Width  float64
	StartX float64
}

// RegionStyle colors a region overlay.
type RegionStyle struct {
	Fill   color.RGBA
	Handle color.RGBA
	Draft  bool
}

var (
	// RegionFinal styles the committed region.
	RegionFinal = RegionStyle{
		Fill:   color.RGBA{R: 0x33, G: 0x99, B: 0xff, A: 0x55},
		Handle: color.RGBA{R: 0x33, G: 0x99, B: 0xff, A: 0xff},
	}
	// RegionDraft styles the region being dragged out.
	RegionDraft = RegionStyle{
		Fill:   color.RGBA{R: 0x33, G: 0x99, B: 0xff, A: 0x28},
		Handle: color.RGBA{R: 0x99, G: 0xcc, B: 0xff, A: 0xaa},
		Draft:  true,
	}
)

// TimelineOptions places the ruler. Offset is the scroll in pixels.
type TimelineOptions struct {
	Height float64
	Offset float64
}

// MinimapOptions sizes the overview.
type MinimapOptions struct {
	Height float64
}

// Surface is a 2-D drawing target.
type Surface interface {
	Clear()
	DrawBackground()
	DrawWaveform(set *peaks.Set, opts WaveformOptions)
	DrawProgress(fraction float64, opts ProgressOptions)
	DrawRegion(startX, endX float64, style RegionStyle)
	DrawCursor(x float64)
	DrawTimeline(duration, pixelsPerSecond float64, opts TimelineOptions)
	// DrawMinimap draws the whole clip with the viewport given as
	// fractions of its duration.
	DrawMinimap(set *peaks.Set, viewportStart, viewportEnd float64, opts MinimapOptions)
	Width() int
	Height() int
	Resize(width, height int)
}
