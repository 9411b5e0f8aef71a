// SPDX-License-Identifier: EPL-2.0

package timeline

import (
	"github.com/ik5/wavedit/events"
	"github.com/ik5/wavedit/view"
)

// SetZoom sets the zoom level in pixels per second, clamped to the
// allowed range, and returns the level applied.
func (c *Controller) SetZoom(level float64) float64 {
	return c.zoom(events.ZoomSet, func(v view.State) view.State { return v.WithZoom(level) })
}

// ZoomIn multiplies the zoom by the zoom factor.
func (c *Controller) ZoomIn() float64 {
	return c.zoom(events.ZoomIn, func(v view.State) view.State {
		return v.WithZoom(v.Zoom * c.opts.ZoomFactor)
	})
}

// ZoomOut divides the zoom by the zoom factor.
func (c *Controller) ZoomOut() float64 {
	return c.zoom(events.ZoomOut, func(v view.State) view.State {
		return v.WithZoom(v.Zoom / c.opts.ZoomFactor)
	})
}

// ResetZoom returns to the fit zoom with the view scrolled to the start.
func (c *Controller) ResetZoom() float64 {
	return c.zoom(events.ZoomReset, func(v view.State) view.State {
		return view.Fit(v.Width, v.Duration)
	})
}

func (c *Controller) zoom(t events.Type, fn func(view.State) view.State) float64 {
	c.mu.Lock()
	from := c.view.Zoom
	c.view = fn(c.view)
	to := c.view.Zoom
	c.mu.Unlock()

	if from != to || t == events.ZoomReset {
		c.publish([]events.Event{{Type: t, Details: events.ZoomDetails{From: from, To: to}}})
	}
	return to
}

// SetContainerWidth records a new waveform width in pixels. A view that
// was at the fit zoom stays fitted.
func (c *Controller) SetContainerWidth(width float64) {
	if width <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	fitted := c.view.Zoom == c.view.FitZoom()
	c.view.Width = width
	if fitted {
		c.view.Zoom = c.view.FitZoom()
	}
	c.view = c.view.Clamped()
}

// Scroll moves the view by seconds, clamped to the clip.
func (c *Controller) Scroll(seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.Scroll = c.view.ClampScroll(c.view.Scroll + seconds)
}

// Wheel handles a wheel step. With Ctrl or Meta held it zooms around the
// pointer; otherwise it scrolls horizontally by a share of the visible
// window.
func (c *Controller) Wheel(e WheelEvent) {
	if e.Ctrl || e.Meta {
		if e.DeltaY == 0 {
			return
		}
		t, factor := events.ZoomIn, c.opts.ZoomFactor
		if e.DeltaY > 0 {
			t, factor = events.ZoomOut, 1/c.opts.ZoomFactor
		}
		c.zoom(t, func(v view.State) view.State {
			return v.WithZoomAt(v.Zoom*factor, e.PointerX)
		})
		return
	}

	delta := e.DeltaX
	if e.Shift || delta == 0 {
		delta = e.DeltaY
	}
	if delta == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	step := delta / wheelNotch * c.view.VisibleDuration() * wheelScrollStep
	c.view.Scroll = c.view.ClampScroll(c.view.Scroll + step)
}
