// SPDX-License-Identifier: EPL-2.0

package timeline

import (
	"github.com/ik5/wavedit/events"
	"github.com/ik5/wavedit/region"
)

// PointerDown forwards a press at x pixels from the waveform's left edge.
func (c *Controller) PointerDown(x float64) region.Result {
	return c.regionInput(func(e *region.Editor) region.Result { return e.PointerDown(x, c.view) })
}

// PointerMove forwards pointer motion during a gesture.
func (c *Controller) PointerMove(x float64) region.Result {
	return c.regionInput(func(e *region.Editor) region.Result { return e.PointerMove(x, c.view) })
}

// PointerUp ends a gesture. A click without a drag seeks.
func (c *Controller) PointerUp(x float64) region.Result {
	return c.regionInput(func(e *region.Editor) region.Result { return e.PointerUp(x, c.view) })
}

// DoubleClick clears the region when x is over it.
func (c *Controller) DoubleClick(x float64) region.Result {
	return c.regionInput(func(e *region.Editor) region.Result { return e.DoubleClick(x, c.view) })
}

// Key forwards a key press to the region editor.
func (c *Controller) Key(k region.Key) region.Result {
	return c.regionInput(func(e *region.Editor) region.Result { return e.Key(k) })
}

// ClearRegion removes the active region. Without one it does nothing.
func (c *Controller) ClearRegion() region.Result {
	return c.regionInput(func(e *region.Editor) region.Result { return e.Clear() })
}

// SelectRegion replaces the region with [start, end] seconds.
func (c *Controller) SelectRegion(start, end float64) region.Result {
	return c.regionInput(func(e *region.Editor) region.Result { return e.Select(start, end) })
}

func (c *Controller) regionInput(fn func(*region.Editor) region.Result) region.Result {
	c.mu.Lock()
	res := fn(c.editor)

	var evs []events.Event
	switch res.Action {
	case region.ActionSeek:
		c.seekLocked(res.Time)
	case region.ActionCreated:
		evs = append(evs, regionEvent(events.RegionCreated, res.Region))
	case region.ActionUpdated:
		evs = append(evs, regionEvent(events.RegionUpdated, res.Region))
	case region.ActionCleared:
		evs = append(evs, regionEvent(events.RegionDeselected, res.Region))
	}
	c.mu.Unlock()

	c.publish(evs)
	return res
}
