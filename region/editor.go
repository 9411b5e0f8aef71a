// SPDX-License-Identifier: EPL-2.0

package region

import (
	"math"

	"github.com/google/uuid"
	"github.com/ik5/wavedit/view"
)

const (
	// DefaultMinDragPixels is how far the pointer must travel from the press
	// point before a gesture counts as a drag instead of a click.
	DefaultMinDragPixels = 3.0
	// DefaultHandleTolerance is the grab distance around region edges.
	DefaultHandleTolerance = 6.0
)

// Options tunes an Editor. Zero fields take the defaults.
type Options struct {
	MinDragPixels   float64
	HandleTolerance float64
	// NewID returns region identifiers; uuid.NewString when nil.
	NewID func() string
}

// Editor owns the single active region and turns pointer and keyboard
// input into region changes. It is not safe for concurrent use; the
// timeline controller serializes access.
type Editor struct {
	opts     Options
	duration float64
	enabled  bool

	region *Region
	draft  *Region

	state     State
	handle    Handle
	pressX    float64
	pressTime float64
	grab      float64
	dragged   bool
}

// NewEditor returns an enabled editor with no region.
func NewEditor(opts Options) *Editor {
	if opts.MinDragPixels <= 0 {
		opts.MinDragPixels = DefaultMinDragPixels
	}
	if opts.HandleTolerance <= 0 {
		opts.HandleTolerance = DefaultHandleTolerance
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Editor{opts: opts, enabled: true}
}

// Region returns a copy of the active region.
func (e *Editor) Region() (Region, bool) {
	if e.region == nil {
		return Region{}, false
	}
	return *e.region, true
}

// Draft returns the region being dragged out, if any.
func (e *Editor) Draft() (Region, bool) {
	if e.draft == nil {
		return Region{}, false
	}
	return *e.draft, true
}

// State returns the current gesture state.
func (e *Editor) State() State { return e.state }

// Enabled reports whether pointer input is accepted.
func (e *Editor) Enabled() bool { return e.enabled }

// SetEnabled turns pointer input on or off. Disabling abandons any gesture
// in progress.
func (e *Editor) SetEnabled(enabled bool) {
	e.enabled = enabled
	if !enabled {
		e.reset()
	}
}

// SetDuration sets the clip length and pulls the region inside it.
func (e *Editor) SetDuration(d float64) {
	e.duration = math.Max(0, d)
	if e.region != nil {
		e.region.Start = clamp(e.region.Start, 0, e.duration)
		e.region.End = clamp(e.region.End, e.region.Start, e.duration)
	}
}

// Duration returns the clip length the editor clamps against.
func (e *Editor) Duration() float64 { return e.duration }

// HitTest classifies x against the active region. Handles take priority
// over the body; when both edges are in range the nearer one wins.
func (e *Editor) HitTest(x float64, v view.State) Hit {
	if e.region == nil {
		return HitOutside
	}
	sx := v.TimeToPixel(e.region.Start)
	ex := v.TimeToPixel(e.region.End)
	ds, de := math.Abs(x-sx), math.Abs(x-ex)
	tol := e.opts.HandleTolerance

	switch {
	case ds <= tol && (ds < de || (ds == de && x < ex)):
		return HitStartHandle
	case de <= tol:
		return HitEndHandle
	case x > sx && x < ex:
		return HitBody
	default:
		return HitOutside
	}
}

// PointerDown starts a gesture at x.
func (e *Editor) PointerDown(x float64, v view.State) Result {
	if !e.enabled {
		return Result{}
	}
	e.reset()
	e.pressX = x
	e.pressTime = v.PixelToTime(x)

	switch e.HitTest(x, v) {
	case HitStartHandle:
		e.state, e.handle = Resizing, HandleStart
	case HitEndHandle:
		e.state, e.handle = Resizing, HandleEnd
	case HitBody:
		e.state = Pressing
		e.grab = e.pressTime - e.region.Start
	default:
		e.state = Creating
		e.draft = &Region{Start: e.pressTime, End: e.pressTime}
	}
	return Result{}
}

// PointerMove advances the active gesture. The region and draft reflect
// the drag immediately; the final outcome is reported by PointerUp.
func (e *Editor) PointerMove(x float64, v view.State) Result {
	if !e.enabled || e.state == Idle {
		return Result{}
	}
	if !e.dragged && math.Abs(x-e.pressX) < e.opts.MinDragPixels {
		return Result{}
	}
	e.dragged = true
	t := v.PixelToTime(x)

	switch e.state {
	case Creating:
		e.draft.Start = math.Min(e.pressTime, t)
		e.draft.End = math.Max(e.pressTime, t)
		return Result{Region: e.draft.clone()}
	case Resizing:
		if e.handle == HandleStart {
			e.region.Start = clamp(t, 0, e.region.End)
		} else {
			e.region.End = clamp(t, e.region.Start, e.duration)
		}
	case Pressing:
		e.state = Moving
		fallthrough
	case Moving:
		length := e.region.Length()
		start := clamp(t-e.grab, 0, math.Max(0, e.duration-length))
		e.region.Start = start
		e.region.End = math.Min(start+length, e.duration)
	}
	return Result{Region: e.region.clone()}
}

// PointerUp finishes the gesture. Clicks seek; drags create or update the
// region. A new region replaces the previous one.
func (e *Editor) PointerUp(x float64, v view.State) Result {
	if !e.enabled || e.state == Idle {
		return Result{}
	}
	e.PointerMove(x, v)
	defer e.reset()

	seek := Result{Action: ActionSeek, Time: e.pressTime}

	switch e.state {
	case Creating:
		if !e.dragged || e.draft.End <= e.draft.Start {
			return seek
		}
		e.draft.ID = e.opts.NewID()
		e.region = e.draft
		e.draft = nil
		return Result{Action: ActionCreated, Time: e.region.Start, Region: e.region.clone()}
	case Resizing, Moving:
		if !e.dragged {
			return seek
		}
		return Result{Action: ActionUpdated, Time: e.region.Start, Region: e.region.clone()}
	default:
		return seek
	}
}

// DoubleClick clears the region when x lands on it.
func (e *Editor) DoubleClick(x float64, v view.State) Result {
	if !e.enabled || e.HitTest(x, v) == HitOutside {
		return Result{}
	}
	return e.Clear()
}

// Key handles Escape, Delete and Backspace by clearing the region.
func (e *Editor) Key(k Key) Result {
	switch k {
	case KeyEscape, KeyDelete, KeyBackspace:
		e.reset()
		return e.Clear()
	default:
		return Result{}
	}
}

// Clear removes the active region. Without a region it does nothing.
func (e *Editor) Clear() Result {
	if e.region == nil {
		return Result{}
	}
	old := e.region
	e.region = nil
	e.reset()
	return Result{Action: ActionCleared, Time: old.Start, Region: old}
}

// Select replaces the region with [start, end], clamped and ordered.
// A zero-length selection is refused.
func (e *Editor) Select(start, end float64) Result {
	start = clamp(start, 0, e.duration)
	end = clamp(end, 0, e.duration)
	if end < start {
		start, end = end, start
	}
	if end <= start {
		return Result{}
	}
	e.reset()
	e.region = &Region{ID: e.opts.NewID(), Start: start, End: end}
	return Result{Action: ActionCreated, Time: start, Region: e.region.clone()}
}

func (e *Editor) reset() {
	e.state = Idle
	e.handle = HandleNone
	e.draft = nil
	e.dragged = false
	e.grab = 0
}

func (r *Region) clone() *Region {
	c := *r
	return &c
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	return math.Min(math.Max(v, lo), hi)
}
