// SPDX-License-Identifier: EPL-2.0

package region

import "fmt"

// Region is a selected time interval in seconds with 0 <= Start <= End.
type Region struct {
	ID    string  `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Length returns End - Start.
func (r Region) Length() float64 { return r.End - r.Start }

// Contains reports whether t lies inside [Start, End].
func (r Region) Contains(t float64) bool { return t >= r.Start && t <= r.End }

func (r Region) String() string {
	return fmt.Sprintf("[%.3fs, %.3fs]", r.Start, r.End)
}

// Handle identifies a region edge.
type Handle int

const (
	HandleNone Handle = iota
	HandleStart
	HandleEnd
)

// Hit is the result of hit-testing a pointer position against the region.
type Hit int

const (
	HitOutside Hit = iota
	HitBody
	HitStartHandle
	HitEndHandle
)

func (h Hit) String() string {
	switch h {
	case HitBody:
		return "body"
	case HitStartHandle:
		return "start-handle"
	case HitEndHandle:
		return "end-handle"
	default:
		return "outside"
	}
}

// State is the editor's gesture state.
type State int

const (
	// Idle means no pointer gesture is in progress.
	Idle State = iota
	// Pressing means the pointer went down inside the region and has not
	// yet moved far enough to count as a drag.
	Pressing
	// Creating means a new region is being dragged out.
	Creating
	// Resizing means one edge is being dragged.
	Resizing
	// Moving means the whole region is being dragged.
	Moving
)

func (s State) String() string {
	switch s {
	case Pressing:
		return "pressing"
	case Creating:
		return "creating"
	case Resizing:
		return "resizing"
	case Moving:
		return "moving"
	default:
		return "idle"
	}
}

// Action tells the caller what a gesture step amounted to.
type Action int

const (
	ActionNone Action = iota
	// ActionSeek asks the caller to move the playhead to Result.Time.
	ActionSeek
	ActionCreated
	ActionUpdated
	ActionCleared
)

func (a Action) String() string {
	switch a {
	case ActionSeek:
		return "seek"
	case ActionCreated:
		return "created"
	case ActionUpdated:
		return "updated"
	case ActionCleared:
		return "cleared"
	default:
		return "none"
	}
}

// Result is returned by every editor operation. Region holds a copy of the
// affected region, or nil.
type Result struct {
	Action Action
	Time   float64
	Region *Region
}

// Key is a keyboard key the editor reacts to.
type Key int

const (
	KeyOther Key = iota
	KeyEscape
	KeyDelete
	KeyBackspace
)
