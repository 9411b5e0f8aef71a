// SPDX-License-Identifier: EPL-2.0

// Package rendertest provides a Surface that records draw calls and a
// Scheduler driven by hand.
package rendertest

import (
	"sync"

	"github.com/ik5/wavedit/peaks"
	"github.com/ik5/wavedit/render"
)

// Call is one recorded Surface method call.
type Call struct {
	Op    string
	Args  []float64
	Set   *peaks.Set
	Style render.RegionStyle
}

// Surface records every draw call.
type Surface struct {
	mu     sync.Mutex
	width  int
	height int
	calls  []Call
}

// NewSurface returns an empty recorder of the given size.
func NewSurface(width, height int) *Surface {
	return &Surface{width: width, height: height}
}

func (s *Surface) record(c Call) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, c)
}

func (s *Surface) Clear()          { s.record(Call{Op: "clear"}) }
func (s *Surface) DrawBackground() { s.record(Call{Op: "background"}) }

func (s *Surface) DrawWaveform(set *peaks.Set, o render.WaveformOptions) {
	s.record(Call{Op: "waveform", Set: set, Args: []float64{o.StartX, o.Width, o.Height}})
}

func (s *Surface) DrawProgress(fraction float64, o render.ProgressOptions) {
	s.record(Call{Op: "progress", Args: []float64{fraction, o.Width, o.StartX}})
}

func (s *Surface) DrawRegion(startX, endX float64, style render.RegionStyle) {
	s.record(Call{Op: "region", Args: []float64{startX, endX}, Style: style})
}

func (s *Surface) DrawCursor(x float64) {
	s.record(Call{Op: "cursor", Args: []float64{x}})
}

func (s *Surface) DrawTimeline(duration, pps float64, o render.TimelineOptions) {
	s.record(Call{Op: "timeline", Args: []float64{duration, pps, o.Height, o.Offset}})
}

func (s *Surface) DrawMinimap(set *peaks.Set, start, end float64, o render.MinimapOptions) {
	s.record(Call{Op: "minimap", Set: set, Args: []float64{start, end, o.Height}})
}

func (s *Surface) Width() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width
}

func (s *Surface) Height() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.height
}

func (s *Surface) Resize(width, height int) {
	s.mu.Lock()
	s.width, s.height = width, height
	s.mu.Unlock()
	s.record(Call{Op: "resize", Args: []float64{float64(width), float64(height)}})
}

// Calls returns a copy of the recorded calls.
func (s *Surface) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Ops returns the recorded method names in order.
func (s *Surface) Ops() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ops := make([]string, len(s.calls))
	for i, c := range s.calls {
		ops[i] = c.Op
	}
	return ops
}

// Find returns the recorded calls named op.
func (s *Surface) Find(op string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets the recorded calls.
func (s *Surface) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

// Scheduler runs the frame callback only when Tick is called.
type Scheduler struct {
	mu    sync.Mutex
	frame func()
	stops int
}

func (m *Scheduler) Start(frame func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frame = frame
}

func (m *Scheduler) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frame = nil
	m.stops++
}

// Tick runs one frame if started. It reports whether a frame ran.
func (m *Scheduler) Tick() bool {
	m.mu.Lock()
	frame := m.frame
	m.mu.Unlock()
	if frame == nil {
		return false
	}
	frame()
	return true
}

// Running reports whether Start was called without a matching Stop.
func (m *Scheduler) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frame != nil
}

// Stops counts Stop calls.
func (m *Scheduler) Stops() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stops
}
