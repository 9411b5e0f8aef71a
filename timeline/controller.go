// SPDX-License-Identifier: EPL-2.0

// Package timeline is the editing controller behind a waveform view. It
// owns the current audio buffer, the zoom and scroll state, the transport,
// the active region and the undo history, and keeps them consistent across
// loads and edits.
//
// All methods are safe for concurrent use. Slow work (decoding, effects)
// runs without holding the controller lock; events are published after the
// lock is released, in the order they were produced.
package timeline

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/ik5/wavedit/audio"
	"github.com/ik5/wavedit/edit"
	"github.com/ik5/wavedit/effects"
	"github.com/ik5/wavedit/events"
	"github.com/ik5/wavedit/history"
	"github.com/ik5/wavedit/peaks"
	"github.com/ik5/wavedit/playback"
	"github.com/ik5/wavedit/region"
	"github.com/ik5/wavedit/render"
	"github.com/ik5/wavedit/view"
)

const (
	// DefaultZoomFactor is the ZoomIn/ZoomOut step.
	DefaultZoomFactor = 1.5
	// DefaultWidth is the container width until SetContainerWidth is called.
	DefaultWidth = 1000.0

	MinPlaybackRate = 0.25
	MaxPlaybackRate = 4.0

	// wheelNotch is the wheel delta of one mouse wheel step.
	wheelNotch = 100.0
	// wheelScrollStep is the part of the visible window one notch scrolls.
	wheelScrollStep = 0.1

	// maxPeakWidth caps the main waveform peak resolution when zoomed in
	// far on a long clip.
	maxPeakWidth = 1 << 18
)

// Options configures a Controller. Engine is required.
type Options struct {
	Engine  playback.Engine
	Bus     *events.Bus
	Logger  *slog.Logger
	Effects *effects.Catalog

	ZoomFactor    float64
	Width         float64
	HistoryLimit  int
	TrimTolerance float64
	Region        region.Options
}

// PlaybackState is the transport as last observed.
type PlaybackState struct {
	Playing     bool    `json:"playing"`
	CurrentTime float64 `json:"current_time"`
	Rate        float64 `json:"rate"`
}

// WheelEvent is a mouse wheel step over the waveform.
type WheelEvent struct {
	DeltaX, DeltaY float64
	PointerX       float64
	Ctrl, Meta     bool
	Shift          bool
}

// Controller coordinates one editing session.
type Controller struct {
	mu     sync.Mutex
	opts   Options
	engine playback.Engine
	bus    *events.Bus
	logger *slog.Logger
	fx     *effects.Catalog

	buf      *audio.Buffer
	view     view.State
	playback PlaybackState
	editor   *region.Editor
	gen      *peaks.Generator
	hist     *history.History

	loadSeq uint64
	pending bool
}

// New creates a controller with nothing loaded.
func New(opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.ZoomFactor <= 1 {
		opts.ZoomFactor = DefaultZoomFactor
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.TrimTolerance <= 0 {
		opts.TrimTolerance = edit.DefaultTrimTolerance
	}
	if opts.Effects == nil {
		opts.Effects = effects.DefaultCatalog(effects.ResolvePath(""))
	}
	return &Controller{
		opts:     opts,
		engine:   opts.Engine,
		bus:      opts.Bus,
		logger:   opts.Logger,
		fx:       opts.Effects,
		view:     view.State{Width: opts.Width},
		playback: PlaybackState{Rate: 1},
		editor:   region.NewEditor(opts.Region),
		gen:      peaks.NewGenerator(opts.Logger),
		hist:     history.New(opts.HistoryLimit),
	}
}

func (c *Controller) publish(evs []events.Event) {
	for _, e := range evs {
		c.bus.Publish(e)
	}
}

// Load installs the buffer returned by open. If another Load starts
// before open returns, this result is dropped and Load returns nil. On
// failure the previous buffer stays loaded.
func (c *Controller) Load(ctx context.Context, open func(context.Context) (*audio.Buffer, error)) error {
	c.mu.Lock()
	c.loadSeq++
	seq := c.loadSeq
	c.mu.Unlock()

	buf, err := open(ctx)

	c.mu.Lock()
	if seq != c.loadSeq {
		c.mu.Unlock()
		c.logger.Debug("discarding stale load", "load", seq)
		return nil
	}
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("load audio: %w", err)
	}
	if buf == nil {
		c.mu.Unlock()
		return ErrNoSource
	}
	if err := c.engine.Load(buf); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("load audio into engine: %w", err)
	}

	evs := c.installLocked(buf)
	c.view = view.Fit(c.view.Width, buf.Duration())
	c.playback.CurrentTime = 0
	if err := c.hist.Reset(history.NewEntry(buf, "Original", history.Metadata{Kind: history.KindOriginal})); err != nil {
		c.logger.Error("failed to reset history", "error", err)
	}
	evs = append(evs, events.Event{
		Type: events.SourceLoaded,
		Details: events.SourceDetails{
			Duration:   buf.Duration(),
			SampleRate: buf.SampleRate(),
			Channels:   buf.NumChannels(),
		},
	})
	c.mu.Unlock()

	c.publish(evs)
	return nil
}

// LoadBuffer installs an already decoded buffer.
func (c *Controller) LoadBuffer(buf *audio.Buffer) error {
	return c.Load(context.Background(), func(context.Context) (*audio.Buffer, error) {
		return buf, nil
	})
}

// installLocked makes buf current: the region is cleared, the editor and
// peak generator follow the new buffer and the view keeps its zoom where
// the new duration allows it. The engine must already hold buf.
func (c *Controller) installLocked(buf *audio.Buffer) []events.Event {
	var evs []events.Event
	if res := c.editor.Clear(); res.Action == region.ActionCleared {
		evs = append(evs, regionEvent(events.RegionDeselected, res.Region))
	}

	c.buf = buf
	c.editor.SetDuration(buf.Duration())
	c.gen.Bind(buf)

	c.view.Duration = buf.Duration()
	c.view = c.view.Clamped()
	c.playback.Playing = false
	c.playback.CurrentTime = clamp(c.playback.CurrentTime, 0, buf.Duration())
	c.peaksLocked()
	return evs
}

func regionEvent(t events.Type, r *region.Region) events.Event {
	return events.Event{
		Type:    t,
		Details: events.RegionDetails{RegionID: r.ID, Start: r.Start, End: r.End},
	}
}

// Buffer returns the current audio.
func (c *Controller) Buffer() *audio.Buffer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf
}

// Duration of the current audio in seconds.
func (c *Controller) Duration() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view.Duration
}

// View returns the zoom and scroll state.
func (c *Controller) View() view.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Playback returns the transport state.
func (c *Controller) Playback() PlaybackState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playback
}

// Region returns the active region.
func (c *Controller) Region() (region.Region, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editor.Region()
}

// Pending reports whether an edit is being applied.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// History exposes the undo list.
func (c *Controller) History() *history.History { return c.hist }

// Effects returns the effect catalog used by ApplyEffect.
func (c *Controller) Effects() *effects.Catalog { return c.fx }

// Frame returns what the render loop should draw now.
func (c *Controller) Frame() render.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()

	f := render.Frame{
		Peaks:   c.peaksLocked(),
		View:    c.view,
		Time:    c.playback.CurrentTime,
		Playing: c.playback.Playing,
	}
	if r, ok := c.editor.Region(); ok {
		f.Region = &r
	}
	if d, ok := c.editor.Draft(); ok {
		f.Draft = &d
	}
	return f
}

// Peaks returns the main waveform peaks at the current zoom.
func (c *Controller) Peaks() *peaks.Set {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.peaksLocked()
}

// MinimapPeaks returns whole-clip peaks width pixels wide.
func (c *Controller) MinimapPeaks(width int) *peaks.Set {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.buf == nil || width <= 0 {
		return nil
	}
	return c.gen.Generate(c.buf, peaks.SamplesPerPixel(c.buf.Frames(), width), width)
}

func (c *Controller) peaksLocked() *peaks.Set {
	if c.buf == nil {
		return nil
	}
	width := min(int(math.Ceil(c.view.ContentWidth())), maxPeakWidth)
	if width <= 0 {
		return nil
	}
	return c.gen.Generate(c.buf, peaks.SamplesPerPixel(c.buf.Frames(), width), width)
}

// PeakStats reports the peak cache counters.
func (c *Controller) PeakStats() peaks.Stats {
	return c.gen.Stats()
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if hi < lo {
		hi = lo
	}
	return math.Min(math.Max(v, lo), hi)
}
