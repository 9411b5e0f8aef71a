// SPDX-License-Identifier: EPL-2.0

package render

import (
	"log/slog"
	"sync"
	"time"

	"github.com/ik5/wavedit/peaks"
	"github.com/ik5/wavedit/region"
)

// DefaultFrameInterval is the animation period of TickerScheduler.
const DefaultFrameInterval = time.Second / 60

// Scheduler calls a function once per animation frame.
type Scheduler interface {
	Start(frame func())
	// Stop returns after the last frame call has finished. No call
	// happens after Stop returns.
	Stop()
}

// TickerScheduler drives frames from a time.Ticker on its own goroutine.
type TickerScheduler struct {
	Interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// Start begins calling frame. It does nothing when already running.
func (t *TickerScheduler) Start(frame func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		return
	}

	interval := t.Interval
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	stop, done := make(chan struct{}), make(chan struct{})
	t.stop, t.done = stop, done

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				select {
				case <-stop:
					return
				default:
				}
				frame()
			}
		}
	}()
}

func (t *TickerScheduler) Stop() {
	t.mu.Lock()
	stop, done := t.stop, t.done
	t.stop, t.done = nil, nil
	t.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

type regionKey struct {
	ok         bool
	start, end float64
}

func keyOf(r *region.Region) regionKey {
	if r == nil {
		return regionKey{}
	}
	return regionKey{ok: true, start: r.Start, end: r.End}
}

// frameKey holds what makes two frames look different.
type frameKey struct {
	peaks  *peaks.Set
	time   float64
	zoom   float64
	scroll float64
	width  float64
	region regionKey
	draft  regionKey
}

func keyFor(f Frame) frameKey {
	return frameKey{
		peaks:  f.Peaks,
		time:   f.Time,
		zoom:   f.View.Zoom,
		scroll: f.View.Scroll,
		width:  f.View.Width,
		region: keyOf(f.Region),
		draft:  keyOf(f.Draft),
	}
}

// Loop redraws a surface from a frame source.
type Loop struct {
	// animMu orders scheduler Start and Stop calls. Frame callbacks take
	// only mu, so Stop may wait for one while animMu is held.
	animMu sync.Mutex

	mu        sync.Mutex
	source    func() Frame
	scheduler Scheduler
	logger    *slog.Logger

	surface   Surface
	last      frameKey
	drawn     bool
	animating bool
	draws     uint64
}

// NewLoop draws frames returned by source. A nil scheduler uses a
// TickerScheduler at DefaultFrameInterval.
func NewLoop(source func() Frame, scheduler Scheduler, logger *slog.Logger) *Loop {
	if scheduler == nil {
		scheduler = &TickerScheduler{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{source: source, scheduler: scheduler, logger: logger}
}

// Init attaches the surface and draws the first frame.
func (l *Loop) Init(s Surface) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.surface = s
	l.drawn = false
	l.drawLocked(true)
}

// Resize resizes the surface and redraws.
func (l *Loop) Resize(width, height int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.surface == nil {
		return
	}
	l.surface.Resize(width, height)
	l.drawLocked(true)
}

// Destroy stops animating and detaches the surface.
func (l *Loop) Destroy() {
	l.StopAnimation()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.surface = nil
	l.drawn = false
}

// Invalidate redraws when the current frame differs from the last one
// drawn. It reports whether it drew.
func (l *Loop) Invalidate() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.drawLocked(false)
}

// Redraw draws unconditionally.
func (l *Loop) Redraw() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.drawLocked(true)
}

// StartAnimation redraws on every scheduler frame until StopAnimation.
func (l *Loop) StartAnimation() {
	l.animMu.Lock()
	defer l.animMu.Unlock()

	l.mu.Lock()
	if l.animating || l.surface == nil {
		l.mu.Unlock()
		return
	}
	l.animating = true
	l.mu.Unlock()

	l.logger.Debug("render animation started")
	l.scheduler.Start(l.Redraw)
}

// StopAnimation stops the per-frame redraw. Once it returns no frame
// callback is running or will run.
func (l *Loop) StopAnimation() {
	l.animMu.Lock()
	defer l.animMu.Unlock()

	l.mu.Lock()
	if !l.animating {
		l.mu.Unlock()
		return
	}
	l.animating = false
	l.mu.Unlock()

	l.scheduler.Stop()
	l.logger.Debug("render animation stopped")
}

// Animating reports whether per-frame redraw is on.
func (l *Loop) Animating() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.animating
}

// Draws counts composed frames.
func (l *Loop) Draws() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.draws
}

func (l *Loop) drawLocked(force bool) bool {
	if l.surface == nil {
		return false
	}
	f := l.source()
	key := keyFor(f)
	if !force && l.drawn && key == l.last {
		return false
	}
	Compose(l.surface, f)
	l.last = key
	l.drawn = true
	l.draws++
	return true
}
