// SPDX-License-Identifier: EPL-2.0

package render_test

import (
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ik5/wavedit/internal/audiotest"
	"github.com/ik5/wavedit/peaks"
	"github.com/ik5/wavedit/region"
	"github.com/ik5/wavedit/render"
	"github.com/ik5/wavedit/render/rendertest"
	"github.com/ik5/wavedit/view"
)

func testPeaks() *peaks.Set {
	buf := audiotest.SineBuffer(8000, 1, 80000, 100)
	return peaks.Compute(buf, peaks.SamplesPerPixel(buf.Frames(), 2000), 2000)
}

func zoomedView() view.State {
	return view.State{Zoom: 200, Scroll: 2, Width: 1000, Duration: 10}
}

func TestCompose_Order(t *testing.T) {
	t.Parallel()

	s := rendertest.NewSurface(1000, 120)
	render.Compose(s, render.Frame{
		Peaks:  testPeaks(),
		View:   zoomedView(),
		Time:   3,
		Region: &region.Region{ID: "r1", Start: 2.5, End: 4},
		Draft:  &region.Region{Start: 5, End: 6},
	})

	want := []string{"clear", "background", "waveform", "progress", "region", "region", "cursor"}
	if got := s.Ops(); !slices.Equal(got, want) {
		t.Fatalf("ops = %v, want %v", got, want)
	}

	regions := s.Find("region")
	if regions[0].Style.Draft || !regions[1].Style.Draft {
		t.Error("committed region must be drawn before the draft")
	}
	if got := regions[0].Args; got[0] != 100 || got[1] != 400 {
		t.Errorf("region x = %v, want [100 400]", got)
	}
}

func TestCompose_WaveformGeometry(t *testing.T) {
	t.Parallel()

	s := rendertest.NewSurface(1000, 120)
	set := testPeaks()
	render.Compose(s, render.Frame{Peaks: set, View: zoomedView(), Time: 5})

	w := s.Find("waveform")[0]
	if w.Set != set {
		t.Error("waveform drawn from a different peak set")
	}
	if w.Args[0] != -400 || w.Args[1] != 2000 || w.Args[2] != 120 {
		t.Errorf("waveform opts = %v, want [-400 2000 120]", w.Args)
	}

	p := s.Find("progress")[0]
	if p.Args[0] != 0.5 || p.Args[1] != 2000 || p.Args[2] != -400 {
		t.Errorf("progress = %v, want [0.5 2000 -400]", p.Args)
	}

	c := s.Find("cursor")[0]
	if c.Args[0] != 600 {
		t.Errorf("cursor x = %v, want 600", c.Args[0])
	}
}

func TestCompose_SkipsHiddenOverlays(t *testing.T) {
	t.Parallel()

	s := rendertest.NewSurface(1000, 120)
	render.Compose(s, render.Frame{
		View:   zoomedView(),
		Time:   9,
		Region: &region.Region{Start: 8, End: 9.5},
	})

	want := []string{"clear", "background", "progress"}
	if got := s.Ops(); !slices.Equal(got, want) {
		t.Errorf("ops = %v, want %v", got, want)
	}
}

func TestComposeRuler(t *testing.T) {
	t.Parallel()

	s := rendertest.NewSurface(1000, 24)
	render.ComposeRuler(s, render.Frame{View: zoomedView()})

	tl := s.Find("timeline")
	if len(tl) != 1 {
		t.Fatalf("timeline drawn %d times", len(tl))
	}
	if got := tl[0].Args; !slices.Equal(got, []float64{10, 200, 24, 400}) {
		t.Errorf("timeline args = %v, want [10 200 24 400]", got)
	}
}

func TestComposeMinimap(t *testing.T) {
	t.Parallel()

	s := rendertest.NewSurface(500, 40)
	set := testPeaks()
	render.ComposeMinimap(s, set, render.Frame{View: zoomedView(), Time: 5})

	m := s.Find("minimap")[0]
	if m.Set != set || m.Args[0] != 0.2 || m.Args[1] != 0.7 || m.Args[2] != 40 {
		t.Errorf("minimap = %v, want viewport [0.2 0.7] height 40", m.Args)
	}
	if c := s.Find("cursor")[0]; c.Args[0] != 250 {
		t.Errorf("minimap cursor = %v, want 250", c.Args[0])
	}

	s.Reset()
	render.ComposeMinimap(s, nil, render.Frame{})
	if got := s.Ops(); !slices.Equal(got, []string{"clear", "background"}) {
		t.Errorf("empty clip ops = %v", got)
	}
}

func TestMinimapTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		x, width, dur float64
		want          float64
	}{
		{250, 500, 10, 5},
		{-10, 500, 10, 0},
		{900, 500, 10, 10},
		{10, 0, 10, 0},
		{10, 500, 0, 0},
	}
	for _, tt := range tests {
		if got := render.MinimapTime(tt.x, tt.width, tt.dur); got != tt.want {
			t.Errorf("MinimapTime(%v, %v, %v) = %v, want %v", tt.x, tt.width, tt.dur, got, tt.want)
		}
	}
}

type frameSource struct {
	f atomic.Pointer[render.Frame]
}

func (fs *frameSource) set(f render.Frame) { fs.f.Store(&f) }
func (fs *frameSource) get() render.Frame  { return *fs.f.Load() }

func TestLoop_InvalidateOnlyOnChange(t *testing.T) {
	t.Parallel()

	src := &frameSource{}
	src.set(render.Frame{View: view.Fit(1000, 10)})
	loop := render.NewLoop(src.get, &rendertest.Scheduler{}, nil)

	if loop.Invalidate() {
		t.Error("Invalidate() drew without a surface")
	}

	s := rendertest.NewSurface(1000, 100)
	loop.Init(s)
	if loop.Draws() != 1 {
		t.Fatalf("Init() draws = %d, want 1", loop.Draws())
	}
	if loop.Invalidate() {
		t.Error("Invalidate() redrew an unchanged frame")
	}

	src.set(render.Frame{View: view.Fit(1000, 10), Time: 1})
	if !loop.Invalidate() {
		t.Error("Invalidate() ignored a time change")
	}

	src.set(render.Frame{View: view.Fit(1000, 10), Time: 1, Region: &region.Region{Start: 1, End: 2}})
	if !loop.Invalidate() {
		t.Error("Invalidate() ignored a new region")
	}
	src.set(render.Frame{View: view.Fit(1000, 10), Time: 1, Region: &region.Region{Start: 1, End: 2}})
	if loop.Invalidate() {
		t.Error("Invalidate() redrew for an equal region")
	}

	loop.Resize(800, 100)
	if loop.Draws() != 4 || s.Width() != 800 {
		t.Errorf("after Resize: draws %d width %d", loop.Draws(), s.Width())
	}
}

func TestLoop_Animation(t *testing.T) {
	t.Parallel()

	src := &frameSource{}
	src.set(render.Frame{View: view.Fit(1000, 10), Playing: true})
	sched := &rendertest.Scheduler{}
	loop := render.NewLoop(src.get, sched, nil)

	loop.StartAnimation()
	if sched.Running() {
		t.Fatal("animation must not start without a surface")
	}

	loop.Init(rendertest.NewSurface(1000, 100))
	loop.StartAnimation()
	loop.StartAnimation()
	if !loop.Animating() || !sched.Running() {
		t.Fatal("StartAnimation() did not start the scheduler")
	}

	sched.Tick()
	sched.Tick()
	if loop.Draws() != 3 {
		t.Errorf("draws = %d, want 3 (init + 2 frames)", loop.Draws())
	}

	loop.StopAnimation()
	loop.StopAnimation()
	if sched.Tick() {
		t.Error("frame ran after StopAnimation")
	}
	if sched.Stops() != 1 {
		t.Errorf("scheduler stopped %d times, want 1", sched.Stops())
	}

	loop.StartAnimation()
	loop.Destroy()
	if loop.Animating() || sched.Running() {
		t.Error("Destroy() left the animation running")
	}
	if loop.Invalidate() {
		t.Error("Invalidate() drew after Destroy")
	}
}

func TestLoop_AnimationToggleRace(t *testing.T) {
	t.Parallel()

	src := &frameSource{}
	src.set(render.Frame{View: view.Fit(1000, 10), Playing: true})

	for range 50 {
		sched := &rendertest.Scheduler{}
		loop := render.NewLoop(src.get, sched, nil)
		loop.Init(rendertest.NewSurface(100, 10))

		var wg sync.WaitGroup
		for i := range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if i%2 == 0 {
					loop.StartAnimation()
				} else {
					loop.StopAnimation()
				}
			}()
		}
		wg.Wait()

		if loop.Animating() != sched.Running() {
			t.Fatalf("Animating() = %v but scheduler running = %v", loop.Animating(), sched.Running())
		}
		loop.Destroy()
		if sched.Running() {
			t.Fatal("Destroy() left the scheduler running")
		}
	}
}

func TestTickerScheduler_StopIsFinal(t *testing.T) {
	t.Parallel()

	var n atomic.Int64
	ts := &render.TickerScheduler{Interval: time.Millisecond}
	ts.Stop()

	ts.Start(func() { n.Add(1) })
	ts.Start(func() { t.Error("second Start replaced the frame func") })

	deadline := time.Now().Add(2 * time.Second)
	for n.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	ts.Stop()

	after := n.Load()
	if after < 3 {
		t.Fatalf("only %d frames ran", after)
	}
	time.Sleep(10 * time.Millisecond)
	if n.Load() != after {
		t.Errorf("frames ran after Stop: %d -> %d", after, n.Load())
	}
}

func TestLoop_WithTickerScheduler(t *testing.T) {
	t.Parallel()

	src := &frameSource{}
	src.set(render.Frame{View: view.Fit(1000, 10)})
	loop := render.NewLoop(src.get, &render.TickerScheduler{Interval: time.Millisecond}, nil)
	loop.Init(rendertest.NewSurface(1000, 100))

	loop.StartAnimation()
	deadline := time.Now().Add(2 * time.Second)
	for loop.Draws() < 5 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	loop.StopAnimation()

	draws := loop.Draws()
	time.Sleep(10 * time.Millisecond)
	if loop.Draws() != draws {
		t.Errorf("redraws after StopAnimation: %d -> %d", draws, loop.Draws())
	}
}

func BenchmarkCompose(b *testing.B) {
	s := rendertest.NewSurface(1000, 120)
	f := render.Frame{Peaks: testPeaks(), View: zoomedView(), Time: 3}

	b.ResetTimer()
	b.ReportAllocs()

	for range b.N {
		s.Reset()
		render.Compose(s, f)
	}
}
