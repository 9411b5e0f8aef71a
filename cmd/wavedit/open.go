// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"math"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/spf13/cobra"

	"github.com/ik5/wavedit/export"
	ebitenplayback "github.com/ik5/wavedit/playback/ebiten"
	"github.com/ik5/wavedit/region"
	"github.com/ik5/wavedit/render"
	"github.com/ik5/wavedit/render/raster"
	"github.com/ik5/wavedit/timeline"
)

const (
	minWindowW   = 480
	minWaveH     = 80
	statusHeight = 20
	// doubleClickTicks is the longest gap between two clicks of a
	// double click, in updates.
	doubleClickTicks = 18
	// wheelScale converts ebiten wheel offsets to pixel deltas.
	wheelScale = 100
)

// frameScheduler runs the render loop's animation callback from the game
// Update, on the ebiten goroutine.
type frameScheduler struct {
	mu    sync.Mutex
	frame func()
}

func (s *frameScheduler) Start(frame func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = frame
}

func (s *frameScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = nil
}

func (s *frameScheduler) tick() {
	s.mu.Lock()
	frame := s.frame
	s.mu.Unlock()
	if frame != nil {
		frame()
	}
}

// editorGame is the interactive editor window.
type editorGame struct {
	ctx      context.Context
	app      *app
	c        *timeline.Controller
	name     string
	theme    raster.Theme
	logger   *slog.Logger
	exporter export.Sink

	l      layout
	frames *frameScheduler
	loop   *render.Loop
	wave   *raster.Surface
	ruler  *raster.Surface
	mini   *raster.Surface

	waveImg, rulerImg, miniImg *ebiten.Image
	lastDraws                  uint64

	tick        int
	lastClick   int
	lastClickX  int
	dragging    bool
	minimapDrag bool

	mu     sync.Mutex
	status string
}

func newEditorGame(ctx context.Context, a *app, s *session, path string) (*editorGame, error) {
	rs := a.settings.Render
	theme, err := rs.Theme()
	if err != nil {
		return nil, err
	}

	g := &editorGame{
		ctx:      ctx,
		app:      a,
		c:        s.c,
		name:     filepath.Base(path),
		theme:    theme,
		logger:   a.logger,
		exporter: export.FileSink{Dir: a.settings.Export.Dir},
		l: layout{
			width:         rs.Width,
			rulerHeight:   rs.RulerHeight,
			waveHeight:    rs.Height,
			minimapHeight: rs.MinimapHeight,
		},
		frames:    &frameScheduler{},
		lastClick: -doubleClickTicks,
		status:    "Ready",
	}
	g.wave = raster.New(g.l.width, g.l.waveHeight, theme)
	g.ruler = raster.New(g.l.width, g.l.rulerHeight, theme)
	g.mini = raster.New(g.l.width, g.l.minimapHeight, theme)
	g.loop = render.NewLoop(g.c.Frame, g.frames, a.logger)
	g.c.SetContainerWidth(float64(g.l.width))
	g.loop.Init(g.wave)
	return g, nil
}

func (g *editorGame) windowSize() (int, int) {
	return g.l.width, g.l.rulerHeight + g.l.waveHeight + g.l.minimapHeight + statusHeight
}

func (g *editorGame) setStatus(format string, args ...any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.status = fmt.Sprintf(format, args...)
}

func (g *editorGame) statusText() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

func (g *editorGame) Update() error {
	g.tick++
	st := g.c.Tick()

	g.handleKeys(st)
	g.handleMouse()

	if st.Playing {
		g.loop.StartAnimation()
	} else {
		g.loop.StopAnimation()
	}
	g.frames.tick()
	g.loop.Invalidate()
	return nil
}

func (g *editorGame) Draw(screen *ebiten.Image) {
	screen.Fill(g.theme.Background)

	if d := g.loop.Draws(); d != g.lastDraws || g.waveImg == nil {
		g.lastDraws = d
		g.upload()
	}

	op := &ebiten.DrawImageOptions{}
	screen.DrawImage(g.rulerImg, op)
	op.GeoM.Translate(0, float64(g.l.rulerHeight))
	screen.DrawImage(g.waveImg, op)
	op.GeoM.Translate(0, float64(g.l.waveHeight))
	screen.DrawImage(g.miniImg, op)

	g.drawRulerLabels(screen)
	ebitenutil.DebugPrintAt(screen, g.statusLine(), 4, g.l.rulerHeight+g.l.waveHeight+g.l.minimapHeight+2)
}

// upload recomposes ruler and minimap for the frame the loop just drew and
// copies all three panels to the GPU.
func (g *editorGame) upload() {
	f := g.c.Frame()
	render.ComposeRuler(g.ruler, f)
	render.ComposeMinimap(g.mini, g.c.MinimapPeaks(g.l.width), f)

	g.waveImg = writeImage(g.waveImg, g.wave.Image())
	g.rulerImg = writeImage(g.rulerImg, g.ruler.Image())
	g.miniImg = writeImage(g.miniImg, g.mini.Image())
}

func writeImage(dst *ebiten.Image, src *image.RGBA) *ebiten.Image {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if dst == nil || dst.Bounds().Dx() != w || dst.Bounds().Dy() != h {
		if dst != nil {
			dst.Deallocate()
		}
		dst = ebiten.NewImage(max(w, 1), max(h, 1))
	}
	if w > 0 && h > 0 {
		dst.WritePixels(src.Pix)
	}
	return dst
}

func (g *editorGame) drawRulerLabels(screen *ebiten.Image) {
	v := g.c.View()
	if v.Zoom <= 0 {
		return
	}
	step := raster.TickInterval(v.Zoom, raster.MinTickSpacing)
	for t := math.Ceil(v.Scroll/step) * step; t <= v.Duration; t += step {
		x := v.TimeToPixel(t)
		if x >= v.Width {
			break
		}
		ebitenutil.DebugPrintAt(screen, formatTime(t, step), int(x)+3, 0)
	}
}

func formatTime(t, step float64) string {
	m := int(t) / 60
	s := t - float64(m*60)
	switch {
	case step >= 1:
		return fmt.Sprintf("%d:%02d", m, int(s))
	case step >= 0.1:
		return fmt.Sprintf("%d:%04.1f", m, s)
	default:
		return fmt.Sprintf("%d:%06.3f", m, s)
	}
}

func (g *editorGame) statusLine() string {
	st := g.c.Playback()
	v := g.c.View()
	parts := []string{
		fmt.Sprintf("%s  %s / %s", g.name, formatTime(st.CurrentTime, 0.01), formatTime(v.Duration, 0.01)),
		fmt.Sprintf("zoom %.0f px/s", v.Zoom),
	}
	if st.Rate != 1 {
		parts = append(parts, fmt.Sprintf("rate %.2fx", st.Rate))
	}
	if r, ok := g.c.Region(); ok {
		parts = append(parts, "region "+r.String())
	}
	if g.c.Pending() {
		parts = append(parts, "applying...")
	}
	parts = append(parts, g.statusText())
	return strings.Join(parts, "  |  ")
}

func (g *editorGame) Layout(outsideW, outsideH int) (int, int) {
	w := max(outsideW, minWindowW)
	waveH := max(outsideH-g.l.rulerHeight-g.l.minimapHeight-statusHeight, minWaveH)
	if w != g.l.width || waveH != g.l.waveHeight {
		g.l.width, g.l.waveHeight = w, waveH
		g.c.SetContainerWidth(float64(w))
		g.ruler.Resize(w, g.l.rulerHeight)
		g.mini.Resize(w, g.l.minimapHeight)
		g.loop.Resize(w, waveH)
	}
	return g.windowSize()
}

func (g *editorGame) handleMouse() {
	mx, my := ebiten.CursorPosition()
	x := float64(mx)
	waveTop := g.l.rulerHeight
	miniTop := waveTop + g.l.waveHeight
	inWave := my >= waveTop && my < miniTop
	inMini := my >= miniTop && my < miniTop+g.l.minimapHeight

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		switch {
		case inWave:
			if g.tick-g.lastClick <= doubleClickTicks && abs(mx-g.lastClickX) < 4 {
				g.c.DoubleClick(x)
				g.lastClick = -doubleClickTicks
				break
			}
			g.lastClick, g.lastClickX = g.tick, mx
			g.c.PointerDown(x)
			g.dragging = true
		case inMini:
			g.c.MinimapClick(x, float64(g.l.width))
			g.minimapDrag = true
		}
	}

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if g.dragging {
			g.c.PointerMove(x)
		}
		if g.minimapDrag {
			g.c.MinimapClick(x, float64(g.l.width))
		}
	}

	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if g.dragging {
			g.c.PointerUp(x)
		}
		g.dragging, g.minimapDrag = false, false
	}

	wx, wy := ebiten.Wheel()
	if (wx != 0 || wy != 0) && inWave {
		g.c.Wheel(timeline.WheelEvent{
			DeltaX:   -wx * wheelScale,
			DeltaY:   -wy * wheelScale,
			PointerX: x,
			Ctrl:     ebiten.IsKeyPressed(ebiten.KeyControl),
			Meta:     ebiten.IsKeyPressed(ebiten.KeyMeta),
			Shift:    ebiten.IsKeyPressed(ebiten.KeyShift),
		})
	}
}

func (g *editorGame) handleKeys(st timeline.PlaybackState) {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)
	pressed := inpututil.IsKeyJustPressed

	switch {
	case pressed(ebiten.KeySpace):
		if st.Playing {
			g.c.Pause()
		} else if err := g.c.Play(nil); err != nil {
			g.setStatus("play: %v", err)
		}
	case pressed(ebiten.KeyEscape):
		g.c.Key(region.KeyEscape)
	case pressed(ebiten.KeyDelete):
		g.c.Key(region.KeyDelete)
	case pressed(ebiten.KeyBackspace):
		g.c.Key(region.KeyBackspace)
	case pressed(ebiten.KeyX):
		g.runEdit("cut", g.c.Cut)
	case pressed(ebiten.KeyK):
		g.runEdit("keep", g.c.Keep)
	case ctrl && pressed(ebiten.KeyZ) && shift, ctrl && pressed(ebiten.KeyY):
		g.history("redo", g.c.Redo)
	case ctrl && pressed(ebiten.KeyZ):
		g.history("undo", g.c.Undo)
	case ctrl && pressed(ebiten.KeyS):
		g.runEdit("export", g.export)
	case pressed(ebiten.KeyEqual), pressed(ebiten.KeyKPAdd):
		g.c.ZoomIn()
	case pressed(ebiten.KeyMinus), pressed(ebiten.KeyKPSubtract):
		g.c.ZoomOut()
	case pressed(ebiten.KeyDigit0):
		g.c.ResetZoom()
	case pressed(ebiten.KeyBracketLeft):
		g.c.SetPlaybackRate(st.Rate / 1.25)
	case pressed(ebiten.KeyBracketRight):
		g.c.SetPlaybackRate(st.Rate * 1.25)
	}
}

// runEdit applies fn off the ebiten goroutine; the controller keeps
// region input disabled until it finishes.
func (g *editorGame) runEdit(label string, fn func(context.Context) error) {
	g.setStatus("%s...", label)
	go func() {
		if err := fn(g.ctx); err != nil {
			g.logger.Warn("failed to apply edit", "edit", label, "error", err)
			g.setStatus("%s: %v", label, err)
			return
		}
		g.setStatus("%s done", label)
	}()
}

func (g *editorGame) history(label string, fn func() error) {
	if err := fn(); err != nil {
		g.setStatus("%s: %v", label, err)
		return
	}
	g.setStatus("%s", label)
}

func (g *editorGame) export(ctx context.Context) error {
	name := strings.TrimSuffix(g.name, filepath.Ext(g.name)) + "-edit.wav"
	loc, err := export.Export(ctx, g.exporter, name, g.c.Buffer(), g.app.settings.Export.BitDepth)
	if err != nil {
		return err
	}
	g.logger.Info("exported", "path", loc)
	return nil
}

func (g *editorGame) Close() {
	g.loop.Destroy()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (a *app) openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <file>",
		Short: "Open the interactive editor",
		Long: `Open a clip in an editor window.

Mouse: click to seek, drag to select, drag region edges to resize, drag
inside a region to move it, double click a region to clear it. Wheel
scrolls, Ctrl/Cmd+wheel zooms around the pointer. Click or drag the
minimap to jump.

Keys: Space play/pause, Esc/Delete clear region, X cut, K keep,
Ctrl+Z undo, Ctrl+Y or Ctrl+Shift+Z redo, +/- zoom, 0 fit,
[ ] playback rate, Ctrl+S export to the configured directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			engine, err := ebitenplayback.New(a.settings.Playback.SampleRate, a.logger)
			if err != nil {
				return err
			}
			defer engine.Close()

			s, err := a.open(ctx, args[0], engine)
			if err != nil {
				return err
			}
			defer s.Close()

			g, err := newEditorGame(ctx, a, s, args[0])
			if err != nil {
				return err
			}
			defer g.Close()

			w, h := g.windowSize()
			ebiten.SetWindowSize(w, h)
			ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
			ebiten.SetWindowSizeLimits(minWindowW, g.l.rulerHeight+minWaveH+g.l.minimapHeight+statusHeight, -1, -1)
			ebiten.SetWindowTitle("wavedit - " + g.name)
			return ebiten.RunGame(g)
		},
	}
}
