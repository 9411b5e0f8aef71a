// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"image"
	"os"

	"github.com/spf13/cobra"

	"github.com/ik5/wavedit/peaks"
	"github.com/ik5/wavedit/playback"
	"github.com/ik5/wavedit/render"
	"github.com/ik5/wavedit/render/raster"
)

// layout is the stacking of the editor panels, top to bottom.
type layout struct {
	width         int
	rulerHeight   int
	waveHeight    int
	minimapHeight int
}

// snapshot composes ruler, waveform and minimap into one image.
func snapshot(l layout, theme raster.Theme, f render.Frame, mini *peaks.Set) *image.RGBA {
	ruler := raster.New(l.width, l.rulerHeight, theme)
	render.ComposeRuler(ruler, f)

	wave := raster.New(l.width, l.waveHeight, theme)
	render.Compose(wave, f)

	minimap := raster.New(l.width, l.minimapHeight, theme)
	render.ComposeMinimap(minimap, mini, f)

	return raster.Stack(ruler.Image(), wave.Image(), minimap.Image())
}

func (a *app) renderCmd() *cobra.Command {
	var (
		width, height int
		zoom, scroll  float64
		at            float64
		r             regionFlags
		output        string
	)

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render the waveform with ruler and minimap to PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rs := a.settings.Render
			if width <= 0 {
				width = rs.Width
			}
			if height <= 0 {
				height = rs.Height
			}
			theme, err := rs.Theme()
			if err != nil {
				return err
			}

			s, err := a.open(ctx, args[0], playback.NewNull())
			if err != nil {
				return err
			}
			defer s.Close()

			c := s.c
			c.SetContainerWidth(float64(width))
			if zoom > 0 {
				c.SetZoom(zoom)
			}
			c.Scroll(scroll)
			c.Seek(at)
			if r.end > r.start {
				c.SelectRegion(r.start, r.end)
			}

			img := snapshot(layout{
				width:         width,
				rulerHeight:   rs.RulerHeight,
				waveHeight:    height,
				minimapHeight: rs.MinimapHeight,
			}, theme, c.Frame(), c.MinimapPeaks(width))

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := raster.EncodePNG(f, img); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d)\n", output, img.Rect.Dx(), img.Rect.Dy())
			return nil
		},
	}

	cmd.Flags().IntVarP(&width, "width", "w", 0, "Image width in pixels (default from config)")
	cmd.Flags().IntVar(&height, "height", 0, "Waveform height in pixels (default from config)")
	cmd.Flags().Float64Var(&zoom, "zoom", 0, "Zoom in pixels per second (default: fit)")
	cmd.Flags().Float64Var(&scroll, "scroll", 0, "Seconds scrolled from the start")
	cmd.Flags().Float64Var(&at, "at", 0, "Play head position in seconds")
	r.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output PNG file")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
