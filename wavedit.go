// SPDX-License-Identifier: EPL-2.0

package wavedit

import (
	"context"
	"log/slog"

	"github.com/ik5/wavedit/audio"
	"github.com/ik5/wavedit/config"
	"github.com/ik5/wavedit/effects"
	"github.com/ik5/wavedit/events"
	"github.com/ik5/wavedit/formats"
	"github.com/ik5/wavedit/playback"
	"github.com/ik5/wavedit/region"
	"github.com/ik5/wavedit/timeline"
)

// NewController builds a timeline controller from settings.
func NewController(s config.Settings, engine playback.Engine, bus *events.Bus, logger *slog.Logger) *timeline.Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return timeline.New(timeline.Options{
		Engine:        engine,
		Bus:           bus,
		Logger:        logger,
		Effects:       effects.DefaultCatalog(effects.ResolvePath(s.Effects.FFmpegPath)),
		ZoomFactor:    s.Editor.ZoomFactor,
		Width:         float64(s.Render.Width),
		HistoryLimit:  s.Editor.HistoryLimit,
		TrimTolerance: s.Editor.SilenceTrimTolerance,
		Region: region.Options{
			MinDragPixels:   s.Editor.MinDragPixels,
			HandleTolerance: s.Editor.HandleTolerance,
		},
	})
}

// OpenFile decodes path with the decoder for its extension and loads it
// into c.
func OpenFile(ctx context.Context, c *timeline.Controller, path string) error {
	reg := formats.NewRegistry()
	return c.Load(ctx, func(ctx context.Context) (*audio.Buffer, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return formats.DecodeFile(reg, path)
	})
}
