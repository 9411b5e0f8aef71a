// SPDX-License-Identifier: EPL-2.0

// Package config holds the editor settings, stored as a JSON file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/ik5/wavedit/export"
	"github.com/ik5/wavedit/render/raster"
)

// Configuration defaults are used when values are not specified.
const (
	DefaultZoomFactor           = 1.5
	DefaultMinDragPixels        = 3.0
	DefaultHandleTolerance      = 6.0
	DefaultSilenceTrimTolerance = 0.1
	DefaultHistoryLimit         = 50
	DefaultSampleRate           = 48000
	DefaultRulerHeight          = 24
	DefaultMinimapHeight        = 40
	DefaultWidth                = 1200
	DefaultHeight               = 240
	DefaultLogLevel             = "info"
	DefaultExportDir            = "exports"
	DefaultBitDepth             = 16

	DefaultBackground = "#1E1E24"
	DefaultWave       = "#6CC68C"
	DefaultProgress   = "#FFFFFF30"
	DefaultCursor     = "#FF5533"
	DefaultRuler      = "#AAAAAA"
	DefaultViewport   = "#FFFFFF40"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}([0-9A-Fa-f]{2})?$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("rgbhex", func(fl validator.FieldLevel) bool {
		return colorPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// EditorConfig tunes zooming, region gestures and history.
type EditorConfig struct {
	ZoomFactor           float64 `json:"zoom_factor" validate:"gt=1,lte=4"`
	MinDragPixels        float64 `json:"min_drag_px" validate:"gte=1,lte=50"`
	HandleTolerance      float64 `json:"handle_tolerance_px" validate:"gte=1,lte=50"`
	SilenceTrimTolerance float64 `json:"silence_trim_tolerance" validate:"gte=0,lte=5"`
	HistoryLimit         int     `json:"history_limit" validate:"gte=1,lte=1000"`
}

// PlaybackConfig holds the output device settings.
type PlaybackConfig struct {
	SampleRate int `json:"sample_rate" validate:"oneof=22050 44100 48000 96000"`
}

// RenderConfig holds colors (#RRGGBB or #RRGGBBAA) and layout sizes.
type RenderConfig struct {
	Background    string `json:"background" validate:"rgbhex"`
	Wave          string `json:"wave" validate:"rgbhex"`
	Progress      string `json:"progress" validate:"rgbhex"`
	Cursor        string `json:"cursor" validate:"rgbhex"`
	Ruler         string `json:"ruler" validate:"rgbhex"`
	Viewport      string `json:"viewport" validate:"rgbhex"`
	RulerHeight   int    `json:"ruler_height" validate:"gte=10,lte=100"`
	MinimapHeight int    `json:"minimap_height" validate:"gte=10,lte=200"`
	Width         int    `json:"width" validate:"gte=100,lte=8192"`
	Height        int    `json:"height" validate:"gte=50,lte=4096"`
}

// EffectsConfig locates external tools.
type EffectsConfig struct {
	FFmpegPath string `json:"ffmpeg_path"` // empty = use PATH
}

// LogConfig selects the log level and the activity log file.
type LogConfig struct {
	Level        string `json:"level" validate:"oneof=debug info warn error"`
	ActivityPath string `json:"activity_path"` // empty = no activity log
}

// ExportConfig holds the export targets.
type ExportConfig struct {
	Dir      string          `json:"dir" validate:"required"`
	BitDepth int             `json:"bit_depth" validate:"oneof=8 16 24 32"`
	S3       export.S3Config `json:"s3"`
}

// Settings is the whole configuration document.
type Settings struct {
	Editor   EditorConfig   `json:"editor"`
	Playback PlaybackConfig `json:"playback"`
	Render   RenderConfig   `json:"render"`
	Effects  EffectsConfig  `json:"effects"`
	Log      LogConfig      `json:"log"`
	Export   ExportConfig   `json:"export"`
}

// Defaults returns settings with every default applied.
func Defaults() Settings {
	var s Settings
	s.applyDefaults()
	return s
}

// Config is a file-backed Settings. It is safe for concurrent use.
type Config struct {
	mu       sync.RWMutex
	settings Settings
	filePath string
}

// New creates a new Config with default values.
func New(filePath string) *Config {
	return &Config{settings: Defaults(), filePath: filePath}
}

// Path returns the backing file.
func (c *Config) Path() string { return c.filePath }

// Settings returns a copy of the current settings.
func (c *Config) Settings() Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

// Load reads config from file, creating a default if none exists.
func (c *Config) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.filePath)
	if os.IsNotExist(err) {
		return c.saveLocked()
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	s := Defaults()
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return err
	}

	c.settings = s
	return nil
}

// Save writes the current settings to the file.
func (c *Config) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveLocked()
}

// Update applies fn to a copy of the settings, validates the result and
// persists it. On any failure the previous settings stay in effect.
func (c *Config) Update(fn func(*Settings)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.settings
	fn(&next)
	next.applyDefaults()
	if err := next.Validate(); err != nil {
		return err
	}

	prev := c.settings
	c.settings = next
	if err := c.saveLocked(); err != nil {
		c.settings = prev
		return err
	}
	return nil
}

// saveLocked persists configuration. Caller must hold c.mu.
func (c *Config) saveLocked() error {
	data, err := json.MarshalIndent(c.settings, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.filePath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(c.filePath, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// applyDefaults sets default values for zero-value fields.
func (s *Settings) applyDefaults() {
	// Editor defaults
	if s.Editor.ZoomFactor == 0 {
		s.Editor.ZoomFactor = DefaultZoomFactor
	}
	if s.Editor.MinDragPixels == 0 {
		s.Editor.MinDragPixels = DefaultMinDragPixels
	}
	if s.Editor.HandleTolerance == 0 {
		s.Editor.HandleTolerance = DefaultHandleTolerance
	}
	if s.Editor.SilenceTrimTolerance == 0 {
		s.Editor.SilenceTrimTolerance = DefaultSilenceTrimTolerance
	}
	if s.Editor.HistoryLimit == 0 {
		s.Editor.HistoryLimit = DefaultHistoryLimit
	}
	// Playback defaults
	if s.Playback.SampleRate == 0 {
		s.Playback.SampleRate = DefaultSampleRate
	}
	// Render defaults
	setDefault(&s.Render.Background, DefaultBackground)
	setDefault(&s.Render.Wave, DefaultWave)
	setDefault(&s.Render.Progress, DefaultProgress)
	setDefault(&s.Render.Cursor, DefaultCursor)
	setDefault(&s.Render.Ruler, DefaultRuler)
	setDefault(&s.Render.Viewport, DefaultViewport)
	if s.Render.RulerHeight == 0 {
		s.Render.RulerHeight = DefaultRulerHeight
	}
	if s.Render.MinimapHeight == 0 {
		s.Render.MinimapHeight = DefaultMinimapHeight
	}
	if s.Render.Width == 0 {
		s.Render.Width = DefaultWidth
	}
	if s.Render.Height == 0 {
		s.Render.Height = DefaultHeight
	}
	// Log and export defaults
	setDefault(&s.Log.Level, DefaultLogLevel)
	setDefault(&s.Export.Dir, DefaultExportDir)
	if s.Export.BitDepth == 0 {
		s.Export.BitDepth = DefaultBitDepth
	}
}

func setDefault(field *string, def string) {
	if *field == "" {
		*field = def
	}
}

// Validate checks every field against its constraints.
func (s Settings) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.TrimPrefix(e.Namespace(), "Settings.")
		msgs = append(msgs, field+" "+formatValidationMessage(e))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

// formatValidationMessage creates a human-readable message from a validator error.
func formatValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "required_with":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", e.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "url":
		return "must be a valid URL"
	case "rgbhex":
		return "must be a hex color (#RRGGBB or #RRGGBBAA)"
	default:
		return fmt.Sprintf("failed validation '%s'", e.Tag())
	}
}

// Theme converts the render colors.
func (r RenderConfig) Theme() (raster.Theme, error) {
	var t raster.Theme
	for _, f := range []struct {
		dst *color.RGBA
		src string
	}{
		{&t.Background, r.Background},
		{&t.Wave, r.Wave},
		{&t.Progress, r.Progress},
		{&t.Cursor, r.Cursor},
		{&t.Ruler, r.Ruler},
		{&t.Viewport, r.Viewport},
	} {
		c, err := raster.ParseHex(f.src)
		if err != nil {
			return raster.Theme{}, fmt.Errorf("render theme: %w", err)
		}
		*f.dst = c
	}
	return t, nil
}

// SlogLevel maps Level to a slog level.
func (l LogConfig) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
