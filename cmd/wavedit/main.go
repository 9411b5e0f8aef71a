// SPDX-License-Identifier: EPL-2.0

// Command wavedit inspects, edits, renders and plays audio clips.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ik5/wavedit"
	"github.com/ik5/wavedit/config"
	"github.com/ik5/wavedit/events"
	"github.com/ik5/wavedit/playback"
	"github.com/ik5/wavedit/timeline"
)

// app holds what every subcommand shares.
type app struct {
	configPath string
	logLevel   string

	settings config.Settings
	logger   *slog.Logger
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "wavedit.json"
	}
	return filepath.Join(dir, "wavedit", "config.json")
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "wavedit",
		Short: "Waveform editor",
		Long: `wavedit loads WAV, MP3, Ogg Vorbis and AIFF clips, cuts or keeps
regions sample-exactly, applies effects and exports WAV locally or to S3.

Run "wavedit open <file>" for the interactive editor.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", defaultConfigPath(),
		"Path to the JSON config file (created with defaults when missing)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "",
		"Log level: debug, info, warn or error (overrides the config)")

	root.AddCommand(
		a.infoCmd(),
		a.peaksCmd(),
		a.editCmd(),
		a.effectCmd(),
		a.renderCmd(),
		a.openCmd(),
	)
	return root
}

// setup loads the config and installs the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg := config.New(a.configPath)
	if err := cfg.Load(); err != nil {
		return fmt.Errorf("load config %s: %w", a.configPath, err)
	}
	a.settings = cfg.Settings()

	logCfg := a.settings.Log
	if a.logLevel != "" {
		logCfg.Level = a.logLevel
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: logCfg.SlogLevel()}))
	slog.SetDefault(a.logger)
	return nil
}

// session is an open clip with its controller and activity log.
type session struct {
	c        *timeline.Controller
	activity *events.Logger
}

func (s *session) Close() {
	if s.activity == nil {
		return
	}
	if err := s.activity.Close(); err != nil {
		slog.Warn("failed to close activity log", "error", err)
	}
}

// open decodes path into a new controller driving engine.
func (a *app) open(ctx context.Context, path string, engine playback.Engine) (*session, error) {
	bus := events.NewBus(a.logger)
	s := &session{}
	if p := a.settings.Log.ActivityPath; p != "" {
		l, err := events.NewLogger(p, a.logger)
		if err != nil {
			return nil, err
		}
		s.activity = l
		bus.Subscribe(l.Handler())
	}

	s.c = wavedit.NewController(a.settings, engine, bus, a.logger)
	if err := wavedit.OpenFile(ctx, s.c, path); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
