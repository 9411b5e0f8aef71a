// SPDX-License-Identifier: EPL-2.0

// Package wavedit is a waveform editor core: decode a clip, look at it at
// any zoom, select a region with the pointer, cut it out or keep only it,
// run effects, undo and export.
//
// # Packages
//
//   - audio: the in-memory Buffer and streaming Source types
//   - formats: WAV, MP3, Ogg Vorbis and AIFF decoders, WAV encoder
//   - peaks: per-pixel min/max reduction with a per-buffer cache
//   - view: time/pixel mapping for a zoomed, scrolled waveform
//   - region: the single selection and the pointer gestures that edit it
//   - edit: sample-exact splice, cut and replace
//   - effects: native effects and ffmpeg filters
//   - history: linear undo list
//   - events: typed activity events and a JSON lines log
//   - playback: the engine interface, a headless clock engine and the stream
//   - playback/ebiten: the engine on the audio device
//   - render: drawing contract, frame composition and the redraw loop
//   - timeline: the controller tying all of the above together
//   - export: WAV export to a directory or an S3 bucket
//   - config: JSON settings
//
// # Quick Start
//
//	cfg := config.New("wavedit.json")
//	_ = cfg.Load()
//
//	engine, _ := ebiten.New(cfg.Settings().Playback.SampleRate, nil)
//	c := wavedit.NewController(cfg.Settings(), engine, events.NewBus(nil), nil)
//	if err := wavedit.OpenFile(ctx, c, "take.wav"); err != nil {
//		// the previous clip, if any, is still loaded
//	}
//
//	c.SelectRegion(3, 4)
//	_ = c.Keep(ctx)
//	_, _ = export.Export(ctx, export.FileSink{Dir: "out"}, "take-edit.wav", c.Buffer(), 16)
//
// See the individual subpackages for more detailed documentation.
package wavedit
