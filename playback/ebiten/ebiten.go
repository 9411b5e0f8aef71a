// SPDX-License-Identifier: EPL-2.0

// Package ebiten implements playback.Engine on ebiten's audio context.
// It links the platform audio backend, so headless programs should use
// playback.Null instead.
package ebiten

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/ik5/wavedit/audio"
	"github.com/ik5/wavedit/playback"
)

// DefaultSampleRate is the device rate used when none is configured.
const DefaultSampleRate = 48000

// bufferSize bounds how far the device reads ahead of what is heard.
const bufferSize = 50 * time.Millisecond

var (
	audioContextOnce sync.Once
	audioContext     *ebitaudio.Context
	audioSampleRate  int
)

// sharedAudioContext returns the process-wide ebiten context. Ebiten allows
// only one, so a second rate is an error.
func sharedAudioContext(sampleRate int) (*ebitaudio.Context, error) {
	audioContextOnce.Do(func() {
		audioSampleRate = sampleRate
		audioContext = ebitaudio.NewContext(sampleRate)
	})
	if audioSampleRate != sampleRate {
		return nil, fmt.Errorf("audio context already initialized at %d Hz (requested %d Hz)", audioSampleRate, sampleRate)
	}
	return audioContext, nil
}

// Engine plays through ebiten's audio context. Buffers at other rates are
// resampled on the fly by playback.Stream.
type Engine struct {
	mu      sync.Mutex
	ctx     *ebitaudio.Context
	logger  *slog.Logger
	buf     *audio.Buffer
	stream  *playback.Stream
	player  *ebitaudio.Player
	rate    float64
	resumed float64
}

// New opens the audio device at sampleRate (DefaultSampleRate when
// <= 0).
func New(sampleRate int, logger *slog.Logger) (*Engine, error) {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, err := sharedAudioContext(sampleRate)
	if err != nil {
		return nil, err
	}
	return &Engine{ctx: ctx, logger: logger, rate: 1}, nil
}

func (e *Engine) Load(buf *audio.Buffer) error {
	if buf == nil {
		return playback.ErrNoBuffer
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.closePlayer()
	e.buf = buf
	e.stream = playback.NewStream(buf, e.ctx.SampleRate())
	e.stream.SetRate(e.rate)
	e.resumed = 0
	return nil
}

// Play starts from offset. Each call opens a fresh device player so a
// stream that already ended can be replayed.
func (e *Engine) Play(offset float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stream == nil {
		return playback.ErrNoBuffer
	}
	e.closePlayer()
	e.stream.Seek(offset)

	player, err := e.ctx.NewPlayerF32(e.stream)
	if err != nil {
		return fmt.Errorf("create player: %w", err)
	}
	player.SetBufferSize(bufferSize)
	player.Play()
	e.player = player
	return nil
}

func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stream != nil {
		e.resumed = e.stream.Position()
	}
	e.closePlayer()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closePlayer()
	e.resumed = 0
	if e.stream != nil {
		e.stream.Seek(0)
	}
}

// Seek moves the play head. A playing stream continues from t.
func (e *Engine) Seek(t float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stream == nil {
		return
	}
	e.stream.Seek(t)
	e.resumed = e.stream.Position()
}

func (e *Engine) SetPlaybackRate(rate float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rate = rate
	if e.stream != nil {
		e.stream.SetRate(rate)
	}
}

// CurrentTime is the read position while playing and the pause point
// otherwise.
func (e *Engine) CurrentTime() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.player == nil || e.stream == nil {
		return e.resumed
	}
	return e.stream.Position()
}

func (e *Engine) Duration() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.buf == nil {
		return 0
	}
	return e.buf.Duration()
}

func (e *Engine) Playing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.player != nil && e.player.IsPlaying()
}

// Close releases the device player.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closePlayer()
	return nil
}

var _ playback.Engine = (*Engine)(nil)

func (e *Engine) closePlayer() {
	if e.player == nil {
		return
	}
	e.player.Pause()
	if err := e.player.Close(); err != nil {
		e.logger.Warn("failed to close audio player", "error", err)
	}
	e.player = nil
}
