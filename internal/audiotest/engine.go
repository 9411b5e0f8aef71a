// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"sync"

	"github.com/ik5/wavedit/audio"
)

// ErrNotLoaded is returned by FakeEngine.Play before anything was loaded.
var ErrNotLoaded = errors.New("fake engine: nothing loaded")

// FakeEngine is an in-memory playback engine. Time only moves when the
// test calls Advance, so playback-driven logic is deterministic.
type FakeEngine struct {
	mu       sync.Mutex
	buf      *audio.Buffer
	playing  bool
	time     float64
	rate     float64
	loads    int
	LoadErr  error
	Calls    []string
}

// NewFakeEngine returns an idle engine with rate 1.
func NewFakeEngine() *FakeEngine {
	return &FakeEngine{rate: 1}
}

func (e *FakeEngine) Load(buf *audio.Buffer) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Calls = append(e.Calls, "load")
	if e.LoadErr != nil {
		return e.LoadErr
	}
	e.buf = buf
	e.loads++
	e.playing = false
	e.time = min(e.time, buf.Duration())
	return nil
}

func (e *FakeEngine) Play(offset float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Calls = append(e.Calls, "play")
	if e.buf == nil {
		return ErrNotLoaded
	}
	e.time = offset
	e.playing = true
	return nil
}

func (e *FakeEngine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Calls = append(e.Calls, "pause")
	e.playing = false
}

func (e *FakeEngine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Calls = append(e.Calls, "stop")
	e.playing = false
	e.time = 0
}

func (e *FakeEngine) Seek(t float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Calls = append(e.Calls, "seek")
	e.time = t
}

func (e *FakeEngine) SetPlaybackRate(rate float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rate = rate
}

func (e *FakeEngine) CurrentTime() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.time
}

func (e *FakeEngine) Duration() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.buf == nil {
		return 0
	}
	return e.buf.Duration()
}

func (e *FakeEngine) Playing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

// Advance moves the play head by seconds*rate while playing and stops at
// the end of the loaded buffer, like a real device reaching end of media.
func (e *FakeEngine) Advance(seconds float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.playing || e.buf == nil {
		return
	}
	e.time += seconds * e.rate
	if d := e.buf.Duration(); e.time >= d {
		e.time = d
		e.playing = false
	}
}

// Loaded returns the last buffer handed to Load.
func (e *FakeEngine) Loaded() *audio.Buffer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf
}

// Loads counts successful Load calls.
func (e *FakeEngine) Loads() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loads
}

// Rate returns the last playback rate set.
func (e *FakeEngine) Rate() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rate
}
