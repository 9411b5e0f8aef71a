// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"sync"
	"time"

	"github.com/ik5/wavedit/audio"
)

// Null keeps transport time on the wall clock without touching an output
// device. Batch tools and headless sessions use it.
type Null struct {
	mu      sync.Mutex
	now     func() time.Time
	buf     *audio.Buffer
	playing bool
	rate    float64
	offset  float64
	started time.Time
}

var _ Engine = (*Null)(nil)

// NewNull returns an idle engine.
func NewNull() *Null {
	return &Null{now: time.Now, rate: 1}
}

func (n *Null) Load(buf *audio.Buffer) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.buf = buf
	n.playing = false
	n.offset = 0
	return nil
}

func (n *Null) Play(offset float64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.buf == nil {
		return ErrNoBuffer
	}
	n.offset = offset
	n.started = n.now()
	n.playing = true
	return nil
}

func (n *Null) Pause() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.offset = n.timeLocked()
	n.playing = false
}

func (n *Null) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.playing = false
	n.offset = 0
}

func (n *Null) Seek(t float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.offset = t
	n.started = n.now()
}

func (n *Null) SetPlaybackRate(rate float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if rate <= 0 {
		return
	}
	n.offset = n.timeLocked()
	n.started = n.now()
	n.rate = rate
}

func (n *Null) CurrentTime() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.timeLocked()
}

func (n *Null) Duration() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.buf == nil {
		return 0
	}
	return n.buf.Duration()
}

func (n *Null) Playing() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.timeLocked()
	return n.playing
}

// timeLocked returns the play head and stops playback at the end.
func (n *Null) timeLocked() float64 {
	if !n.playing || n.buf == nil {
		return n.offset
	}
	t := n.offset + n.now().Sub(n.started).Seconds()*n.rate
	if d := n.buf.Duration(); t >= d {
		n.playing = false
		n.offset = d
		return d
	}
	return t
}
