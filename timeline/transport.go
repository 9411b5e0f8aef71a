// SPDX-License-Identifier: EPL-2.0

package timeline

import (
	"fmt"
	"math"

	"github.com/ik5/wavedit/events"
	"github.com/ik5/wavedit/render"
)

// Play starts playback at *from, or at the current time when from is nil.
// Playing from the very end restarts at zero.
func (c *Controller) Play(from *float64) error {
	c.mu.Lock()
	if c.buf == nil {
		c.mu.Unlock()
		return ErrNoSource
	}
	t := c.playback.CurrentTime
	if from != nil {
		t = *from
	} else if t >= c.view.Duration {
		t = 0
	}
	t = clamp(t, 0, c.view.Duration)
	if err := c.engine.Play(t); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("start playback: %w", err)
	}
	c.playback.CurrentTime = t
	c.playback.Playing = true
	c.mu.Unlock()

	c.publish([]events.Event{{Type: events.PlaybackStarted, Message: fmt.Sprintf("from %.3fs", t)}})
	return nil
}

// Pause halts playback and keeps the play head where it stopped.
func (c *Controller) Pause() {
	c.mu.Lock()
	if !c.playback.Playing {
		c.mu.Unlock()
		return
	}
	c.engine.Pause()
	c.playback.Playing = false
	c.playback.CurrentTime = clamp(c.engine.CurrentTime(), 0, c.view.Duration)
	c.mu.Unlock()

	c.publish([]events.Event{{Type: events.PlaybackPaused}})
}

// Stop halts playback and rewinds to zero.
func (c *Controller) Stop() {
	c.mu.Lock()
	c.engine.Stop()
	c.playback.Playing = false
	c.playback.CurrentTime = 0
	c.mu.Unlock()

	c.publish([]events.Event{{Type: events.PlaybackStopped}})
}

// Seek moves the play head to t, clamped to the clip.
func (c *Controller) Seek(t float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seekLocked(t)
}

func (c *Controller) seekLocked(t float64) {
	if c.buf == nil {
		return
	}
	t = clamp(t, 0, c.view.Duration)
	c.engine.Seek(t)
	c.playback.CurrentTime = t
}

// SetPlaybackRate sets the speed multiplier, clamped to
// [MinPlaybackRate, MaxPlaybackRate]. It returns the rate applied.
func (c *Controller) SetPlaybackRate(rate float64) float64 {
	if math.IsNaN(rate) {
		rate = 1
	}
	rate = clamp(rate, MinPlaybackRate, MaxPlaybackRate)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.engine.SetPlaybackRate(rate)
	c.playback.Rate = rate
	return rate
}

// Tick samples the engine clock. Call it once per displayed frame while
// playing. It detects the end of media and keeps the play head in view.
func (c *Controller) Tick() PlaybackState {
	c.mu.Lock()
	if c.buf == nil {
		st := c.playback
		c.mu.Unlock()
		return st
	}

	var evs []events.Event
	t := clamp(c.engine.CurrentTime(), 0, c.view.Duration)
	c.playback.CurrentTime = t
	if c.playback.Playing && !c.engine.Playing() {
		c.playback.Playing = false
		evs = append(evs, events.Event{Type: events.PlaybackEnded})
	}
	if c.playback.Playing {
		if t < c.view.Scroll || t > c.view.Scroll+c.view.VisibleDuration() {
			c.view.Scroll = c.view.Centered(t)
		}
	}
	st := c.playback
	c.mu.Unlock()

	c.publish(evs)
	return st
}

// MinimapClick seeks to the time under x on a minimap width pixels wide
// and, when zoomed in, centers the main view on it.
func (c *Controller) MinimapClick(x, width float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.buf == nil || width <= 0 {
		return 0
	}
	t := render.MinimapTime(x, width, c.view.Duration)
	c.seekLocked(t)
	if c.view.Zoom > c.view.FitZoom() {
		c.view.Scroll = c.view.Centered(t)
	}
	return t
}
