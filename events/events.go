// SPDX-License-Identifier: EPL-2.0

// Package events carries editor activity from the timeline to whoever is
// listening: the activity log, the UI, tests.
package events

import (
	"log/slog"
	"sync"
	"time"
)

// Type names an event.
type Type string

// Region events.
const (
	RegionCreated    Type = "region_created"
	RegionUpdated    Type = "region_updated"
	RegionDeselected Type = "region_deselected"
)

// Edit events.
const (
	ClipCut             Type = "clip_cut"
	ClipRetained        Type = "clip_retained"
	SilenceTrimmedStart Type = "silence_trimmed_start"
	SilenceTrimmedEnd   Type = "silence_trimmed_end"
	EffectApplied       Type = "effect_applied"
	UndoAction          Type = "undo_action"
	RedoAction          Type = "redo_action"
)

// View events.
const (
	ZoomIn    Type = "zoom_in"
	ZoomOut   Type = "zoom_out"
	ZoomReset Type = "zoom_reset"
	ZoomSet   Type = "zoom_set"
)

// Source and transport events.
const (
	SourceLoaded    Type = "source_loaded"
	PlaybackStarted Type = "playback_started"
	PlaybackPaused  Type = "playback_paused"
	PlaybackStopped Type = "playback_stopped"
	PlaybackEnded   Type = "playback_ended"
)

// Event is a single activity record.
type Event struct {
	Timestamp time.Time `json:"ts"`
	Type      Type      `json:"type"`
	Message   string    `json:"msg,omitempty"`
	Details   any       `json:"details,omitempty"`
}

// RegionDetails accompanies region events.
type RegionDetails struct {
	RegionID string  `json:"region_id,omitempty"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
}

// EditDetails accompanies edits that produced a new buffer.
type EditDetails struct {
	Start       float64 `json:"start,omitempty"`
	End         float64 `json:"end,omitempty"`
	Effect      string  `json:"effect,omitempty"`
	OldDuration float64 `json:"old_duration"`
	NewDuration float64 `json:"new_duration"`
}

// ZoomDetails accompanies zoom events.
type ZoomDetails struct {
	From float64 `json:"from"`
	To   float64 `json:"to"`
}

// HistoryDetails accompanies undo and redo.
type HistoryDetails struct {
	EntryID string `json:"entry_id,omitempty"`
	Label   string `json:"label,omitempty"`
	Index   int    `json:"index"`
}

// SourceDetails accompanies source loads.
type SourceDetails struct {
	Duration   float64 `json:"duration"`
	SampleRate int     `json:"sample_rate"`
	Channels   int     `json:"channels"`
}

// Handler receives published events.
type Handler func(Event)

type subscription struct {
	id uint64
	h  Handler
}

// Bus delivers events synchronously to every subscriber, in subscription
// order. A nil *Bus drops everything.
type Bus struct {
	mu     sync.Mutex
	logger *slog.Logger
	subs   []subscription
	nextID uint64
}

// NewBus creates a bus. A nil logger uses slog.Default.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{logger: logger}
}

// Subscribe registers h and returns a function that removes it again.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, h: h})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, s := range b.subs {
				if s.id == id {
					b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Publish hands e to every current subscriber before returning. A handler
// that panics is logged and skipped.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	b.mu.Lock()
	subs := b.subs
	b.mu.Unlock()

	for _, s := range subs {
		b.deliver(s.h, e)
	}
}

func (b *Bus) deliver(h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked", "type", e.Type, "panic", r)
		}
	}()
	h(e)
}

// Len returns the number of subscribers.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
