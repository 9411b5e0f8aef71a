// SPDX-License-Identifier: EPL-2.0

// Package history keeps the linear undo/redo list of buffer versions
// produced while editing one clip.
package history

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ik5/wavedit/audio"
)

// DefaultLimit is the number of entries kept when New is given a limit <= 0.
const DefaultLimit = 50

// ErrNilBuffer is returned when an entry without a buffer is pushed.
var ErrNilBuffer = errors.New("history entry has no buffer")

// Kind names the operation that produced an entry.
type Kind string

const (
	KindOriginal Kind = "original"
	KindCut      Kind = "cut"
	KindKeep     Kind = "keep"
	KindEffect   Kind = "effect"
	KindImport   Kind = "import"
)

// Metadata describes the edit behind an entry.
type Metadata struct {
	Kind        Kind    `json:"kind"`
	Start       float64 `json:"start,omitempty"`
	End         float64 `json:"end,omitempty"`
	Effect      string  `json:"effect,omitempty"`
	SilenceTrim string  `json:"silence_trim,omitempty"`
}

// Entry is one version of the clip.
type Entry struct {
	ID        string        `json:"id"`
	Label     string        `json:"label"`
	Timestamp time.Time     `json:"ts"`
	Buffer    *audio.Buffer `json:"-"`
	Metadata  Metadata      `json:"metadata"`
}

// NewEntry stamps a new entry with a fresh ID and the current time.
func NewEntry(buf *audio.Buffer, label string, meta Metadata) Entry {
	return Entry{
		ID:        uuid.NewString(),
		Label:     label,
		Timestamp: time.Now(),
		Buffer:    buf,
		Metadata:  meta,
	}
}

// History is a list of entries with a cursor. Pushing after an undo drops
// the entries that could have been redone.
type History struct {
	mu      sync.Mutex
	limit   int
	entries []Entry
	index   int
}

// New returns an empty history holding at most limit entries.
func New(limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{limit: limit, index: -1}
}

// Limit returns the maximum number of entries kept.
func (h *History) Limit() int { return h.limit }

// Reset replaces the whole history with a single entry.
func (h *History) Reset(e Entry) error {
	if e.Buffer == nil {
		return ErrNilBuffer
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = []Entry{e}
	h.index = 0
	return nil
}

// Push appends e after the current entry and makes it current.
func (h *History) Push(e Entry) error {
	if e.Buffer == nil {
		return ErrNilBuffer
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries[:h.index+1], e)
	if over := len(h.entries) - h.limit; over > 0 {
		h.entries = append(h.entries[:0:0], h.entries[over:]...)
	}
	h.index = len(h.entries) - 1
	return nil
}

// Undo moves the cursor back and returns the entry now current.
func (h *History) Undo() (Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index <= 0 {
		return Entry{}, false
	}
	h.index--
	return h.entries[h.index], true
}

// Redo moves the cursor forward and returns the entry now current.
func (h *History) Redo() (Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index < 0 || h.index >= len(h.entries)-1 {
		return Entry{}, false
	}
	h.index++
	return h.entries[h.index], true
}

// Current returns the entry at the cursor.
func (h *History) Current() (Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index < 0 {
		return Entry{}, false
	}
	return h.entries[h.index], true
}

func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index > 0
}

func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index >= 0 && h.index < len(h.entries)-1
}

// Entries returns a copy of every entry, oldest first.
func (h *History) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Entry(nil), h.entries...)
}

// Index is the position of the current entry, or -1 when empty.
func (h *History) Index() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
