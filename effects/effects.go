// SPDX-License-Identifier: EPL-2.0

// Package effects turns one audio buffer into another: gain, fades,
// dynamics and time effects computed in process, and filters that need
// ffmpeg.
//
// Every processor returns a new buffer. ApplyToRegion runs a processor on a
// time range and writes the result back into a copy of the clip.
package effects

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/ik5/wavedit/audio"
	"github.com/ik5/wavedit/edit"
)

var (
	// ErrUnknownEffect is returned for names missing from a Catalog.
	ErrUnknownEffect = errors.New("unknown effect")

	// ErrEmptyRange is returned by ApplyToRegion when the range holds no frames.
	ErrEmptyRange = errors.New("effect range is empty")
)

// Params are named numeric effect parameters.
type Params map[string]float64

// Get returns the named parameter or def when it is missing.
func (p Params) Get(name string, def float64) float64 {
	if v, ok := p[name]; ok {
		return v
	}
	return def
}

// Processor applies one effect.
type Processor interface {
	Process(ctx context.Context, buf *audio.Buffer, params Params) (*audio.Buffer, error)
}

// Catalog maps effect names to processors.
type Catalog struct {
	mu    sync.RWMutex
	procs map[string]Processor
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{procs: make(map[string]Processor)}
}

// DefaultCatalog holds every native effect and the ffmpeg filters, which
// run the binary at ffmpegPath.
func DefaultCatalog(ffmpegPath string) *Catalog {
	c := NewCatalog()
	for name, p := range Native() {
		c.Register(name, p)
	}
	for _, name := range FilterNames() {
		c.Register(name, &FFmpeg{Path: ffmpegPath, Filter: name})
	}
	return c
}

// Register adds or replaces a processor.
func (c *Catalog) Register(name string, p Processor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.procs[name] = p
}

// Get looks up a processor by name.
func (c *Catalog) Get(name string) (Processor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.procs[name]
	return p, ok
}

// Names lists the registered effects in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.procs))
}

// Apply runs the named effect over the whole buffer.
func (c *Catalog) Apply(ctx context.Context, name string, buf *audio.Buffer, params Params) (*audio.Buffer, error) {
	p, ok := c.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEffect, name)
	}
	return p.Process(ctx, buf, params)
}

// ApplyToRegion processes [start, end) of buf and splices the result back
// in place of that range.
func ApplyToRegion(ctx context.Context, p Processor, buf *audio.Buffer, start, end float64, params Params) (*audio.Buffer, error) {
	excerpt, err := edit.Splice(buf, start, end)
	if err != nil {
		return nil, err
	}
	if excerpt.Frames() == 0 {
		return nil, ErrEmptyRange
	}

	processed, err := p.Process(ctx, excerpt, params)
	if err != nil {
		return nil, err
	}
	return edit.Replace(buf, start, end, processed)
}
