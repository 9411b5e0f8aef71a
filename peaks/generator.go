// SPDX-License-Identifier: EPL-2.0

package peaks

import (
	"log/slog"
	"sync"

	"github.com/ik5/wavedit/audio"
)

type cacheKey struct {
	source          uint64
	samplesPerPixel float64
	width           int
}

// Stats reports cache effectiveness.
type Stats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

// Generator caches peak sets for the source it is currently bound to.
// Binding a different source drops every cached entry.
type Generator struct {
	mtx    sync.Mutex
	logger *slog.Logger
	source uint64
	bound  bool
	cache  map[cacheKey]*Set
	stats  Stats
}

// NewGenerator returns an empty generator. A nil logger uses slog.Default().
func NewGenerator(logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		logger: logger,
		cache:  make(map[cacheKey]*Set),
	}
}

// Bind makes buf the generator's source, clearing the cache when it differs
// from the previous one.
func (g *Generator) Bind(buf *audio.Buffer) {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	g.bindLocked(buf)
}

func (g *Generator) bindLocked(buf *audio.Buffer) {
	if buf == nil {
		return
	}
	if g.bound && g.source == buf.ID() {
		return
	}
	if len(g.cache) > 0 {
		g.logger.Debug("peak cache cleared for new source", "source", buf.ID(), "entries", len(g.cache))
	}
	clear(g.cache)
	g.source = buf.ID()
	g.bound = true
}

// Clear drops every cached set.
func (g *Generator) Clear() {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	clear(g.cache)
}

// Generate returns the peaks of buf at the given resolution, computing them
// on a cache miss. Results are shared between callers and must not be
// modified.
func (g *Generator) Generate(buf *audio.Buffer, samplesPerPixel float64, width int) *Set {
	if buf == nil {
		return nil
	}

	g.mtx.Lock()
	defer g.mtx.Unlock()

	g.bindLocked(buf)
	key := cacheKey{source: buf.ID(), samplesPerPixel: samplesPerPixel, width: width}
	if set, ok := g.cache[key]; ok {
		g.stats.Hits++
		return set
	}

	g.stats.Misses++
	set := Compute(buf, samplesPerPixel, width)
	if set != nil {
		g.cache[key] = set
	}
	g.logger.Debug("peaks generated", "source", buf.ID(), "samples_per_pixel", samplesPerPixel, "width", width)
	return set
}

// Stats returns a snapshot of the cache counters.
func (g *Generator) Stats() Stats {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	s := g.stats
	s.Entries = len(g.cache)
	return s
}
