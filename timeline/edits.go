// SPDX-License-Identifier: EPL-2.0

package timeline

import (
	"context"
	"fmt"

	"github.com/ik5/wavedit/audio"
	"github.com/ik5/wavedit/edit"
	"github.com/ik5/wavedit/effects"
	"github.com/ik5/wavedit/events"
	"github.com/ik5/wavedit/history"
	"github.com/ik5/wavedit/region"
)

// editResult is what an edit function hands back to commit.
type editResult struct {
	buf   *audio.Buffer
	label string
	meta  history.Metadata
	evs   []events.Event
}

type editFunc func(ctx context.Context, src *audio.Buffer, r *region.Region) (editResult, error)

// Cut removes the selected region from the clip.
func (c *Controller) Cut(ctx context.Context) error {
	return c.runEdit(ctx, true, func(_ context.Context, src *audio.Buffer, r *region.Region) (editResult, error) {
		out, err := edit.Cut(src, r.Start, r.End)
		if err != nil {
			return editResult{}, err
		}

		meta := history.Metadata{Kind: history.KindCut, Start: r.Start, End: r.End}
		details := events.EditDetails{
			Start:       r.Start,
			End:         r.End,
			OldDuration: src.Duration(),
			NewDuration: out.Duration(),
		}
		evs := []events.Event{{Type: events.ClipCut, Details: details}}

		switch trim := edit.ClassifyTrim(r.Start, r.End, src.Duration(), c.opts.TrimTolerance); trim {
		case edit.TrimStart:
			meta.SilenceTrim = trim.String()
			evs = append(evs, events.Event{Type: events.SilenceTrimmedStart, Details: details})
		case edit.TrimEnd:
			meta.SilenceTrim = trim.String()
			evs = append(evs, events.Event{Type: events.SilenceTrimmedEnd, Details: details})
		}

		return editResult{
			buf:   out,
			label: fmt.Sprintf("Cut %.2fs-%.2fs", r.Start, r.End),
			meta:  meta,
			evs:   evs,
		}, nil
	})
}

// Keep replaces the clip with the selected region.
func (c *Controller) Keep(ctx context.Context) error {
	return c.runEdit(ctx, true, func(_ context.Context, src *audio.Buffer, r *region.Region) (editResult, error) {
		out, err := edit.Splice(src, r.Start, r.End)
		if err != nil {
			return editResult{}, err
		}
		return editResult{
			buf:   out,
			label: fmt.Sprintf("Keep %.2fs-%.2fs", r.Start, r.End),
			meta:  history.Metadata{Kind: history.KindKeep, Start: r.Start, End: r.End},
			evs: []events.Event{{Type: events.ClipRetained, Details: events.EditDetails{
				Start:       r.Start,
				End:         r.End,
				OldDuration: src.Duration(),
				NewDuration: out.Duration(),
			}}},
		}, nil
	})
}

// ApplyEffect runs the named effect over the whole clip, or over the
// selected region only when regionOnly is set.
func (c *Controller) ApplyEffect(ctx context.Context, name string, params effects.Params, regionOnly bool) error {
	p, ok := c.fx.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", effects.ErrUnknownEffect, name)
	}

	return c.runEdit(ctx, regionOnly, func(ctx context.Context, src *audio.Buffer, r *region.Region) (editResult, error) {
		details := events.EditDetails{Effect: name, End: src.Duration(), OldDuration: src.Duration()}
		meta := history.Metadata{Kind: history.KindEffect, Effect: name, End: src.Duration()}
		label := "Effect: " + name

		var (
			out *audio.Buffer
			err error
		)
		if regionOnly {
			out, err = effects.ApplyToRegion(ctx, p, src, r.Start, r.End, params)
			details.Start, details.End = r.Start, r.End
			meta.Start, meta.End = r.Start, r.End
			label = fmt.Sprintf("Effect: %s %.2fs-%.2fs", name, r.Start, r.End)
		} else {
			out, err = p.Process(ctx, src, params)
		}
		if err != nil {
			return editResult{}, fmt.Errorf("apply effect %s: %w", name, err)
		}
		details.NewDuration = out.Duration()

		return editResult{
			buf:   out,
			label: label,
			meta:  meta,
			evs:   []events.Event{{Type: events.EffectApplied, Message: name, Details: details}},
		}, nil
	})
}

// ApplyProcessedAudio installs audio produced outside the controller, such
// as an import or an external tool run, as a new history entry.
func (c *Controller) ApplyProcessedAudio(buf *audio.Buffer, label string, meta history.Metadata) error {
	if buf == nil {
		return ErrNoSource
	}
	if meta.Kind == "" {
		meta.Kind = history.KindImport
	}
	return c.runEdit(context.Background(), false, func(_ context.Context, src *audio.Buffer, _ *region.Region) (editResult, error) {
		return editResult{
			buf:   buf,
			label: label,
			meta:  meta,
			evs: []events.Event{{Type: events.EffectApplied, Message: label, Details: events.EditDetails{
				Effect:      meta.Effect,
				Start:       meta.Start,
				End:         meta.End,
				OldDuration: src.Duration(),
				NewDuration: buf.Duration(),
			}}},
		}, nil
	})
}

// runEdit marks the controller busy, runs fn without the lock and commits
// its result. Pointer input is refused until the edit finishes.
func (c *Controller) runEdit(ctx context.Context, needRegion bool, fn editFunc) error {
	c.mu.Lock()
	if c.buf == nil {
		c.mu.Unlock()
		return ErrNoSource
	}
	if c.pending {
		c.mu.Unlock()
		return ErrEditPending
	}
	// A region clamped to zero length stays on screen but selects nothing.
	var r *region.Region
	if reg, ok := c.editor.Region(); ok && reg.End > reg.Start {
		r = &reg
	} else if needRegion {
		c.mu.Unlock()
		return ErrNoRegion
	}
	c.pending = true
	c.editor.SetEnabled(false)
	src := c.buf
	c.mu.Unlock()

	res, err := fn(ctx, src, r)
	if err == nil && res.buf == nil {
		err = ErrNoSource
	}

	c.mu.Lock()
	c.pending = false
	c.editor.SetEnabled(true)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	if c.buf != src {
		c.mu.Unlock()
		c.logger.Debug("discarding edit of a replaced source", "label", res.label)
		return nil
	}
	if err := c.engine.Load(res.buf); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("load edited audio: %w", err)
	}
	evs := c.installLocked(res.buf)
	if err := c.hist.Push(history.NewEntry(res.buf, res.label, res.meta)); err != nil {
		c.logger.Error("failed to record history entry", "error", err)
	}
	evs = append(evs, res.evs...)
	c.mu.Unlock()

	c.logger.Debug("edit applied", "label", res.label, "duration", res.buf.Duration())
	c.publish(evs)
	return nil
}

// Undo restores the previous history entry.
func (c *Controller) Undo() error {
	return c.travel(events.UndoAction, ErrNothingToUndo, c.hist.Undo, c.hist.Redo)
}

// Redo reapplies the next history entry.
func (c *Controller) Redo() error {
	return c.travel(events.RedoAction, ErrNothingToRedo, c.hist.Redo, c.hist.Undo)
}

func (c *Controller) travel(t events.Type, none error, move, back func() (history.Entry, bool)) error {
	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		return ErrEditPending
	}
	e, ok := move()
	if !ok {
		c.mu.Unlock()
		return none
	}
	if err := c.engine.Load(e.Buffer); err != nil {
		back()
		c.mu.Unlock()
		return fmt.Errorf("load history entry: %w", err)
	}
	evs := c.installLocked(e.Buffer)
	evs = append(evs, events.Event{
		Type:    t,
		Message: e.Label,
		Details: events.HistoryDetails{EntryID: e.ID, Label: e.Label, Index: c.hist.Index()},
	})
	c.mu.Unlock()

	c.publish(evs)
	return nil
}

// CanUndo reports whether Undo would do anything.
func (c *Controller) CanUndo() bool { return c.hist.CanUndo() }

// CanRedo reports whether Redo would do anything.
func (c *Controller) CanRedo() bool { return c.hist.CanRedo() }
