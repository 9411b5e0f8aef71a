// SPDX-License-Identifier: EPL-2.0

package events

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestBus_DeliversInOrder(t *testing.T) {
	t.Parallel()

	bus := NewBus(nil)
	var got []string
	bus.Subscribe(func(e Event) { got = append(got, "a:"+string(e.Type)) })
	bus.Subscribe(func(e Event) { got = append(got, "b:"+string(e.Type)) })

	bus.Publish(Event{Type: RegionCreated})
	bus.Publish(Event{Type: ClipCut})

	want := "a:region_created b:region_created a:clip_cut b:clip_cut"
	if strings.Join(got, " ") != want {
		t.Errorf("delivery = %v, want %s", got, want)
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	t.Parallel()

	bus := NewBus(nil)
	var calls int
	unsub := bus.Subscribe(func(Event) { calls++ })
	bus.Publish(Event{Type: ZoomIn})
	unsub()
	unsub()
	bus.Publish(Event{Type: ZoomOut})

	if calls != 1 {
		t.Errorf("handler called %d times, want 1", calls)
	}
	if bus.Len() != 0 {
		t.Errorf("Len() = %d, want 0", bus.Len())
	}
}

func TestBus_UnsubscribeDuringPublish(t *testing.T) {
	t.Parallel()

	bus := NewBus(nil)
	var second int
	var unsub func()
	unsub = bus.Subscribe(func(Event) { unsub() })
	bus.Subscribe(func(Event) { second++ })

	bus.Publish(Event{Type: UndoAction})
	bus.Publish(Event{Type: RedoAction})

	if second != 2 {
		t.Errorf("second handler called %d times, want 2", second)
	}
}

func TestBus_PanickingHandlerIsContained(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	bus := NewBus(slog.New(slog.NewTextHandler(&logs, nil)))

	var after bool
	bus.Subscribe(func(Event) { panic("boom") })
	bus.Subscribe(func(Event) { after = true })

	bus.Publish(Event{Type: ClipRetained})

	if !after {
		t.Error("handler after a panicking one was not called")
	}
	if !strings.Contains(logs.String(), "event handler panicked") {
		t.Errorf("panic not logged: %q", logs.String())
	}
}

func TestBus_NilIsSilent(t *testing.T) {
	t.Parallel()

	var bus *Bus
	bus.Publish(Event{Type: ZoomReset})
}

func TestBus_StampsTimestamp(t *testing.T) {
	t.Parallel()

	bus := NewBus(nil)
	var got Event
	bus.Subscribe(func(e Event) { got = e })
	bus.Publish(Event{Type: SourceLoaded})
	if got.Timestamp.IsZero() {
		t.Error("Publish() did not set a timestamp")
	}
}

func TestBus_ConcurrentSubscribe(t *testing.T) {
	t.Parallel()

	bus := NewBus(nil)
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unsub := bus.Subscribe(func(Event) {})
			bus.Publish(Event{Type: PlaybackStarted})
			unsub()
		}()
	}
	wg.Wait()
	if bus.Len() != 0 {
		t.Errorf("Len() = %d, want 0", bus.Len())
	}
}

func TestLogger_WriteAndReadLast(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "activity.jsonl")
	l, err := NewLogger(path, nil)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}

	bus := NewBus(nil)
	bus.Subscribe(l.Handler())
	bus.Publish(Event{Type: RegionCreated, Details: RegionDetails{RegionID: "r1", Start: 3, End: 4}})
	bus.Publish(Event{Type: ClipCut, Message: "cut"})
	bus.Publish(Event{Type: UndoAction})
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	got, err := ReadLast(path, 2)
	if err != nil {
		t.Fatalf("ReadLast() error = %v", err)
	}
	if len(got) != 2 || got[0].Type != UndoAction || got[1].Type != ClipCut {
		t.Fatalf("ReadLast() = %+v, want [undo_action clip_cut]", got)
	}

	all, _ := ReadLast(path, 10)
	raw, ok := all[2].Details.(json.RawMessage)
	if !ok {
		t.Fatalf("Details type = %T, want json.RawMessage", all[2].Details)
	}
	var d RegionDetails
	if err := json.Unmarshal(raw, &d); err != nil || d.RegionID != "r1" || d.End != 4 {
		t.Errorf("region details = %+v, %v", d, err)
	}
}

func TestLogger_ClosedWritesAreSwallowedByHandler(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	l, err := NewLogger(filepath.Join(t.TempDir(), "a.jsonl"), slog.New(slog.NewTextHandler(&logs, nil)))
	if err != nil {
		t.Fatal(err)
	}
	l.Close()

	l.Handler()(Event{Type: ZoomIn})
	if !strings.Contains(logs.String(), "failed to write activity event") {
		t.Errorf("write failure not logged: %q", logs.String())
	}
	if err := l.Log(Event{Type: ZoomIn}); err == nil {
		t.Error("Log() after Close() should fail")
	}
}

func TestReadLast_EdgeCases(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	got, err := ReadLast(filepath.Join(dir, "missing.jsonl"), 5)
	if err != nil || len(got) != 0 {
		t.Errorf("missing file = %v, %v; want empty", got, err)
	}

	path := filepath.Join(dir, "mixed.jsonl")
	content := `{"ts":"2026-01-01T00:00:00Z","type":"zoom_in"}
not json
{"ts":"2026-01-01T00:00:01Z","type":"zoom_out"}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = ReadLast(path, 5)
	if err != nil || len(got) != 2 || got[0].Type != ZoomOut {
		t.Errorf("ReadLast() = %+v, %v", got, err)
	}

	if got, _ := ReadLast(path, 0); len(got) != 0 {
		t.Errorf("ReadLast(0) = %v, want empty", got)
	}
}
