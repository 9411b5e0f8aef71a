// SPDX-License-Identifier: EPL-2.0

package events

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// MaxReadLimit caps how many events ReadLast returns.
const MaxReadLimit = 500

// Logger appends events to a JSON lines file.
type Logger struct {
	mu       sync.Mutex
	filePath string
	file     *os.File
	encoder  *json.Encoder
	slog     *slog.Logger
}

// NewLogger opens (or creates) the activity log at filePath.
func NewLogger(filePath string, logger *slog.Logger) (*Logger, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	return &Logger{
		filePath: filePath,
		file:     file,
		encoder:  json.NewEncoder(file),
		slog:     logger,
	}, nil
}

// Log writes an event to the log file.
func (l *Logger) Log(event Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return os.ErrClosed
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return l.encoder.Encode(event)
}

// Handler adapts the logger to a Bus subscriber. Write failures are logged
// and dropped.
func (l *Logger) Handler() Handler {
	return func(e Event) {
		if err := l.Log(e); err != nil {
			l.slog.Warn("failed to write activity event", "type", e.Type, "error", err)
		}
	}
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Path returns the path to the log file.
func (l *Logger) Path() string {
	return l.filePath
}

// rawEvent keeps Details undecoded; its concrete type is not recorded.
type rawEvent struct {
	Timestamp time.Time       `json:"ts"`
	Type      Type            `json:"type"`
	Message   string          `json:"msg,omitempty"`
	Details   json.RawMessage `json:"details,omitempty"`
}

// ReadLast returns up to n events from the log, newest first. Details come
// back as json.RawMessage. A missing file yields no events.
func ReadLast(filePath string, n int) ([]Event, error) {
	n = min(n, MaxReadLimit)
	if n <= 0 {
		return []Event{}, nil
	}

	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []Event{}, nil
		}
		return nil, err
	}
	defer file.Close() //nolint:errcheck // read-only

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	events := make([]Event, 0, n)
	for i := len(lines) - 1; i >= 0 && len(events) < n; i-- {
		var raw rawEvent
		if err := json.Unmarshal([]byte(lines[i]), &raw); err != nil {
			continue // malformed line
		}
		e := Event{Timestamp: raw.Timestamp, Type: raw.Type, Message: raw.Message}
		if len(raw.Details) > 0 {
			e.Details = raw.Details
		}
		events = append(events, e)
	}
	return events, nil
}
