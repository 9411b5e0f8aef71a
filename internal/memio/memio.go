// SPDX-License-Identifier: EPL-2.0

// Package memio provides in-memory seekable readers and writers for the
// go-audio codecs, which need io.ReadSeeker and io.WriteSeeker.
package memio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// ErrNegativePosition is returned when a seek would move before the start.
var ErrNegativePosition = errors.New("negative position")

// ReadSeeker returns r when it already seeks, otherwise buffers it fully.
func ReadSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return bytes.NewReader(data), nil
}

// WriteSeeker is a growable byte buffer that supports seeking back to patch
// headers.
type WriteSeeker struct {
	data   []byte
	offset int64
}

func (w *WriteSeeker) Write(p []byte) (int, error) {
	end := w.offset + int64(len(p))
	if end > int64(len(w.data)) {
		if end > int64(cap(w.data)) {
			grown := make([]byte, end, max(end, 2*int64(cap(w.data))))
			copy(grown, w.data)
			w.data = grown
		} else {
			w.data = w.data[:end]
		}
	}
	copy(w.data[w.offset:], p)
	w.offset = end
	return len(p), nil
}

func (w *WriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = w.offset + offset
	case io.SeekEnd:
		next = int64(len(w.data)) + offset
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}
	if next < 0 {
		return 0, ErrNegativePosition
	}
	w.offset = next
	return next, nil
}

// Bytes returns the written data. The slice aliases the buffer.
func (w *WriteSeeker) Bytes() []byte { return w.data }

// Len reports the number of bytes written.
func (w *WriteSeeker) Len() int { return len(w.data) }
