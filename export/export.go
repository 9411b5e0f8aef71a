// SPDX-License-Identifier: EPL-2.0

// Package export writes edited audio out as WAV, to a local directory or
// to an S3 compatible bucket.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ik5/wavedit/audio"
	"github.com/ik5/wavedit/formats/wav"
)

// Sink stores an encoded file under name and returns where it went.
type Sink interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
}

// Export encodes buf as WAV at bitDepth and hands it to sink.
func Export(ctx context.Context, sink Sink, name string, buf *audio.Buffer, bitDepth int) (string, error) {
	data, err := wav.EncodeBytes(buf, bitDepth)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", name, err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	loc, err := sink.Put(ctx, name, data)
	if err != nil {
		return "", fmt.Errorf("store %s: %w", name, err)
	}
	return loc, nil
}

// cleanName reduces name to a relative slash path without parent
// references.
func cleanName(name string) (string, error) {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	clean := filepath.ToSlash(filepath.Clean("/" + name))[1:]
	if clean == "" || clean == "." || strings.HasSuffix(name, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}
	return clean, nil
}

// FileSink writes into Dir, creating it when needed.
type FileSink struct {
	Dir string
}

func (s FileSink) Put(ctx context.Context, name string, data []byte) (string, error) {
	rel, err := cleanName(name)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(s.Dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
