// SPDX-License-Identifier: EPL-2.0

// Package formats wires the individual decoders into an audio.Registry.
package formats

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ik5/wavedit/audio"
	"github.com/ik5/wavedit/formats/aiff"
	"github.com/ik5/wavedit/formats/mp3"
	"github.com/ik5/wavedit/formats/vorbis"
	"github.com/ik5/wavedit/formats/wav"
)

// NewRegistry returns a registry keyed by file extension for every format
// this module can decode.
func NewRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("wav", wav.Decoder{})
	r.Register("wave", wav.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	r.Register("oga", vorbis.Decoder{})
	r.Register("aif", aiff.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	return r
}

// DecodeFile opens path and decodes it with the decoder registered for its
// extension.
func DecodeFile(r *audio.Registry, path string) (*audio.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	defer f.Close()

	buf, err := r.Decode(filepath.Ext(path), f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return buf, nil
}
