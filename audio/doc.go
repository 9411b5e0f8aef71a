// SPDX-License-Identifier: EPL-2.0

// Package audio provides the in-memory audio representation used by the
// editor and the primitives that build it.
//
//   - Buffer is a decoded, de-interleaved, immutable clip (one []float32
//     per channel plus a sample rate). Every edit produces a new Buffer
//     with a new ID.
//   - Source is a streaming interleaved view, used by decoders and
//     exporters. Buffer.Reader turns a Buffer back into a Source and
//     Collect turns a Source into a Buffer.
//   - Resample changes the sample rate with cubic interpolation.
//   - Buffer.Mixdown averages channels into mono.
//   - Registry maps format keys (file extensions) to decoders.
//
// # Sample Format
//
// Audio samples are represented as float32 in the range [-1.0, 1.0]:
//   - 0.0 represents silence
//   - 1.0 represents maximum positive amplitude
//   - -1.0 represents maximum negative amplitude
//
// Effects may push samples past 1.0; nothing in this package clips.
//
// # Format Registry
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	buf, err := registry.Decode(".wav", file)
//
// # Error Handling
//
// Streaming reads return io.EOF when no more data is available:
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    if err == io.EOF {
//	        break // Normal end of stream
//	    }
//	    if err != nil {
//	        return err // Processing error
//	    }
//	    // Process n samples from buf
//	}
package audio
