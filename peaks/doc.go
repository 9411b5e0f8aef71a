// SPDX-License-Identifier: EPL-2.0

// Package peaks reduces audio buffers to per-pixel min/max pairs for
// waveform drawing.
//
// Pixel x covers the sample range [floor(x*spp), floor((x+1)*spp)) clipped
// to the clip length. Wide ranges are sub-sampled with a stride of one tenth
// of the range so the cost per pixel stays bounded when zoomed far out.
// Pixels past the end of the clip read as silence.
//
//	gen := peaks.NewGenerator(nil)
//	set := gen.Generate(buf, peaks.SamplesPerPixel(buf.Frames(), 1200), 1200)
//	for x, p := range set.Merged {
//	    drawColumn(x, p.Min, p.Max)
//	}
//
// A Generator caches sets per source identity and resolution. Binding a
// new source clears the cache wholesale.
package peaks
