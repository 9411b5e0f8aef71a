// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"fmt"

	"github.com/ik5/wavedit/audio"
	"github.com/ik5/wavedit/internal/audiotest"
)

// Example_collect demonstrates turning a streaming source into a Buffer.
func Example_collect() {
	// One second of stereo audio at 16kHz
	source := audiotest.NewSineSource(16000, 2, 16000, 440.0)

	buf, err := audio.Collect(source)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Channels: %d\n", buf.NumChannels())
	fmt.Printf("Frames: %d\n", buf.Frames())
	fmt.Printf("Duration: %.2f seconds\n", buf.Duration())
	// Output:
	// Channels: 2
	// Frames: 16000
	// Duration: 1.00 seconds
}

// Example_resample shows converting a clip to the playback device rate and
// folding it down to mono.
func Example_resample() {
	buf := audiotest.SineBuffer(44100, 2, 44100, 440.0)

	resampled, err := audio.Resample(buf, 48000)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	mono := resampled.Mixdown()

	fmt.Printf("Sample rate: %d Hz\n", mono.SampleRate())
	fmt.Printf("Channels: %d\n", mono.NumChannels())
	fmt.Printf("Frames: %d\n", mono.Frames())
	// Output:
	// Sample rate: 48000 Hz
	// Channels: 1
	// Frames: 48000
}
