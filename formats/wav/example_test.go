// SPDX-License-Identifier: EPL-2.0

package wav_test

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ik5/wavedit/formats/wav"
	"github.com/ik5/wavedit/internal/audiotest"
)

// Example_roundTrip encodes a clip to 16-bit WAV and decodes it again.
func Example_roundTrip() {
	clip := audiotest.SineBuffer(16000, 1, 16000, 440)

	data, err := wav.EncodeBytes(clip, 16)
	if err != nil {
		fmt.Printf("Encode error: %v\n", err)
		return
	}
	fmt.Printf("Wrote %d bytes\n", len(data))

	decoded, err := wav.Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		fmt.Printf("Decode error: %v\n", err)
		return
	}
	fmt.Printf("Sample rate: %d Hz\n", decoded.SampleRate())
	fmt.Printf("Duration: %.2f seconds\n", decoded.Duration())
	// Output:
	// Wrote 32044 bytes
	// Sample rate: 16000 Hz
	// Duration: 1.00 seconds
}

// Example_errorNotWAV shows handling of invalid input.
func Example_errorNotWAV() {
	_, err := wav.Decoder{}.Decode(bytes.NewReader([]byte("This is not a WAV file")))
	if errors.Is(err, wav.ErrNotWavFile) {
		fmt.Println("Detected: Not a valid WAV file")
	}
	// Output: Detected: Not a valid WAV file
}
