// SPDX-License-Identifier: EPL-2.0

package aiff_test

import (
	"fmt"
	"log"
	"os"

	"github.com/ik5/wavedit/formats/aiff"
	"github.com/ik5/wavedit/formats/wav"
)

// ExampleDecoder_Decode shows how to decode an AIFF file.
func ExampleDecoder_Decode() {
	f, err := os.Open("input.aif")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	buf, err := aiff.Decoder{}.Decode(f)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Decoded AIFF: %d Hz, %d channels, %.2fs\n",
		buf.SampleRate(), buf.NumChannels(), buf.Duration())
}

// ExampleDecoder_Decode_convertToWav demonstrates converting AIFF to WAV format.
func ExampleDecoder_Decode_convertToWav() {
	in, err := os.Open("input.aif")
	if err != nil {
		log.Fatal(err)
	}
	defer in.Close()

	buf, err := aiff.Decoder{}.Decode(in)
	if err != nil {
		log.Fatal(err)
	}

	out, err := os.Create("output.wav")
	if err != nil {
		log.Fatal(err)
	}
	defer out.Close()

	if err := wav.Encode(out, buf.Mixdown(), 16); err != nil {
		log.Fatal(err)
	}
}
