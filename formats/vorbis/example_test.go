// SPDX-License-Identifier: EPL-2.0

package vorbis_test

import (
	"fmt"
	"log"
	"os"

	"github.com/ik5/wavedit/formats/vorbis"
	"github.com/ik5/wavedit/formats/wav"
)

// ExampleDecoder_Decode shows how to decode an Ogg Vorbis file.
func ExampleDecoder_Decode() {
	f, err := os.Open("input.ogg")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	buf, err := vorbis.Decoder{}.Decode(f)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Decoded Vorbis: %d Hz, %d channels, %.2fs\n",
		buf.SampleRate(), buf.NumChannels(), buf.Duration())
}

// ExampleDecoder_Decode_convertToWav demonstrates converting Ogg Vorbis to WAV format.
func ExampleDecoder_Decode_convertToWav() {
	in, err := os.Open("input.ogg")
	if err != nil {
		log.Fatal(err)
	}
	defer in.Close()

	buf, err := vorbis.Decoder{}.Decode(in)
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
