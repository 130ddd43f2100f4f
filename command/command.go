// Package command decodes serial command lines into parameter updates.
//
// Two wire encodings are supported and selected at configuration time:
//
//	compact:    a single integer, 1..4999 frequency, 5000..5033 amplitude,
//	            9000..9003 waveform
//	structured: F:<float>,A:<float>,W:<int> with optional fields in any order
//
// Decoding is pure and total. Input a decoder cannot use is ignored, never
// reported as an error.
package command

import (
	"fmt"

	"github.com/synaptecltd/funcgen"
)

// New returns the decoder for enc.
func New(enc funcgen.Encoding) (funcgen.Decoder, error) {
	switch enc {
	case funcgen.EncodingCompact:
		return Compact{}, nil
	case funcgen.EncodingStructured:
		return Structured{}, nil
	}
	return nil, fmt.Errorf("unknown encoding: %q", enc)
}

// Help returns the command summary printed when a terminal connects.
func Help(enc funcgen.Encoding) []string {
	switch enc {
	case funcgen.EncodingCompact:
		return []string{
			"Commands:",
			"  1-4999: Set frequency (Hz)",
			"  5000-5033: Set amplitude (5000=0V, 5033=3.3V)",
			"  9000: Sine, 9001: Square, 9002: Triangle, 9003: Sawtooth",
		}
	case funcgen.EncodingStructured:
		return []string{
			"Commands: F:<Hz>,A:<V>,W:<wave> (fields optional, any order)",
			"  F: 0 < F <= 10000",
			"  A: 0 <= A <= 3.3",
			"  W: 0=Sine, 1=Square, 2=Triangle, 3=Sawtooth",
		}
	}
	return nil
}
