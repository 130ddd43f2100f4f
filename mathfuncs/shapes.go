package mathfuncs

import (
	"math"

	"github.com/teknico/sigourney/fast"
)

// TwoPi is one full cycle in radians.
const TwoPi = 2 * math.Pi

// A ShapeFunction maps a phase in [0, 2*pi) to a normalised value in [-1, 1].
type ShapeFunction func(phase float64) float64

// Sine returns sin(phase).
func Sine(phase float64) float64 {
	return math.Sin(phase)
}

// FastSine is a table lookup approximation of Sine. It may overshoot [-1, 1]
// by the table error, callers clamp after scaling.
func FastSine(phase float64) float64 {
	return fast.Sin(phase)
}

// Square returns +1 for the first half cycle and -1 for the second. A phase of
// exactly pi is in the second half.
func Square(phase float64) float64 {
	if phase < math.Pi {
		return 1.0
	}
	return -1.0
}

// Triangle ramps from -1 at phase 0 up to +1 at pi and back to -1 at 2*pi.
func Triangle(phase float64) float64 {
	if phase < math.Pi {
		return -1.0 + 2.0*phase/math.Pi
	}
	return 3.0 - 2.0*phase/math.Pi
}

// Sawtooth ramps from -1 at phase 0 to +1 at 2*pi, then drops at the wrap.
func Sawtooth(phase float64) float64 {
	return -1.0 + phase/math.Pi
}

// WrapPhase returns phase+increment wrapped into [0, 2*pi). phase must already
// be in range and increment must be non-negative. Whole cycles are removed
// from the increment first so a single subtraction completes the wrap.
func WrapPhase(phase, increment float64) float64 {
	if increment >= TwoPi {
		increment = math.Mod(increment, TwoPi)
	}
	phase += increment
	if phase >= TwoPi {
		phase -= TwoPi
	}
	return phase
}
