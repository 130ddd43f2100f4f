package funcgen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/synaptecltd/funcgen/mathfuncs"
)

// Waveform selects the shape function used by the engine.
type Waveform int

// Waveform values, numbered as on the wire
const (
	Sine     Waveform = iota
	Square   Waveform = iota
	Triangle Waveform = iota
	Sawtooth Waveform = iota
)

var waveformNames = [...]string{"Sine", "Square", "Triangle", "Sawtooth"}

var shapeFunctions = [...]mathfuncs.ShapeFunction{
	mathfuncs.Sine,
	mathfuncs.Square,
	mathfuncs.Triangle,
	mathfuncs.Sawtooth,
}

// Valid reports whether w is one of the four known waveforms.
func (w Waveform) Valid() bool {
	return w >= Sine && w <= Sawtooth
}

func (w Waveform) String() string {
	if !w.Valid() {
		return "Waveform(" + strconv.Itoa(int(w)) + ")"
	}
	return waveformNames[w]
}

// Shape returns the shape function for w, or nil if w is not valid.
func (w Waveform) Shape() mathfuncs.ShapeFunction {
	if !w.Valid() {
		return nil
	}
	return shapeFunctions[w]
}

// ParseWaveform accepts a waveform name (any case) or its wire number.
func ParseWaveform(s string) (Waveform, error) {
	s = strings.TrimSpace(s)
	for i, name := range waveformNames {
		if strings.EqualFold(s, name) {
			return Waveform(i), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && Waveform(n).Valid() {
		return Waveform(n), nil
	}
	return 0, fmt.Errorf("unknown waveform: %q", s)
}

func (w Waveform) MarshalText() ([]byte, error) {
	if !w.Valid() {
		return nil, fmt.Errorf("unknown waveform: %d", int(w))
	}
	return []byte(w.String()), nil
}

// UnmarshalText lets yaml and mapstructure decode waveform names.
func (w *Waveform) UnmarshalText(text []byte) error {
	parsed, err := ParseWaveform(string(text))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}
