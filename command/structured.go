package command

import (
	"math"
	"strconv"
	"strings"

	"github.com/synaptecltd/funcgen"
)

// Structured field bounds
const (
	MaxStructuredFrequency = 10000.0
	MaxStructuredAmplitude = 3.3
)

// Structured decodes F:<float>,A:<float>,W:<int> commands. Each field is
// parsed on its own; a malformed or out of range field is skipped without
// affecting the others. When a key repeats, its last valid value is used.
type Structured struct{}

func (Structured) Decode(line string) (funcgen.Update, bool) {
	var u funcgen.Update
	for _, field := range strings.Split(line, ",") {
		key, value, found := strings.Cut(field, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)

		switch strings.ToUpper(strings.TrimSpace(key)) {
		case "F":
			f, err := strconv.ParseFloat(value, 64)
			if err == nil && !math.IsNaN(f) && f > 0 && f <= MaxStructuredFrequency {
				u = u.WithFrequency(f)
			}
		case "A":
			a, err := strconv.ParseFloat(value, 64)
			if err == nil && !math.IsNaN(a) && a >= 0 && a <= MaxStructuredAmplitude {
				u = u.WithAmplitude(a)
			}
		case "W":
			w, err := strconv.Atoi(value)
			if err == nil && funcgen.Waveform(w).Valid() {
				u = u.WithWaveform(funcgen.Waveform(w))
			}
		}
	}
	return u, !u.Empty()
}

// Status acknowledges any accepted structured command with "OK".
func (Structured) Status(applied funcgen.Update, _ funcgen.Params) []string {
	if applied.Empty() {
		return nil
	}
	return []string{"OK"}
}
