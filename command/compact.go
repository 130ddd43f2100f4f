package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/synaptecltd/funcgen"
)

// Compact command ranges
const (
	MinFrequencyCode = 1
	MaxFrequencyCode = 4999
	AmplitudeBase    = 5000
	MaxAmplitudeCode = 5033 // 3.3 V
	WaveformBase     = 9000
	MaxWaveformCode  = 9003
)

// Compact decodes single integer commands.
type Compact struct{}

func (Compact) Decode(line string) (funcgen.Update, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return funcgen.Update{}, false
	}

	var u funcgen.Update
	switch {
	case n >= MinFrequencyCode && n <= MaxFrequencyCode:
		u = u.WithFrequency(float64(n))
	case n >= AmplitudeBase && n <= MaxAmplitudeCode:
		u = u.WithAmplitude(float64(n-AmplitudeBase) / 10.0)
	case n >= WaveformBase && n <= MaxWaveformCode:
		u = u.WithWaveform(funcgen.Waveform(n - WaveformBase))
	default:
		return funcgen.Update{}, false
	}
	return u, true
}

// Status echoes the single field a compact command sets.
func (Compact) Status(applied funcgen.Update, p funcgen.Params) []string {
	var lines []string
	if applied.Has(funcgen.FieldFrequency) {
		lines = append(lines, fmt.Sprintf("Freq: %.2f", p.Frequency))
	}
	if applied.Has(funcgen.FieldAmplitude) {
		lines = append(lines, fmt.Sprintf("Amp: %.2f", p.Amplitude))
	}
	if applied.Has(funcgen.FieldWaveform) {
		lines = append(lines, "Wave: "+p.Waveform.String())
	}
	return lines
}
