package funcgen

import (
	"errors"
	"fmt"
	"math"
)

// Firmware defaults, matching the reference hardware
const (
	DefaultFrequency     = 1000.0  // Hz
	DefaultAmplitude     = 3.3     // V
	DefaultMaxFrequency  = 10000.0 // Hz
	DefaultSupplyVoltage = 3.3     // V, DAC full scale
	DefaultMaxSample     = 255     // 8-bit DAC
)

// Params is the live configuration of the generator.
type Params struct {
	Frequency float64  `yaml:"frequency"` // Hz, 0 < f <= Limits.MaxFrequency
	Amplitude float64  `yaml:"amplitude"` // V, 0 <= a <= Limits.MaxAmplitude
	Waveform  Waveform `yaml:"waveform"`
}

// DefaultParams returns the power-on parameters: 1 kHz full scale sine.
func DefaultParams() Params {
	return Params{
		Frequency: DefaultFrequency,
		Amplitude: DefaultAmplitude,
		Waveform:  Sine,
	}
}

// Limits bounds the values the store accepts.
type Limits struct {
	MaxFrequency float64 `yaml:"max_frequency"` // Hz, frequency must be > 0 and <= this
	MaxAmplitude float64 `yaml:"max_amplitude"` // V, usually the supply rail
}

func DefaultLimits() Limits {
	return Limits{
		MaxFrequency: DefaultMaxFrequency,
		MaxAmplitude: DefaultSupplyVoltage,
	}
}

func (l Limits) validate() error {
	if !isFinite(l.MaxFrequency) || l.MaxFrequency <= 0 {
		return errors.New("max frequency must be a positive number")
	}
	if !isFinite(l.MaxAmplitude) || l.MaxAmplitude < 0 {
		return errors.New("max amplitude must be a non-negative number")
	}
	return nil
}

// FrequencyOK reports whether f is an acceptable frequency.
func (l Limits) FrequencyOK(f float64) bool {
	return isFinite(f) && f > 0 && f <= l.MaxFrequency
}

// AmplitudeOK reports whether a is an acceptable amplitude.
func (l Limits) AmplitudeOK(a float64) bool {
	return isFinite(a) && a >= 0 && a <= l.MaxAmplitude
}

// Store holds the parameters. Setters commit values inside the limits and
// silently ignore everything else.
type Store struct {
	limits Limits
	params Params

	onWaveformChange func(Waveform)
}

// NewStore returns a store holding initial, checking both arguments.
func NewStore(limits Limits, initial Params) (*Store, error) {
	if err := limits.validate(); err != nil {
		return nil, err
	}

	s := &Store{limits: limits}
	if !s.SetFrequency(initial.Frequency) {
		return nil, fmt.Errorf("initial frequency %v outside (0, %v]", initial.Frequency, limits.MaxFrequency)
	}
	if !s.SetAmplitude(initial.Amplitude) {
		return nil, fmt.Errorf("initial amplitude %v outside [0, %v]", initial.Amplitude, limits.MaxAmplitude)
	}
	if !s.SetWaveform(initial.Waveform) {
		return nil, fmt.Errorf("initial waveform %v is not valid", initial.Waveform)
	}
	return s, nil
}

// Limits returns the bounds the store was built with.
func (s *Store) Limits() Limits {
	return s.limits
}

// OnWaveformChange registers fn to be called after every committed waveform
// update, including one that selects the current waveform again.
func (s *Store) OnWaveformChange(fn func(Waveform)) {
	s.onWaveformChange = fn
}

func (s *Store) SetFrequency(f float64) bool {
	if !s.limits.FrequencyOK(f) {
		return false
	}
	s.params.Frequency = f
	return true
}

func (s *Store) SetAmplitude(a float64) bool {
	if !s.limits.AmplitudeOK(a) {
		return false
	}
	s.params.Amplitude = a
	return true
}

func (s *Store) SetWaveform(w Waveform) bool {
	if !w.Valid() {
		return false
	}
	s.params.Waveform = w
	if s.onWaveformChange != nil {
		s.onWaveformChange(w)
	}
	return true
}

// Apply commits each field of u independently and returns the fields that
// were committed.
func (s *Store) Apply(u Update) Update {
	var applied Update
	if u.Has(FieldFrequency) && s.SetFrequency(u.Frequency) {
		applied = applied.WithFrequency(u.Frequency)
	}
	if u.Has(FieldAmplitude) && s.SetAmplitude(u.Amplitude) {
		applied = applied.WithAmplitude(u.Amplitude)
	}
	if u.Has(FieldWaveform) && s.SetWaveform(u.Waveform) {
		applied = applied.WithWaveform(u.Waveform)
	}
	return applied
}

// Snapshot returns a copy of the current parameters.
func (s *Store) Snapshot() Params {
	return s.params
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
