package funcgen

import (
	"errors"
	"math"
	"time"

	"github.com/synaptecltd/funcgen/mathfuncs"
)

// Sample is one quantised DAC output value in 0..=Output.MaxSample.
type Sample uint16

// Output describes the DAC the samples are written to.
type Output struct {
	SupplyVoltage float64 `yaml:"supply_voltage"` // V at full scale
	MaxSample     Sample  `yaml:"max_sample"`     // full scale code, 255 for an 8-bit DAC
}

func DefaultOutput() Output {
	return Output{
		SupplyVoltage: DefaultSupplyVoltage,
		MaxSample:     DefaultMaxSample,
	}
}

func (o Output) validate() error {
	if !isFinite(o.SupplyVoltage) || o.SupplyVoltage <= 0 {
		return errors.New("supply voltage must be a positive number")
	}
	if o.MaxSample == 0 {
		return errors.New("max sample must be greater than 0")
	}
	return nil
}

// Clock is a free-running microsecond counter that may wrap.
type Clock interface {
	Micros() uint32
}

// MonotonicClock counts microseconds since it was created, truncated to 32
// bits so it wraps about every 71 minutes like a microcontroller timer.
type MonotonicClock struct {
	start time.Time
}

func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{start: time.Now()}
}

func (c *MonotonicClock) Micros() uint32 {
	return uint32(time.Since(c.start).Microseconds())
}

// Engine is the phase accumulator and quantiser. Its only state is the phase
// and the time of the previous tick.
type Engine struct {
	output   Output
	fastSine bool

	phase      float64 // radians, [0, 2*pi)
	lastMicros uint32
}

// NewEngine returns an engine at phase 0 with its tick reference at 0.
func NewEngine(output Output) (*Engine, error) {
	if err := output.validate(); err != nil {
		return nil, err
	}
	return &Engine{output: output}, nil
}

// Output returns the DAC description used for quantisation.
func (e *Engine) Output() Output {
	return e.output
}

// UseFastSine switches the sine waveform to the table approximation.
func (e *Engine) UseFastSine(on bool) {
	e.fastSine = on
}

func (e *Engine) Phase() float64 {
	return e.phase
}

func (e *Engine) ResetPhase() {
	e.phase = 0
}

// Sync sets the reference for the next Elapsed call without advancing.
func (e *Engine) Sync(now uint32) {
	e.lastMicros = now
}

// Elapsed returns the seconds since the previous call. The subtraction is
// unsigned so a single counter wrap between calls is measured correctly.
func (e *Engine) Elapsed(now uint32) float64 {
	delta := now - e.lastMicros
	e.lastMicros = now
	return float64(delta) / 1e6
}

// Tick advances the engine to now and returns the sample for p.
func (e *Engine) Tick(now uint32, p Params) Sample {
	return e.Advance(e.Elapsed(now), p)
}

// Advance moves the phase on by dt seconds at p.Frequency and returns the
// sample for the new phase.
func (e *Engine) Advance(dt float64, p Params) Sample {
	if dt > 0 {
		e.phase = mathfuncs.WrapPhase(e.phase, mathfuncs.TwoPi*p.Frequency*dt)
	}
	return e.Quantise(e.Voltage(p))
}

// Value evaluates the selected shape at the current phase, in [-1, 1].
func (e *Engine) Value(w Waveform) float64 {
	if w == Sine && e.fastSine {
		return mathfuncs.FastSine(e.phase)
	}
	shape := w.Shape()
	if shape == nil {
		return 0
	}
	return shape(e.phase)
}

// Voltage maps the shape value from [-1, 1] onto [0, p.Amplitude].
func (e *Engine) Voltage(p Params) float64 {
	return e.Value(p.Waveform)*p.Amplitude/2 + p.Amplitude/2
}

// Quantise converts a voltage to the nearest DAC code, clamped to the range.
func (e *Engine) Quantise(voltage float64) Sample {
	full := float64(e.output.MaxSample)
	code := math.Round(voltage * full / e.output.SupplyVoltage)
	switch {
	case code < 0 || math.IsNaN(code):
		return 0
	case code > full:
		return e.output.MaxSample
	}
	return Sample(code)
}
