package program

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/synaptecltd/funcgen/mathfuncs"
)

// Hops frequency or amplitude to random values within a band at random
// moments during each run.
type hopProgram struct {
	ProgramBase

	// Private fields have setters for invalid value checking

	param Param   // parameter hopped, frequency or amplitude
	Min   float64 // lowest value a hop may request
	Max   float64 // highest value a hop may request

	rate         float64 // expected hops per second, default 0
	rateFuncName string  // name of the function varying the rate over each run, empty defaults to "flat"

	// internal state
	rateFunction mathfuncs.MathsFunction // returns the hop rate for a given elapsed time, rate and duration; set internally from rateFuncName
	rng          *rand.Rand
}

// Parameters to use for the hop program. These map onto the fields of hopProgram.
type HopParams struct {
	// Defined in ProgramBase

	Name       string    `yaml:"Name"`       // name of the program, used for identification
	ID         uuid.UUID `yaml:"ID"`         // optional fixed id, a random one is assigned when added to a container
	Repeats    uint64    `yaml:"Repeats"`    // the number of times bursts of hops repeat, 0 for infinite
	Off        bool      `yaml:"Off"`        // true: program deactivated, false: activated
	StartDelay float64   `yaml:"StartDelay"` // the delay before each burst (and time between bursts) in seconds
	Duration   float64   `yaml:"Duration"`   // the duration of each burst in seconds, must be positive

	// Defined in hopProgram

	Param        Param   `yaml:"Param"`    // "frequency" or "amplitude"
	Min          float64 `yaml:"Min"`      // lowest value a hop may request
	Max          float64 `yaml:"Max"`      // highest value a hop may request
	Rate         float64 `yaml:"Rate"`     // expected hops per second
	RateFuncName string  `yaml:"RateFunc"` // name of the function varying the rate over each burst, empty defaults to constant
	Seed         uint64  `yaml:"Seed"`     // seed for reproducible hops, 0 for a random seed
}

// Initialise the internal fields of hopProgram when it is unmarshalled from yaml.
func (h *hopProgram) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var params HopParams
	if err := unmarshal(&params); err != nil {
		return err
	}

	hop, err := NewHopProgram(params)
	if err != nil {
		return err
	}

	*h = *hop
	return nil
}

// Returns a hopProgram pointer with the requested parameters, checking for invalid values.
func NewHopProgram(params HopParams) (*hopProgram, error) {
	hop := &hopProgram{}

	// Fields that can never be invalid set directly
	hop.typeName = "hop"
	hop.name = params.Name
	hop.id = params.ID
	hop.Repeats = params.Repeats
	hop.Off = params.Off

	// Invalid values checked by setters
	if err := hop.SetParam(params.Param); err != nil {
		return nil, err
	}
	if err := hop.SetBand(params.Min, params.Max); err != nil {
		return nil, err
	}
	if err := hop.SetRate(params.Rate); err != nil {
		return nil, err
	}
	if err := hop.SetRateFunctionByName(params.RateFuncName); err != nil {
		return nil, err
	}
	if err := hop.SetDuration(params.Duration); err != nil {
		return nil, err
	}
	if err := hop.SetStartDelay(params.StartDelay); err != nil {
		return nil, err
	}

	seed := params.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	hop.rng = rand.New(rand.NewPCG(seed, seed>>1|1))

	return hop, nil
}

// stepProgram requests a random value in the band when a hop fires this step.
func (h *hopProgram) stepProgram(dt float64) (Setpoint, bool) {
	elapsed, active := h.advance(dt)
	if !active {
		return Setpoint{}, false
	}

	// Don't hop if the probability is not met
	probability := h.rateFunction(elapsed, h.rate, h.duration) * dt
	if h.rng.Float64() >= probability {
		return Setpoint{}, false
	}

	value := h.Min + h.rng.Float64()*(h.Max-h.Min)
	return Setpoint{Param: h.param, Value: value}, true
}

// Setters

// Sets the hopped parameter; only frequency and amplitude can hop.
func (h *hopProgram) SetParam(param Param) error {
	switch param {
	case Frequency, Amplitude:
		h.param = param
		return nil
	case "":
		return errors.New("hop param must be set")
	}
	return fmt.Errorf("cannot hop param %q", param)
}

// Sets the band hops are drawn from if lo <= hi.
func (h *hopProgram) SetBand(lo, hi float64) error {
	if lo > hi {
		return fmt.Errorf("hop band min %v is above max %v", lo, hi)
	}
	h.Min = lo
	h.Max = hi
	return nil
}

// Sets the expected hops per second if rate >= 0.
func (h *hopProgram) SetRate(rate float64) error {
	if rate < 0 {
		return errors.New("rate must be greater than or equal to 0")
	}
	h.rate = rate
	return nil
}

// Sets the duration of each burst in seconds if duration > 0.
func (h *hopProgram) SetDuration(duration float64) error {
	if duration <= 0 {
		return errors.New("duration must be positive value")
	}
	h.duration = duration
	return nil
}

func (h *hopProgram) SetRateFunctionByName(name string) error {
	if name == "" {
		name = "flat" // constant rate if no name is provided
	}
	rateFunc, err := mathfuncs.GetRampFunctionFromName(name)
	if err != nil {
		return fmt.Errorf("hop %q: %w", h.name, err)
	}
	h.rateFuncName = name
	h.rateFunction = rateFunc
	return nil
}

// Getters

func (h *hopProgram) GetParam() Param {
	return h.param
}

func (h *hopProgram) GetRate() float64 {
	return h.rate
}

func (h *hopProgram) GetRateFuncName() string {
	return h.rateFuncName
}
