package program

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/synaptecltd/funcgen/mathfuncs"
)

// Ramps frequency or amplitude from one value to another over each run.
type sweepProgram struct {
	ProgramBase

	param        Param   // parameter being swept, frequency or amplitude
	From         float64 // value at the start of each run
	To           float64 // value at the end of each run
	rampFuncName string  // name of the ramp function shaping the sweep, defaults to "linear" if empty

	// internal state
	rampFunction mathfuncs.MathsFunction // returns the offset from From for a given elapsed time, span and duration; set internally from rampFuncName
}

// Parameters to use for the sweep program. All can be accessed publicly and used to define sweepProgram.
type SweepParams struct {
	// Defined in ProgramBase

	Name       string    `yaml:"Name"`       // name of the program, used for identification
	ID         uuid.UUID `yaml:"ID"`         // optional fixed id, a random one is assigned when added to a container
	Repeats    uint64    `yaml:"Repeats"`    // the number of times the sweep repeats, 0 for infinite
	Off        bool      `yaml:"Off"`        // true: program deactivated, false: activated
	StartDelay float64   `yaml:"StartDelay"` // the delay before each sweep in seconds
	Duration   float64   `yaml:"Duration"`   // the duration of each sweep in seconds, 0 switches the sweep off

	// Defined in sweepProgram

	Param    Param   `yaml:"Param"` // "frequency" or "amplitude"
	From     float64 `yaml:"From"`  // value at the start of each sweep
	To       float64 `yaml:"To"`    // value at the end of each sweep
	FuncName string  `yaml:"Func"`  // name of the ramp function, empty defaults to "linear"
}

// Initialise the internal fields of sweepProgram when it is unmarshalled from yaml.
func (s *sweepProgram) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var params SweepParams
	if err := unmarshal(&params); err != nil {
		return err
	}

	// This performs checking for invalid values
	sweep, err := NewSweepProgram(params)
	if err != nil {
		return err
	}

	// Copy fields to s
	*s = *sweep

	return nil
}

// Returns a sweepProgram pointer with the requested parameters, checking for invalid values.
func NewSweepProgram(params SweepParams) (*sweepProgram, error) {
	sweep := &sweepProgram{}

	// Fields that can never be invalid set directly
	sweep.typeName = "sweep"
	sweep.name = params.Name
	sweep.id = params.ID
	sweep.From = params.From
	sweep.To = params.To
	sweep.Repeats = params.Repeats
	sweep.Off = params.Off // This can be overridden by SetDuration below

	// Invalid values checked by setters
	if err := sweep.SetParam(params.Param); err != nil {
		return nil, err
	}
	if err := sweep.SetDuration(params.Duration); err != nil {
		return nil, err
	}
	if err := sweep.SetStartDelay(params.StartDelay); err != nil {
		return nil, err
	}
	if err := sweep.SetRampFunctionByName(params.FuncName); err != nil {
		return nil, err
	}

	return sweep, nil
}

// stepProgram returns the value requested by the sweep this step.
func (s *sweepProgram) stepProgram(dt float64) (Setpoint, bool) {
	elapsed, active := s.advance(dt)
	if !active {
		return Setpoint{}, false
	}

	value := s.From + s.rampFunction(elapsed, s.To-s.From, s.duration)
	return Setpoint{Param: s.param, Value: value}, true
}

// Setters

// Sets the swept parameter; only frequency and amplitude can be swept.
func (s *sweepProgram) SetParam(param Param) error {
	switch param {
	case Frequency, Amplitude:
		s.param = param
		return nil
	case "":
		return errors.New("sweep param must be set")
	}
	return fmt.Errorf("cannot sweep param %q", param)
}

// Sets the duration of each sweep in seconds if duration >= 0.
// If duration=0, the sweep is deactivated.
func (s *sweepProgram) SetDuration(duration float64) error {
	if duration < 0 {
		return errors.New("duration must be positive value")
	}
	if duration == 0 {
		s.Off = true
	}
	s.duration = duration
	return nil
}

func (s *sweepProgram) SetRampFunctionByName(name string) error {
	if name == "" {
		name = "linear" // default to linear if no name is provided
	}
	rampFunc, err := mathfuncs.GetRampFunctionFromName(name)
	if err != nil {
		return fmt.Errorf("sweep %q: %w", s.name, err)
	}
	s.rampFuncName = name
	s.rampFunction = rampFunc
	return nil
}

// Getters

func (s *sweepProgram) GetParam() Param {
	return s.param
}

func (s *sweepProgram) GetRampFuncName() string {
	return s.rampFuncName
}
