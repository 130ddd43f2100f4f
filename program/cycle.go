package program

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Steps through a list of waveforms, holding each for a dwell time.
type cycleProgram struct {
	ProgramBase

	waveforms []int   // wire numbers of the waveforms in order
	dwell     float64 // seconds each waveform is held

	// internal state
	lastIndex  int    // index requested most recently, -1 before the first request of a run
	lastRepeat uint64 // run counter when lastIndex was requested
}

// Parameters to use for the cycle program.
type CycleParams struct {
	// Defined in ProgramBase

	Name       string    `yaml:"Name"`       // name of the program, used for identification
	ID         uuid.UUID `yaml:"ID"`         // optional fixed id, a random one is assigned when added to a container
	Repeats    uint64    `yaml:"Repeats"`    // the number of times the cycle repeats, 0 for infinite
	Off        bool      `yaml:"Off"`        // true: program deactivated, false: activated
	StartDelay float64   `yaml:"StartDelay"` // the delay before each cycle in seconds

	// Defined in cycleProgram

	Waveforms []int   `yaml:"Waveforms"` // wire numbers, 0=Sine, 1=Square, 2=Triangle, 3=Sawtooth
	Dwell     float64 `yaml:"Dwell"`     // seconds each waveform is held
}

// Initialise the internal fields of cycleProgram when it is unmarshalled from yaml.
func (c *cycleProgram) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var params CycleParams
	if err := unmarshal(&params); err != nil {
		return err
	}

	cycle, err := NewCycleProgram(params)
	if err != nil {
		return err
	}

	*c = *cycle

	return nil
}

// Returns a cycleProgram pointer with the requested parameters, checking for invalid values.
func NewCycleProgram(params CycleParams) (*cycleProgram, error) {
	cycle := &cycleProgram{lastIndex: -1}

	cycle.typeName = "cycle"
	cycle.name = params.Name
	cycle.id = params.ID
	cycle.Repeats = params.Repeats
	cycle.Off = params.Off

	if err := cycle.SetWaveforms(params.Waveforms, params.Dwell); err != nil {
		return nil, err
	}
	if err := cycle.SetStartDelay(params.StartDelay); err != nil {
		return nil, err
	}

	return cycle, nil
}

// stepProgram requests a waveform only when the cycle moves on to the next
// entry, so each change resets the generator phase once.
func (c *cycleProgram) stepProgram(dt float64) (Setpoint, bool) {
	repeat := c.countRepeats
	elapsed, active := c.advance(dt)
	if !active {
		return Setpoint{}, false
	}

	index := int(elapsed / c.dwell)
	if index >= len(c.waveforms) {
		index = len(c.waveforms) - 1
	}
	if index == c.lastIndex && repeat == c.lastRepeat {
		return Setpoint{}, false
	}
	c.lastIndex = index
	c.lastRepeat = c.countRepeats

	return Setpoint{Param: Waveform, Value: float64(c.waveforms[index])}, true
}

// Setters

// Sets the waveform list and dwell time; the run duration is their product.
func (c *cycleProgram) SetWaveforms(waveforms []int, dwell float64) error {
	if len(waveforms) == 0 {
		return errors.New("cycle needs at least one waveform")
	}
	for _, w := range waveforms {
		if w < 0 || w > 3 {
			return fmt.Errorf("waveform %d outside 0..3", w)
		}
	}
	if dwell <= 0 {
		return errors.New("dwell must be positive value")
	}

	c.waveforms = append([]int(nil), waveforms...)
	c.dwell = dwell
	c.duration = dwell * float64(len(waveforms))
	return nil
}

// Getters

func (c *cycleProgram) GetWaveforms() []int {
	return append([]int(nil), c.waveforms...)
}

func (c *cycleProgram) GetDwell() float64 {
	return c.dwell
}
