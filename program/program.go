package program

import (
	"github.com/google/uuid"
)

// Param names the generator parameter a program drives.
type Param string

const (
	Frequency Param = "frequency"
	Amplitude Param = "amplitude"
	Waveform  Param = "waveform"
)

// Setpoint is a value requested for one parameter. For Waveform the value is
// the wire number of the waveform (0=Sine, 1=Square, 2=Triangle, 3=Sawtooth).
type Setpoint struct {
	Param Param
	Value float64
}

// Container is an ordered collection of programs. When two programs drive the
// same parameter in one step, the later one wins.
type Container []ProgramInterface

// ProgramInterface is the interface for all program types (sweeps, cycles, hops).
type ProgramInterface interface {
	TypeAsString() string                    // Returns the program type as a string
	GetName() string                         // Returns the name given in the configuration
	GetID() uuid.UUID                        // Returns the id used to find the program in its container
	GetIsActive() bool                       // Returns whether the program is driving its parameter this step
	GetDuration() float64                    // Returns the duration of each run in seconds
	GetStartDelay() float64                  // Returns the delay before each run in seconds
	stepProgram(dt float64) (Setpoint, bool) // Advances the program by dt seconds and returns the requested setpoint, if any
	setID(id uuid.UUID)                      // Assigns the container id
}

// Steps all programs within a container and returns the setpoints they request.
func (c Container) Step(dt float64) []Setpoint {
	var setpoints []Setpoint
	for i := range c {
		if sp, ok := c[i].stepProgram(dt); ok {
			setpoints = append(setpoints, sp)
		}
	}
	return setpoints
}

// Add appends a program to the container and returns its id. A program
// without an id is given a new random one.
func (c *Container) Add(p ProgramInterface) uuid.UUID {
	id := p.GetID()
	if id == uuid.Nil {
		id = uuid.New()
		p.setID(id)
	}
	*c = append(*c, p)
	return id
}

// Remove deletes the program with the given id and reports whether it was found.
func (c *Container) Remove(id uuid.UUID) bool {
	for i, p := range *c {
		if p.GetID() == id {
			*c = append((*c)[:i], (*c)[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the program with the given id.
func (c Container) Get(id uuid.UUID) (ProgramInterface, bool) {
	for _, p := range c {
		if p.GetID() == id {
			return p, true
		}
	}
	return nil, false
}
