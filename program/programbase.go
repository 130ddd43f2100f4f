package program

import (
	"errors"

	"github.com/google/uuid"
)

// ProgramBase is the base struct for all program types.
type ProgramBase struct {
	// Setters and getters are provided for private fields below to allow for error checking
	typeName   string    // the type of program
	name       string    // the name of the program, used for identification
	id         uuid.UUID // key of the program within its container
	startDelay float64   // how many seconds before each run begins
	duration   float64   // the duration of each run in seconds
	Repeats    uint64    // the number of times the run repeats, 0 for infinite
	Off        bool      // true: program deactivated, false: activated

	// internal state
	isActive     bool    // whether the program is driving its parameter in this step
	runClock     float64 // seconds since the current delay period began
	elapsedTime  float64 // seconds since the start of the active run
	countRepeats uint64  // counter for number of runs completed
}

// Returns the type of program as a string.
func (p *ProgramBase) TypeAsString() string {
	return p.typeName
}

func (p *ProgramBase) GetName() string {
	return p.name
}

func (p *ProgramBase) GetID() uuid.UUID {
	return p.id
}

func (p *ProgramBase) setID(id uuid.UUID) {
	p.id = id
}

// Returns the start delay of each run in seconds.
func (p *ProgramBase) GetStartDelay() float64 {
	return p.startDelay
}

// Returns the duration of each run in seconds.
func (p *ProgramBase) GetDuration() float64 {
	return p.duration
}

// Returns whether the program drove its parameter in the last step.
func (p *ProgramBase) GetIsActive() bool {
	return p.isActive
}

// Returns the time elapsed since the start of the active run.
func (p *ProgramBase) GetElapsedTime() float64 {
	return p.elapsedTime
}

// Returns the number of runs completed so far.
func (p *ProgramBase) GetCountRepeats() uint64 {
	return p.countRepeats
}

// Sets the delay before each run in seconds if delay >= 0.
func (p *ProgramBase) SetStartDelay(startDelay float64) error {
	if startDelay < 0 {
		return errors.New("startDelay must be greater than or equal to 0")
	}

	p.startDelay = startDelay
	return nil
}

// advance moves the program clock on by dt and returns the elapsed time
// within the active run. The step that completes a run returns exactly the
// duration, so the run ends on its final value, and the next run starts
// after another start delay.
func (p *ProgramBase) advance(dt float64) (float64, bool) {
	p.isActive = false
	if p.Off {
		return 0, false
	}
	if p.Repeats != 0 && p.countRepeats >= p.Repeats {
		p.Off = true // switch the program off once all repetitions are complete
		return 0, false
	}

	p.runClock += dt
	if p.runClock < p.startDelay {
		return 0, false
	}

	p.elapsedTime = p.runClock - p.startDelay
	if p.elapsedTime >= p.duration {
		p.elapsedTime = p.duration
		p.runClock = 0
		p.countRepeats += 1
	}

	p.isActive = true
	return p.elapsedTime, true
}
