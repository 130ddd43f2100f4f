package mathfuncs

import (
	"errors"
	"math"
)

// A mathematical function y=f(t,A,T). Takes amplitude, A, and period, T,
// as inputs and returns the value of the function at time, t.
type MathsFunction func(t, A, T float64) float64

// A map between string name and ramp function pairs
var mathsFunctions = map[string]MathsFunction{
	"linear":                 linearRamp,
	"exponential":            exponentialRamp,
	"exponential_full":       exponentialRampSaturated,
	"exponential_decay_full": exponentialDecaySaturated,
	"parabolic":              parabolicRamp,
	"step":                   stepFunction,
	"sine":                   halfSine,
	"flat":                   flat,
}

func GetMathsFunctionNames() []string {
	names := make([]string, 0, len(mathsFunctions))
	for name := range mathsFunctions {
		names = append(names, name)
	}
	return names
}

// Returns the named ramp function. Defaults to linear if name is empty.
func GetRampFunctionFromName(name string) (MathsFunction, error) {
	if name == "" {
		name = "linear"
	}
	rampFunc, ok := mathsFunctions[name]
	if !ok {
		return nil, errors.New("ramp function not found")
	}

	return rampFunc, nil
}

// Returns a linear ramp y=(A/T)*t where A is the magnitude of the ramp, T is
// its duration, and t is elapsed time.
func linearRamp(t, A, T float64) float64 {
	m := A / T // slope of the ramp
	return m * t
}

// Returns an exponential ramp y=A*(exp(t/T)-1)/(e-1), which starts at 0
// and reaches A at t=T.
func exponentialRamp(t, A, T float64) float64 {
	return A * (math.Exp(t/T) - 1) / (math.E - 1)
}

// Returns an exponential ramp y=A*(exp(5*t/T)-1)/(exp(5)-1); steeper than
// exponentialRamp but with the same end points.
func exponentialRampSaturated(t, A, T float64) float64 {
	return A * (math.Exp(5*t/T) - 1) / (math.Exp(5) - 1)
}

// Returns y=A*(1-exp(-5*t/T)), a fast rise that settles close to A by t=T.
func exponentialDecaySaturated(t, A, T float64) float64 {
	return A * (1 - math.Exp(-5*t/T))
}

// Returns a parabolic ramp of amplitude A over duration T.
func parabolicRamp(t, A, T float64) float64 {
	return A * (t / T) * (t / T) // faster power of two compared to math.Pow(t/T, 2)
}

// Returns 0 for the first half of T and A for the second half.
func stepFunction(t, A, T float64) float64 {
	if math.Mod(t, T) < T/2 {
		return 0
	}
	return A
}

// Returns y=A*sin(pi*t/(2T)), a quarter sine that eases into A at t=T.
func halfSine(t, A, T float64) float64 {
	return A * math.Sin(math.Pi*t/(2*T))
}

// flat returns a constant value equal to A (amplitude),
// independent of time t or period T.
func flat(t, A, T float64) float64 {
	return A
}
