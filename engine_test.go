package funcgen

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t testing.TB) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultOutput())
	require.NoError(t, err)
	return e
}

func TestNewEngineErrors(t *testing.T) {
	_, err := NewEngine(Output{SupplyVoltage: 0, MaxSample: 255})
	assert.EqualError(t, err, "supply voltage must be a positive number")

	_, err = NewEngine(Output{SupplyVoltage: math.NaN(), MaxSample: 255})
	assert.EqualError(t, err, "supply voltage must be a positive number")

	_, err = NewEngine(Output{SupplyVoltage: 3.3, MaxSample: 0})
	assert.EqualError(t, err, "max sample must be greater than 0")
}

// 1 kHz at full scale reaches the sine peak a quarter period after phase 0.
func TestEngineQuarterPeriod(t *testing.T) {
	e := newTestEngine(t)
	p := Params{Frequency: 1000, Amplitude: 3.3, Waveform: Sine}

	e.Sync(0)
	sample := e.Tick(250, p)

	assert.InDelta(t, math.Pi/2, e.Phase(), 1e-12)
	assert.Equal(t, Sample(255), sample)
}

func TestEngineAdvanceZero(t *testing.T) {
	e := newTestEngine(t)
	p := Params{Frequency: 1000, Amplitude: 3.3, Waveform: Sine}

	// phase 0, sin = 0, mid scale
	assert.Equal(t, Sample(128), e.Advance(0, p))
	assert.Equal(t, 0.0, e.Phase())

	assert.Equal(t, Sample(128), e.Advance(-1, p), "negative intervals do not move the phase")
	assert.Equal(t, 0.0, e.Phase())
}

func TestEngineElapsedWraparound(t *testing.T) {
	e := newTestEngine(t)

	e.Sync(math.MaxUint32 - 99)
	assert.InDelta(t, 200e-6, e.Elapsed(100), 1e-12)
	assert.InDelta(t, 1e-6, e.Elapsed(101), 1e-12)
	assert.Equal(t, 0.0, e.Elapsed(101))
}

func TestEnginePhaseStaysWrapped(t *testing.T) {
	e := newTestEngine(t)
	p := Params{Frequency: 9999, Amplitude: 1, Waveform: Sawtooth}

	rng := rand.New(rand.NewPCG(42, 0))
	for i := 0; i < 10000; i++ {
		// intervals up to several seconds, many periods per tick
		e.Advance(rng.Float64()*5, p)
		assert.GreaterOrEqual(t, e.Phase(), 0.0)
		assert.Less(t, e.Phase(), 2*math.Pi)
	}
}

func TestEngineSampleRange(t *testing.T) {
	for _, out := range []Output{DefaultOutput(), {SupplyVoltage: 5, MaxSample: 4095}} {
		e, err := NewEngine(out)
		require.NoError(t, err)

		rng := rand.New(rand.NewPCG(7, 0))
		for i := 0; i < 20000; i++ {
			p := Params{
				Frequency: rng.Float64()*DefaultMaxFrequency + 1e-3,
				Amplitude: rng.Float64() * out.SupplyVoltage,
				Waveform:  Waveform(rng.IntN(4)),
			}
			e.UseFastSine(i%2 == 0)
			s := e.Advance(rng.Float64()*1e-3, p)
			assert.LessOrEqual(t, s, out.MaxSample)
		}
	}
}

func TestEngineShapes(t *testing.T) {
	e := newTestEngine(t)

	testCases := []struct {
		phase    float64
		waveform Waveform
		expected float64
	}{
		{0, Square, 1},
		{math.Pi, Square, -1},
		{0, Triangle, -1},
		{math.Pi, Triangle, 1},
		{math.Pi / 2, Triangle, 0},
		{0, Sawtooth, -1},
		{math.Pi, Sawtooth, 0},
		{math.Pi / 2, Sine, 1},
		{0, Waveform(8), 0},
	}
	for _, tc := range testCases {
		e.phase = tc.phase
		assert.InDelta(t, tc.expected, e.Value(tc.waveform), 1e-12, "%s at %v", tc.waveform, tc.phase)
	}
}

func TestEngineFastSine(t *testing.T) {
	e := newTestEngine(t)
	e.UseFastSine(true)

	for phase := 0.0; phase < 2*math.Pi; phase += 0.01 {
		e.phase = phase
		v := e.Value(Sine)
		assert.InDelta(t, math.Sin(phase), v, 0.05)
	}
}

func TestEngineQuantise(t *testing.T) {
	e := newTestEngine(t)

	testCases := []struct {
		voltage  float64
		expected Sample
	}{
		{0, 0},
		{3.3, 255},
		{1.65, 128},
		{-0.5, 0},
		{10, 255},
		{math.NaN(), 0},
		{math.Inf(1), 255},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, e.Quantise(tc.voltage), "voltage %v", tc.voltage)
	}
}

func TestEngineVoltage(t *testing.T) {
	e := newTestEngine(t)
	p := Params{Frequency: 50, Amplitude: 2, Waveform: Square}

	e.phase = 0
	assert.Equal(t, 2.0, e.Voltage(p))
	e.phase = math.Pi
	assert.Equal(t, 0.0, e.Voltage(p))

	p.Amplitude = 0
	assert.Equal(t, 0.0, e.Voltage(p))
}

func TestMonotonicClock(t *testing.T) {
	c := NewMonotonicClock()
	a := c.Micros()
	time.Sleep(2 * time.Millisecond)
	b := c.Micros()
	assert.GreaterOrEqual(t, b-a, uint32(2000))
}

func BenchmarkEngineAdvance(b *testing.B) {
	e := newTestEngine(b)
	p := DefaultParams()

	for i := 0; i < b.N; i++ {
		e.Advance(1.0/48000, p)
	}
}

func BenchmarkEngineAdvanceFastSine(b *testing.B) {
	e := newTestEngine(b)
	e.UseFastSine(true)
	p := DefaultParams()

	for i := 0; i < b.N; i++ {
		e.Advance(1.0/48000, p)
	}
}
