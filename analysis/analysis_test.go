package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/synaptecltd/funcgen"
)

const sampleRate = 48000.0

func render(t *testing.T, p funcgen.Params, n int) []funcgen.Sample {
	t.Helper()
	e, err := funcgen.NewEngine(funcgen.DefaultOutput())
	require.NoError(t, err)

	samples := make([]funcgen.Sample, n)
	for i := range samples {
		samples[i] = e.Advance(1/sampleRate, p)
	}
	return samples
}

func TestDominantFrequency(t *testing.T) {
	for _, w := range []funcgen.Waveform{funcgen.Sine, funcgen.Square, funcgen.Triangle, funcgen.Sawtooth} {
		for _, f := range []float64{440, 1000, 2500} {
			p := funcgen.Params{Frequency: f, Amplitude: 3.3, Waveform: w}
			got, err := DominantFrequency(render(t, p, 4000), sampleRate)
			require.NoError(t, err)
			assert.InDelta(t, f, got, 10, "%s at %.0f Hz", w, f)
		}
	}
}

func TestDominantFrequencyConstant(t *testing.T) {
	samples := make([]funcgen.Sample, 256)
	for i := range samples {
		samples[i] = 128
	}
	_, err := DominantFrequency(samples, sampleRate)
	assert.EqualError(t, err, "signal is constant")
}

func TestSpectrumErrors(t *testing.T) {
	_, _, err := Spectrum(make([]funcgen.Sample, MinSamples-1), sampleRate)
	assert.EqualError(t, err, "need at least 16 samples, got 15")

	_, _, err = Spectrum(make([]funcgen.Sample, 64), 0)
	assert.EqualError(t, err, "sample rate must be a positive number")
}

func TestSpectrumSize(t *testing.T) {
	mags, fftSize, err := Spectrum(make([]funcgen.Sample, 1000), sampleRate)
	require.NoError(t, err)
	assert.Equal(t, 1024, fftSize)
	assert.Len(t, mags, 513)
}

func TestNextPowerOf2(t *testing.T) {
	testCases := map[int]int{0: 1, 1: 1, 2: 2, 3: 4, 1000: 1024, 1024: 1024}
	for n, expected := range testCases {
		assert.Equal(t, expected, nextPowerOf2(n), "n=%d", n)
	}
}

func BenchmarkDominantFrequency(b *testing.B) {
	e, _ := funcgen.NewEngine(funcgen.DefaultOutput())
	p := funcgen.DefaultParams()
	samples := make([]funcgen.Sample, 4096)
	for i := range samples {
		samples[i] = e.Advance(1/sampleRate, p)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = DominantFrequency(samples, sampleRate)
	}
}
