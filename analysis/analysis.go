// Package analysis measures rendered sample streams.
package analysis

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/synaptecltd/funcgen"
)

// MinSamples is the shortest stream DominantFrequency will analyse.
const MinSamples = 16

// DominantFrequency estimates the frequency of the strongest spectral
// component in samples, in Hz. The DC level is removed and a Hann window
// applied before the transform; the peak bin is refined by parabolic
// interpolation over its neighbours.
func DominantFrequency(samples []funcgen.Sample, sampleRate float64) (float64, error) {
	spectrum, fftSize, err := Spectrum(samples, sampleRate)
	if err != nil {
		return 0, err
	}

	peak := 1
	for k := 2; k < len(spectrum); k++ {
		if spectrum[k] > spectrum[peak] {
			peak = k
		}
	}
	if spectrum[peak] == 0 {
		return 0, errors.New("signal is constant")
	}

	offset := 0.0
	if peak+1 < len(spectrum) {
		// interpolate on log magnitude, which is exact for a Gaussian peak
		// and close for the Hann main lobe
		a := math.Log(spectrum[peak-1] + 1e-300)
		b := math.Log(spectrum[peak])
		c := math.Log(spectrum[peak+1] + 1e-300)
		if d := a - 2*b + c; d < 0 {
			offset = 0.5 * (a - c) / d
		}
	}

	return (float64(peak) + offset) * sampleRate / float64(fftSize), nil
}

// Spectrum returns the magnitudes of bins 0..fftSize/2 of the windowed,
// zero padded stream, along with the transform size.
func Spectrum(samples []funcgen.Sample, sampleRate float64) ([]float64, int, error) {
	if len(samples) < MinSamples {
		return nil, 0, fmt.Errorf("need at least %d samples, got %d", MinSamples, len(samples))
	}
	if math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) || sampleRate <= 0 {
		return nil, 0, errors.New("sample rate must be a positive number")
	}

	mean := 0.0
	for _, s := range samples {
		mean += float64(s)
	}
	mean /= float64(len(samples))

	fftSize := nextPowerOf2(len(samples))
	in := make([]complex128, fftSize)
	n := float64(len(samples))
	for i, s := range samples {
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/(n-1))
		in[i] = complex((float64(s)-mean)*w, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, 0, fmt.Errorf("creating fft plan: %w", err)
	}
	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, 0, fmt.Errorf("running fft: %w", err)
	}

	mags := make([]float64, fftSize/2+1)
	for k := range mags {
		mags[k] = cmplx.Abs(out[k])
	}
	return mags, fftSize, nil
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
