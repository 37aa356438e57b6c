// Package spectral summarizes the shape of a magnitude spectrum. It is used
// to quantify how much a processed signal has been darkened or smeared.
package spectral

import (
	"math"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/pkg/errors"

	"github.com/cwbudde/algo-lofi/dsp/window"
)

// RolloffFraction is the share of energy below the rolloff frequency.
const RolloffFraction = 0.85

// Shape holds spectral shape descriptors of a one-sided magnitude spectrum.
type Shape struct {
	Centroid float64 // magnitude weighted mean frequency (Hz)
	Spread   float64 // standard deviation around the centroid (Hz)
	Flatness float64 // geometric over arithmetic mean, 0..1
	Rolloff  float64 // frequency below RolloffFraction of the energy (Hz)
}

// binFreq returns the frequency of bin i of a spectrum with bins entries
// from DC to Nyquist.
func binFreq(i int, sampleRate float64, bins int) float64 {
	return float64(i) * sampleRate / float64(2*(bins-1))
}

// Describe computes the shape of magnitude, which runs from DC to Nyquist
// on a linear scale. Spectra with fewer than two bins or no energy give a
// zero Shape.
func Describe(magnitude []float64, sampleRate float64) Shape {
	n := len(magnitude)
	if n < 2 {
		return Shape{}
	}
	var sum, energy float64
	for _, v := range magnitude {
		sum += v
		energy += v * v
	}
	if sum == 0 {
		return Shape{}
	}

	var s Shape
	for i, v := range magnitude {
		s.Centroid += binFreq(i, sampleRate, n) * v
	}
	s.Centroid /= sum

	var sq float64
	for i, v := range magnitude {
		d := binFreq(i, sampleRate, n) - s.Centroid
		sq += d * d * v
	}
	s.Spread = math.Sqrt(sq / sum)
	s.Flatness = flatness(magnitude)

	threshold := RolloffFraction * energy
	s.Rolloff = binFreq(n-1, sampleRate, n)
	var cum float64
	for i, v := range magnitude {
		cum += v * v
		if cum >= threshold {
			s.Rolloff = binFreq(i, sampleRate, n)
			break
		}
	}
	return s
}

// flatness skips the DC bin. A zero bin makes the geometric mean zero.
func flatness(magnitude []float64) float64 {
	var lin, logSum float64
	for _, v := range magnitude[1:] {
		if v <= 0 {
			return 0
		}
		lin += v
		logSum += math.Log(v)
	}
	bins := float64(len(magnitude) - 1)
	return math.Exp(logSum/bins) / (lin / bins)
}

// Welch returns the averaged magnitude spectrum of signal over Hann
// windowed frames of fftSize samples with 50% overlap. The result has
// fftSize/2+1 bins.
func Welch(signal []float64, fftSize int) ([]float64, error) {
	if fftSize < 16 || fftSize&(fftSize-1) != 0 {
		return nil, errors.Errorf("fft size must be a power of 2 >= 16: %d", fftSize)
	}
	if len(signal) < fftSize {
		return nil, errors.Errorf("signal too short: %d < %d samples", len(signal), fftSize)
	}
	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to plan fft")
	}

	win := window.Periodic(window.TypeHann, fftSize)
	in := make([]complex128, fftSize)
	out := make([]complex128, fftSize)
	power := make([]float64, fftSize/2+1)
	frames := 0
	for start := 0; start+fftSize <= len(signal); start += fftSize / 2 {
		for i, x := range signal[start : start+fftSize] {
			in[i] = complex(x*win[i], 0)
		}
		if err := plan.Forward(out, in); err != nil {
			return nil, errors.Wrap(err, "fft failed")
		}
		for k := range power {
			re, im := real(out[k]), imag(out[k])
			power[k] += re*re + im*im
		}
		frames++
	}

	for k, p := range power {
		power[k] = math.Sqrt(p / float64(frames))
	}
	return power, nil
}

// Analyze is Welch followed by Describe.
func Analyze(signal []float64, sampleRate float64, fftSize int) (Shape, error) {
	mag, err := Welch(signal, fftSize)
	if err != nil {
		return Shape{}, err
	}
	return Describe(mag, sampleRate), nil
}
