// Package level measures block and file levels: peak, RMS, crest factor,
// DC offset and clipping.
package level

import (
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// Stats holds level statistics of one signal.
//
//nolint:revive
type Stats struct {
	Length         int
	Peak           float64
	Peak_dB        float64
	RMS            float64
	RMS_dB         float64
	CrestFactor_dB float64
	DC             float64
	Energy         float64
	ZeroCrossings  int
	// Clipped counts samples at or beyond full scale.
	Clipped int
}

// ToDB converts an amplitude to decibels. Returns -Inf for zero.
func ToDB(amplitude float64) float64 {
	a := math.Abs(amplitude)
	if a == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(a)
}

// Peak returns the largest absolute sample.
func Peak(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	return vecmath.MaxAbs(signal)
}

// Energy returns the sum of squares.
func Energy(signal []float64) float64 {
	return vecmath.DotProduct(signal, signal)
}

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	return math.Sqrt(Energy(signal) / float64(len(signal)))
}

// Block returns the peak and RMS over the first n frames of every channel.
func Block(buf [][]float64, n int) (peak, rms float64) {
	if n <= 0 || len(buf) == 0 {
		return 0, 0
	}
	var energy float64
	for _, ch := range buf {
		x := ch[:n]
		peak = math.Max(peak, Peak(x))
		energy += Energy(x)
	}
	return peak, math.Sqrt(energy / float64(n*len(buf)))
}

// Calculate computes all statistics of signal.
func Calculate(signal []float64) Stats {
	n := len(signal)
	if n == 0 {
		return Stats{
			Peak_dB:        math.Inf(-1),
			RMS_dB:         math.Inf(-1),
			CrestFactor_dB: math.Inf(-1),
		}
	}

	energy := Energy(signal)
	peak := Peak(signal)
	rms := math.Sqrt(energy / float64(n))

	var crossings, clipped int
	for i, x := range signal {
		if i > 0 && signal[i-1]*x < 0 {
			crossings++
		}
		if math.Abs(x) >= 1 {
			clipped++
		}
	}

	crest := math.Inf(-1)
	if rms > 0 {
		crest = ToDB(peak / rms)
	}

	return Stats{
		Length:         n,
		Peak:           peak,
		Peak_dB:        ToDB(peak),
		RMS:            rms,
		RMS_dB:         ToDB(rms),
		CrestFactor_dB: crest,
		DC:             vecmath.Sum(signal) / float64(n),
		Energy:         energy,
		ZeroCrossings:  crossings,
		Clipped:        clipped,
	}
}
