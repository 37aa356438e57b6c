// Package window provides the analysis windows used by the measurement
// packages.
package window

import (
	"fmt"
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

// The zero value is Hann.
const (
	TypeHann Type = iota
	TypeRectangular
	TypeBlackmanHarris4Term
	TypeFlatTop
)

var names = [...]string{"hann", "rectangular", "blackman-harris", "flattop"}

func (t Type) String() string {
	if t >= 0 && int(t) < len(names) {
		return names[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Parse resolves a window name.
func Parse(name string) (Type, error) {
	for i, n := range names {
		if n == name {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("window: unknown window %q", name)
}

var cosineTerms = [...][]float64{
	TypeRectangular:         {1},
	TypeHann:                {0.5, -0.5},
	TypeBlackmanHarris4Term: {0.35875, -0.48829, 0.14128, -0.01168},
	TypeFlatTop:             {0.21557895, -0.41663158, 0.277263158, -0.083578947, 0.006947368},
}

// MainLobeBins is the half-width of the main lobe in FFT bins, i.e. the
// distance to the first zero of the window spectrum.
func (t Type) MainLobeBins() int {
	switch t {
	case TypeRectangular:
		return 1
	case TypeHann:
		return 2
	case TypeBlackmanHarris4Term:
		return 4
	case TypeFlatTop:
		return 5
	}
	return 2
}

// Generate returns the symmetric window of the given length. Unknown types
// fall back to Hann.
func Generate(t Type, length int) []float64 {
	return generate(t, length, length-1)
}

// Periodic returns the DFT-even window of the given length, the variant
// used for spectral analysis.
func Periodic(t Type, length int) []float64 {
	return generate(t, length, length)
}

func generate(t Type, length, period int) []float64 {
	if length <= 0 {
		return nil
	}
	if t < 0 || int(t) >= len(cosineTerms) {
		t = TypeHann
	}
	out := make([]float64, length)
	if length == 1 {
		out[0] = 1
		return out
	}
	terms := cosineTerms[t]
	den := float64(period)
	for n := range out {
		phase := 2 * math.Pi * float64(n) / den
		var sum float64
		for k, c := range terms {
			sum += c * math.Cos(float64(k)*phase)
		}
		out[n] = sum
	}
	return out
}

// Apply multiplies buf by coeffs in place. The lengths must match.
func Apply(buf, coeffs []float64) error {
	if len(buf) != len(coeffs) {
		return fmt.Errorf("window: length mismatch: %d != %d", len(buf), len(coeffs))
	}
	vecmath.MulBlockInPlace(buf, coeffs)
	return nil
}

// CoherentGain returns the mean of the window, the amplitude a bin-centred
// sine keeps after windowing.
func CoherentGain(coeffs []float64) float64 {
	if len(coeffs) == 0 {
		return 0
	}
	return vecmath.Sum(coeffs) / float64(len(coeffs))
}
