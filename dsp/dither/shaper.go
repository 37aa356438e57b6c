package dither

// NoiseShaper feeds past quantization error back into the output. The
// quantizer calls it once per sample:
//
//	q := quantize(x + dither)
//	out := shaper.Shape(q)
//	shaper.RecordError(q - x)
type NoiseShaper interface {
	Shape(input float64) float64
	RecordError(quantizationError float64)
	Reset()
}

// FIRShaper subtracts a weighted history of past errors from the input.
type FIRShaper struct {
	coeffs  []float64
	history []float64
	pos     int
}

// newFIRShaper returns a shaper with the given feedback coefficients;
// coeffs[0] weights the most recent error. Empty coeffs pass through.
func newFIRShaper(coeffs []float64) *FIRShaper {
	c := append([]float64(nil), coeffs...)
	return &FIRShaper{coeffs: c, history: make([]float64, len(c))}
}

// FirstOrder returns the single-tap shaper e[n] = k * error[n-1].
func FirstOrder(k float64) *FIRShaper {
	return newFIRShaper([]float64{k})
}

// Shape subtracts the weighted error history from input.
func (s *FIRShaper) Shape(input float64) float64 {
	n := len(s.coeffs)
	for i := 0; i < n; i++ {
		idx := s.pos - i
		if idx < 0 {
			idx += n
		}
		input -= s.coeffs[i] * s.history[idx]
	}
	return input
}

// RecordError stores the error of the current sample.
func (s *FIRShaper) RecordError(quantizationError float64) {
	n := len(s.coeffs)
	if n == 0 {
		return
	}
	s.pos++
	if s.pos == n {
		s.pos = 0
	}
	s.history[s.pos] = quantizationError
}

// Reset clears the error history.
func (s *FIRShaper) Reset() {
	clear(s.history)
	s.pos = 0
}
