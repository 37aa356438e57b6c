package design

import (
	"math"

	"github.com/cwbudde/algo-lofi/dsp/filter/biquad"
)

// ButterworthQ is the quality factor of a second-order Butterworth section.
const ButterworthQ = 1 / math.Sqrt2

// maxNyquistFraction keeps swept cutoffs safely below Nyquist.
const maxNyquistFraction = 0.499

// ClampFreq limits freq to [minHz, 0.499*sampleRate]. minHz below 1e-3 Hz
// is raised to 1e-3 Hz.
func ClampFreq(freq, minHz, sampleRate float64) float64 {
	if minHz < 1e-3 {
		minHz = 1e-3
	}
	hi := maxNyquistFraction * sampleRate
	if math.IsNaN(freq) {
		return minHz
	}
	return math.Max(minHz, math.Min(freq, hi))
}

// Lowpass designs an RBJ lowpass at freq (Hz) with quality factor q.
func Lowpass(freq, q, sampleRate float64) biquad.Coefficients {
	cw, alpha, ok := rbjTerms(freq, q, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	b0 := (1 - cw) / 2
	return normalizeBiquad(b0, 1-cw, b0, 1+alpha, -2*cw, 1-alpha)
}

// Highpass designs an RBJ highpass at freq (Hz) with quality factor q.
func Highpass(freq, q, sampleRate float64) biquad.Coefficients {
	cw, alpha, ok := rbjTerms(freq, q, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	b0 := (1 + cw) / 2
	return normalizeBiquad(b0, -(1 + cw), b0, 1+alpha, -2*cw, 1-alpha)
}

// Peak designs a peaking EQ section with gain in dB.
func Peak(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	cw, alpha, ok := rbjTerms(freq, q, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	a := math.Pow(10, gainDB/40)
	return normalizeBiquad(
		1+alpha*a, -2*cw, 1-alpha*a,
		1+alpha/a, -2*cw, 1-alpha/a,
	)
}

// LowShelf designs a low-shelf section with gain in dB.
func LowShelf(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	cw, alpha, ok := rbjTerms(freq, q, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	a := math.Pow(10, gainDB/40)
	beta := 2 * math.Sqrt(a) * alpha

	return normalizeBiquad(
		a*((a+1)-(a-1)*cw+beta),
		2*a*((a-1)-(a+1)*cw),
		a*((a+1)-(a-1)*cw-beta),
		(a+1)+(a-1)*cw+beta,
		-2*((a-1)+(a+1)*cw),
		(a+1)+(a-1)*cw-beta,
	)
}

// HighShelf designs a high-shelf section with gain in dB.
func HighShelf(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	cw, alpha, ok := rbjTerms(freq, q, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	a := math.Pow(10, gainDB/40)
	beta := 2 * math.Sqrt(a) * alpha

	return normalizeBiquad(
		a*((a+1)+(a-1)*cw+beta),
		-2*a*((a-1)+(a+1)*cw),
		a*((a+1)+(a-1)*cw-beta),
		(a+1)-(a-1)*cw+beta,
		2*((a-1)-(a+1)*cw),
		(a+1)-(a-1)*cw-beta,
	)
}

// HighShelfLinear is HighShelf with the shelf gain given as a linear factor.
// Non-positive gains yield the zero coefficients.
func HighShelfLinear(freq, gain, q, sampleRate float64) biquad.Coefficients {
	if gain <= 0 {
		return biquad.Coefficients{}
	}
	return HighShelf(freq, 20*math.Log10(gain), q, sampleRate)
}

func rbjTerms(freq, q, sampleRate float64) (cw, alpha float64, ok bool) {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return 0, 0, false
	}
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		q = ButterworthQ
	}
	return math.Cos(w0), math.Sin(w0) / (2 * q), true
}

func normalizedW0(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, false
	}

	if freq <= 0 || freq >= sampleRate/2 || math.IsNaN(freq) || math.IsInf(freq, 0) {
		return 0, false
	}

	return 2 * math.Pi * freq / sampleRate, true
}

func normalizeBiquad(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return biquad.Coefficients{}
	}

	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
