package core

import "math"

const defaultEpsilon = 1e-12

// denormalThreshold is the magnitude below which samples are treated as zero.
const denormalThreshold = 1e-30

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// Saturate clamps x to [0, 1]. NaN maps to 0.
func Saturate(x float64) float64 {
	if !(x > 0) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Lerp interpolates linearly between a and b by t. t is not clamped.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Ease is the saturating smoothstep x²(3−2x) evaluated on Saturate(x).
func Ease(x float64) float64 {
	x = Saturate(x)
	return x * x * (3 - 2*x)
}

// Ease2 applies Ease twice, giving a steeper knee around the midpoint.
func Ease2(x float64) float64 {
	return Ease(Ease(x))
}

// IsFinite reports whether x is neither NaN nor ±Inf.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// FlushDenormals converts tiny denormal-like values to exact zero.
func FlushDenormals(x float64) float64 {
	if x > -denormalThreshold && x < denormalThreshold {
		return 0
	}

	return x
}

// Sanitize maps NaN and ±Inf to 0 and flushes denormals.
func Sanitize(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return FlushDenormals(x)
}

// SanitizeBlock applies Sanitize to every sample of buf in place.
func SanitizeBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = Sanitize(x)
	}
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}

// OnePoleCoeff returns the feedback coefficient exp(-1/(tau*sampleRate))
// of a one-pole smoother with time constant tau in seconds. A non-positive
// tau or sample rate yields 0, i.e. no smoothing.
func OnePoleCoeff(tau, sampleRate float64) float64 {
	if tau <= 0 || sampleRate <= 0 || !IsFinite(tau) || !IsFinite(sampleRate) {
		return 0
	}
	return math.Exp(-1 / (tau * sampleRate))
}
