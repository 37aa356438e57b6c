// Package dither implements a mid-tread quantizer with TPDF dither and
// error-feedback noise shaping for fractional bit depths.
//
// It is the clean, textbook counterpart to the character quantizer in the
// lo-fi digital module: noise is triangular with a peak of half a step,
// rounding is symmetric, and below a configurable bit depth the previous
// quantization error is fed back through a [NoiseShaper].
package dither
