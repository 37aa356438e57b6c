// Package testutil holds deterministic signal generators and assertion
// helpers shared by the package tests.
package testutil

import (
	"math"
	"math/rand/v2"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates uniform white noise in [-amplitude, amplitude]
// from a fixed seed.
func DeterministicNoise(seed uint64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Channels returns independent copies of each signal as a planar buffer.
func Channels(signals ...[]float64) [][]float64 {
	out := make([][]float64, len(signals))
	for i, s := range signals {
		out[i] = append([]float64(nil), s...)
	}
	return out
}

// Duplicate returns n independent copies of signal as a planar buffer.
func Duplicate(signal []float64, n int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = append([]float64(nil), signal...)
	}
	return out
}

// Blocks calls fn with consecutive block-sized windows of every channel in
// buf. The last window may be shorter.
func Blocks(buf [][]float64, block int, fn func(win [][]float64)) {
	if len(buf) == 0 || block <= 0 {
		return
	}
	win := make([][]float64, len(buf))
	n := len(buf[0])
	for start := 0; start < n; start += block {
		end := min(start+block, n)
		for ch := range buf {
			win[ch] = buf[ch][start:end]
		}
		fn(win)
	}
}

// RMS returns the root-mean-square level of x.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

// Peak returns the largest absolute sample in x.
func Peak(x []float64) float64 {
	p := 0.0
	for _, v := range x {
		p = math.Max(p, math.Abs(v))
	}
	return p
}
