//go:build fastmath

package core

import "github.com/meko-christian/algo-approx"

// Tanh evaluates 1 - 2/(e^2x + 1) with the fast exponential.
func Tanh(x float64) float64 {
	return 1 - 2/(approx.FastExp(2*x)+1)
}
