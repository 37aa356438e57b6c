//go:build !fastmath

package core

import "math"

// Tanh is the hyperbolic tangent used by the saturation stages.
func Tanh(x float64) float64 {
	return math.Tanh(x)
}
