package interp

// Linear interpolates between x0 and x1 at fraction t in [0, 1].
func Linear(t, x0, x1 float64) float64 {
	return x0 + (x1-x0)*t
}

// Hermite4 is the 4-point, 3rd-order Hermite interpolator evaluated between
// x0 and x1 at fraction t in [0, 1]. xm1 precedes x0 and x2 follows x1.
func Hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)
	return ((c3*t+c2)*t+c1)*t + c0
}
