// Package interp provides the fractional-sample interpolators used by the
// delay lines and the asset loop player.
package interp
