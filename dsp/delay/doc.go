// Package delay provides a fixed-capacity circular delay line with integer,
// linear and cubic Hermite fractional reads.
package delay
