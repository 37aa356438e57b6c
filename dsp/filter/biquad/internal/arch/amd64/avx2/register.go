//go:build amd64 && !purego

// Package avx2 registers the block kernel used on AVX2-class CPUs.
//
// The lofi modules spend long stretches filtering silence and reverb tails,
// so this kernel also flushes subnormal delay state at the end of a block.
// Subnormal arithmetic is slow on these cores and inaudible.
package avx2

import (
	"github.com/cwbudde/algo-lofi/dsp/core"
	"github.com/cwbudde/algo-lofi/dsp/filter/biquad/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:         "avx2-ftz",
		SIMDLevel:    cpu.SIMDAVX2,
		Priority:     20,
		ProcessBlock: processBlock,
	})
}

// processBlock runs the transposed direct form two samples per iteration.
func processBlock(c registry.Coefficients, d0, d1 float64, buf []float64) (newD0, newD1 float64) {
	for len(buf) >= 2 {
		pair := buf[:2:2]
		x0, x1 := pair[0], pair[1]

		y0 := c.B0*x0 + d0
		s0 := c.B1*x0 - c.A1*y0 + d1
		s1 := c.B2*x0 - c.A2*y0

		y1 := c.B0*x1 + s0
		d0 = c.B1*x1 - c.A1*y1 + s1
		d1 = c.B2*x1 - c.A2*y1

		pair[0], pair[1] = y0, y1
		buf = buf[2:]
	}
	if len(buf) == 1 {
		x := buf[0]
		y := c.B0*x + d0
		d0 = c.B1*x - c.A1*y + d1
		d1 = c.B2*x - c.A2*y
		buf[0] = y
	}
	return core.FlushDenormals(d0), core.FlushDenormals(d1)
}
