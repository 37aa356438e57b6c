package lofi

import (
	"github.com/cwbudde/algo-lofi/stats/level"
)

// BlockReport summarizes one processed block.
type BlockReport struct {
	Frames int

	PeakIn  float64
	RMSIn   float64
	PeakOut float64
	RMSOut  float64

	// Clipped counts samples the output limiter had to clamp.
	Clipped int
	Latency int
	Macro   float64

	Bypassed bool
}

func (c *Chain) measureIn(r *BlockReport, buf [][]float64, n int) {
	if c.diagnostics == nil {
		return
	}
	r.Frames = n
	r.PeakIn, r.RMSIn = level.Block(buf, n)
}

func (c *Chain) report(r *BlockReport, buf [][]float64, n int) {
	if c.diagnostics == nil {
		return
	}
	r.PeakOut, r.RMSOut = level.Block(buf, n)
	c.diagnostics(*r)
}
