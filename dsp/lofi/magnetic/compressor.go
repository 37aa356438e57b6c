package magnetic

import "github.com/cwbudde/algo-lofi/dsp/core"

const (
	attackPole    = 0.9
	releasePole   = 0.9995
	envPole       = 0.99
	grPole        = 0.999
	maxThreshold  = 0.05
	thresholdSpan = 0.048
	minRatio      = 6.0
	ratioSpan     = 24.0
	maxReduction  = 0.95
	makeup        = 1.2
)

// compressor is a deliberately slow, heavy compressor whose smoothed gain
// reduction pumps audibly.
type compressor struct {
	env1, env2 float64
	gr         float64
}

func (c *compressor) reset() { *c = compressor{} }

func (c *compressor) process(x, amount float64) float64 {
	if amount <= 0 {
		return x
	}
	level := x
	if level < 0 {
		level = -level
	}
	a := releasePole
	if level > c.env1 {
		a = attackPole
	}
	c.env1 = core.FlushDenormals(a*c.env1 + (1-a)*level)
	c.env2 = core.FlushDenormals(envPole*c.env2 + (1-envPole)*c.env1)

	threshold := maxThreshold - amount*thresholdSpan
	ratio := minRatio + amount*ratioSpan

	gr := 0.0
	if over := c.env2 - threshold; over > 0 {
		gr = min(over-over/ratio, maxReduction)
	}
	gr *= amount
	c.gr = core.FlushDenormals(grPole*c.gr + (1-grPole)*gr)

	y := x * (1 - c.gr) * (1 + makeup*c.gr)
	if !core.IsFinite(y) {
		return x
	}
	return y
}
