package digital

import (
	"math"

	"github.com/cwbudde/algo-lofi/dsp/core"
)

const (
	crossoverHz    = 600.0
	lowBoost       = 1.8 * 2.5
	crushedBoost   = 1.5
	cubicBelowBits = 10.0
	cubicAmount    = 0.4
	imdBelowBits   = 6.0
	imdFreq        = 8.0
	imdAmount      = 0.15
	softClipScale  = 0.7
	hiDampHz       = 8000.0
	hiDampMix      = 0.3
	extraDampHz    = 3500.0
	extraDampBits  = 5.0
	extraDampMix   = 0.25
	crushedLimit   = 1.5
	outputLimit    = 1.3

	strobeSmoothing = 0.85
	strobeBlend     = 0.7
	minStrobeInc    = 1e-4
	maxStrobeInc    = 0.95
	jitterScale     = 0.1
	maxJitter       = 0.5
)

// crusherCoeffs are the one-pole coefficients of the character quantizer.
type crusherCoeffs struct {
	hp, hiDamp, extraDamp float64
}

func newCrusherCoeffs(sampleRate float64) crusherCoeffs {
	dt := 1 / sampleRate
	rc := func(hz float64) float64 { return 1 / (2 * math.Pi * hz) }
	return crusherCoeffs{
		hp:        rc(crossoverHz) / (rc(crossoverHz) + dt),
		hiDamp:    dt / (rc(hiDampHz) + dt),
		extraDamp: dt / (rc(extraDampHz) + dt),
	}
}

// crusher is the frequency-selective quantizer: only the band below the
// crossover is boosted and hard-quantized, the highs pass untouched.
type crusher struct {
	hpOut, hpIn float64
	hiDamp      float64
	extraDamp   float64
}

func (c *crusher) reset() { *c = crusher{} }

// step returns the mid-tread step for a bit depth.
func step(bits float64) float64 {
	return 2 / (math.Exp2(bits) - 1)
}

// quantizeAway rounds half away from zero onto the step grid.
func quantizeAway(x, s float64) float64 {
	if x >= 0 {
		return math.Floor(x/s+0.5) * s
	}
	return math.Ceil(x/s-0.5) * s
}

func (c *crusher) process(k crusherCoeffs, x, bits float64) float64 {
	high := k.hp * (c.hpOut + x - c.hpIn)
	c.hpOut = core.FlushDenormals(high)
	c.hpIn = x

	q := quantizeAway((x-high)*lowBoost, step(bits))
	if bits <= cubicBelowBits {
		q += q * q * q * cubicAmount * (1 - bits/cubicBelowBits)
		if bits <= imdBelowBits {
			q += math.Sin(q*imdFreq) * imdAmount * (1 - bits/imdBelowBits)
		}
	}
	q = core.Tanh(q*softClipScale) / softClipScale * crushedBoost

	c.hiDamp = core.FlushDenormals(c.hiDamp + k.hiDamp*(q-c.hiDamp))
	q = q*(1-hiDampMix) + c.hiDamp*hiDampMix

	if bits <= extraDampBits {
		c.extraDamp = core.FlushDenormals(c.extraDamp + k.extraDamp*(q-c.extraDamp))
		q = q*(1-extraDampMix) + c.extraDamp*extraDampMix
	}
	q = core.Clamp(q, -crushedLimit, crushedLimit)

	return core.Clamp(high+q, -outputLimit, outputLimit)
}

// strobe is the phase-accumulator sample-and-hold.
type strobe struct {
	phase   float64
	lastInc float64
	prev    float64
	held    float64
}

func (s *strobe) reset() { *s = strobe{} }

// process advances by inc (already jittered) and returns the held sample.
func (s *strobe) process(x, inc float64) float64 {
	inc = core.Clamp(inc, minStrobeInc, maxStrobeInc)
	s.lastInc = strobeSmoothing*s.lastInc + (1-strobeSmoothing)*inc
	inc = s.lastInc

	s.phase += inc
	if s.phase >= 1 {
		frac := (s.phase - 1) / inc
		s.held = s.prev + (x-s.prev)*(1-frac)*strobeBlend + (1-strobeBlend)*x
		s.phase = math.Mod(s.phase, 1)
	}
	s.prev = x
	return s.held
}
