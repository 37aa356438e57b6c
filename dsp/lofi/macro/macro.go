// Package macro turns the single "really cheap" control into the bounded
// modulation scalars the lo-fi modules read.
//
// The scalars are caps and adders. Modules combine them with their own
// explicit controls; the macro never overwrites a parameter.
package macro

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-lofi/dsp/core"
	"github.com/cwbudde/algo-lofi/dsp/lofi/host"
)

const (
	// DefaultMacro is the smoothed value after Reset.
	DefaultMacro = 0.3

	smoothingTime = 0.02
)

// State is the macro output for one block. It is passed by value.
type State struct {
	Smoothed float64

	WobbleDepthGain   float64
	WobbleFlutterGain float64
	MagneticCompGain  float64
	MagneticSatGain   float64
	DistortDriveAddDB float64
	DigitalBitsFloor  float64
	DigitalSRFloorHz  float64
	SpaceMixCap       float64
	NoiseLevelAddDB   float64
	NoiseAgeGain      float64
}

// Neutral returns the state at m = 0.
func Neutral() State { return Curves(0) }

// Curves evaluates every scalar for macro value m. m is clamped to [0, 1].
func Curves(m float64) State {
	m = core.Saturate(m)
	s := State{
		Smoothed:          m,
		WobbleDepthGain:   core.Lerp(1, 2, core.Ease2((m-0.15)/0.85)),
		WobbleFlutterGain: core.Lerp(1, 2.5, core.Ease((m-0.35)/0.65)),
		MagneticCompGain:  core.Lerp(1, 2, core.Ease((m-0.25)/0.75)),
		MagneticSatGain:   core.Lerp(1, 1.8, core.Ease2((m-0.25)/0.75)),
		DigitalBitsFloor:  16,
		DigitalSRFloorHz:  44100,
		SpaceMixCap:       0.10,
		NoiseLevelAddDB:   6 * core.Ease(m),
		NoiseAgeGain:      1,
	}
	if m > 0.4 {
		s.DistortDriveAddDB = 12 * core.Ease((m-0.4)/0.6)
	}
	if m > 0.6 {
		s.DigitalBitsFloor = math.Max(6, 16-10*core.Ease((m-0.6)/0.4))
	}
	if m > 0.5 {
		s.DigitalSRFloorHz = math.Max(8000, 44100-28100*core.Ease((m-0.5)/0.5))
		s.NoiseAgeGain = core.Lerp(1, 1.3, core.Ease((m-0.5)/0.5))
	}
	if m > 0.35 {
		s.SpaceMixCap = core.Lerp(0.10, 0.25, core.Ease((m-0.35)/0.65))
	}
	return s
}

// Controller smooths the macro parameter and derives State once per block.
type Controller struct {
	sampleRate float64
	blockSize  int
	smoother   core.Smoother
	state      State
}

// NewController returns a controller in its reset state. Prepare must be
// called before Tick smooths anything.
func NewController() *Controller {
	c := &Controller{}
	c.Reset()
	return c
}

// Prepare sets the sample rate and maximum block size.
func (c *Controller) Prepare(sampleRate float64, blockSize int) error {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("macro: sample rate must be > 0: %f", sampleRate)
	}
	if blockSize <= 0 {
		return fmt.Errorf("macro: block size must be > 0: %d", blockSize)
	}
	c.sampleRate = sampleRate
	c.blockSize = blockSize
	c.smoother.SetTimeConstant(sampleRate, smoothingTime)
	return nil
}

// Reset returns the smoothed value to DefaultMacro.
func (c *Controller) Reset() {
	c.smoother.SetCurrentAndTarget(DefaultMacro)
	c.state = Curves(DefaultMacro)
}

// Tick reads the macro parameter, advances the smoother by blockLen samples
// and returns the new state.
func (c *Controller) Tick(p host.Snapshot, blockLen int) State {
	if p != nil {
		c.smoother.SetTarget(core.Saturate(p.Float(host.Macro)))
	}
	if c.sampleRate > 0 {
		c.smoother.Skip(blockLen)
	} else {
		c.smoother.SetCurrentAndTarget(c.smoother.Target())
	}
	c.state = Curves(c.smoother.Current())
	return c.state
}

// State returns the most recent state.
func (c *Controller) State() State { return c.state }
