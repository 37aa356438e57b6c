package core

import "math"

// smootherSnap is the distance below which a Smoother jumps onto its target.
const smootherSnap = 1e-6

// Smoother is an exponential one-pole parameter smoother.
//
// Each step moves current a fixed fraction of the remaining distance toward
// target, so current approaches target monotonically and never overshoots.
// The zero value passes targets through without smoothing.
type Smoother struct {
	coeff   float64
	current float64
	target  float64
}

// NewSmoother returns a smoother with the given time constant in seconds,
// starting at initial.
func NewSmoother(sampleRate, timeConstant, initial float64) Smoother {
	s := Smoother{current: initial, target: initial}
	s.SetTimeConstant(sampleRate, timeConstant)
	return s
}

// SetTimeConstant updates the time constant without touching the values.
func (s *Smoother) SetTimeConstant(sampleRate, timeConstant float64) {
	s.coeff = OnePoleCoeff(timeConstant, sampleRate)
}

// SetTarget sets the value the smoother converges to.
func (s *Smoother) SetTarget(v float64) {
	if !IsFinite(v) {
		return
	}
	s.target = v
}

// SetCurrentAndTarget jumps immediately to v.
func (s *Smoother) SetCurrentAndTarget(v float64) {
	if !IsFinite(v) {
		return
	}
	s.current = v
	s.target = v
}

// Next advances one sample and returns the new current value.
func (s *Smoother) Next() float64 {
	if s.current == s.target {
		return s.current
	}
	s.current = s.target + (s.current-s.target)*s.coeff
	if math.Abs(s.current-s.target) < smootherSnap {
		s.current = s.target
	}
	return s.current
}

// Skip advances n samples at once and returns the new current value.
func (s *Smoother) Skip(n int) float64 {
	if n <= 0 || s.current == s.target {
		return s.current
	}
	s.current = s.target + (s.current-s.target)*math.Pow(s.coeff, float64(n))
	if math.Abs(s.current-s.target) < smootherSnap {
		s.current = s.target
	}
	return s.current
}

// Current returns the present smoothed value.
func (s *Smoother) Current() float64 { return s.current }

// Target returns the value being approached.
func (s *Smoother) Target() float64 { return s.target }

// IsSmoothing reports whether current has not yet reached target.
func (s *Smoother) IsSmoothing() bool { return s.current != s.target }
