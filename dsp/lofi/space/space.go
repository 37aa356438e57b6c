// Package space is a small algorithmic room: pre-delay, a bank of parallel
// feedback delays with diffusion and damping, a tilt EQ and a wet/dry mix.
package space

import (
	"math"

	"github.com/cwbudde/algo-lofi/dsp/core"
	"github.com/cwbudde/algo-lofi/dsp/delay"
	"github.com/cwbudde/algo-lofi/dsp/filter/biquad"
	"github.com/cwbudde/algo-lofi/dsp/filter/design"
	"github.com/cwbudde/algo-lofi/dsp/lofi/host"
	"github.com/cwbudde/algo-lofi/dsp/lofi/macro"
)

// TapTimesMs are the reverb delay lengths.
var TapTimesMs = [...]float64{41, 67, 103, 139, 191, 229, 283, 337, 389, 443, 509, 571}

const (
	numTaps = len(TapTimesMs)

	maxPreDelayMs = 30.0

	mixTime   = 0.02
	delayTime = 0.02
	toneTime  = 0.04
	roomTime  = 0.08

	minMix = 0.25

	fbMin        = 0.4
	fbRange      = 0.25
	trackRate    = 0.0005
	initFeedback = 0.6
	initDiffuse  = 0.5

	diffuse1     = 0.7
	diffuse2     = 0.5
	diffuseTaps1 = 4
	diffuseTaps2 = 2

	tapGain      = 0.8 / float64(numTaps)
	evenTapBoost = 1.2

	damp2       = 0.88
	widenGain   = -0.8
	wetLimit    = 1.5
	lineLimit   = 4.0
	tiltLowHz   = 200.0
	tiltHighHz  = 4000.0
	tiltQ       = 0.707
	tiltLowDB   = 2.0
	tiltHighDB  = 8.0
	minRTSecond = 1.2
	rtRange     = 4.8
)

type channelState struct {
	pre  delay.Line
	taps [numTaps]delay.Line

	feedback float64
	diffuse  float64
	ap1, ap2 float64
	lp1, lp2 float64

	low  biquad.Section
	high biquad.Section
}

// Space is the reverb module.
type Space struct {
	cfg      core.ProcessorConfig
	prepared bool
	primed   bool

	mix      core.Smoother
	preDelay core.Smoother
	tone     core.Smoother
	rt       core.Smoother
	room     core.Smoother

	mixBuf   []float64
	delayBuf []float64
	wet      []float64

	channels []channelState
}

// New returns an unprepared Space.
func New() *Space {
	return &Space{}
}

// Prepare sizes the delay lines for sampleRate.
func (s *Space) Prepare(sampleRate float64, blockSize, channels int) error {
	cfg := core.ProcessorConfig{SampleRate: sampleRate, BlockSize: blockSize, Channels: channels}
	if err := cfg.Validate(); err != nil {
		s.prepared = false
		return err
	}

	states := make([]channelState, channels)
	preLen := int(math.Ceil(maxPreDelayMs*0.001*sampleRate)) + 2
	for i := range states {
		c := &states[i]
		if err := c.pre.Resize(preLen); err != nil {
			return err
		}
		for k, ms := range TapTimesMs {
			if err := c.taps[k].Resize(max(1, int(ms*0.001*sampleRate))); err != nil {
				return err
			}
		}
	}

	s.mix.SetTimeConstant(sampleRate, mixTime)
	s.preDelay.SetTimeConstant(sampleRate, delayTime)
	s.tone.SetTimeConstant(sampleRate, toneTime)
	s.rt.SetTimeConstant(sampleRate, roomTime)
	s.room.SetTimeConstant(sampleRate, roomTime)

	s.cfg = cfg
	s.channels = states
	s.mixBuf = make([]float64, blockSize)
	s.delayBuf = make([]float64, blockSize)
	s.wet = make([]float64, blockSize)
	s.prepared = true
	s.Reset()
	return nil
}

// Reset clears the room.
func (s *Space) Reset() {
	s.primed = false
	for i := range s.channels {
		c := &s.channels[i]
		c.pre.Reset()
		for k := range c.taps {
			c.taps[k].Reset()
		}
		c.feedback = initFeedback
		c.diffuse = initDiffuse
		c.ap1, c.ap2 = 0, 0
		c.lp1, c.lp2 = 0, 0
		c.low.Reset()
		c.high.Reset()
	}
}

// Shape maps the time control to the decay time in seconds and the room
// size.
func Shape(time float64) (reverbTime, room float64) {
	return minRTSecond + rtRange*time, 0.2 + 0.6*time
}

// Feedback returns the tap feedback for a decay time. It spans [0.4, 0.65]
// over the decay range.
func Feedback(reverbTime float64) float64 {
	return core.Clamp(fbMin+fbRange*(reverbTime-minRTSecond)/rtRange, fbMin, fbMin+fbRange)
}

// Mix returns the effective wet amount after the macro cap.
func Mix(p host.Snapshot, m macro.State) float64 {
	return math.Min(core.Saturate(p.Float(host.SpaceMix)), math.Max(minMix, m.SpaceMixCap))
}

// Tilt returns the low and high shelves for a tone setting in [-1, 1].
func Tilt(tone, sampleRate float64) (low, high biquad.Coefficients) {
	tone = core.Clamp(tone, -1, 1)
	low = design.LowShelf(design.ClampFreq(tiltLowHz, 1, sampleRate), -tiltLowDB*tone, tiltQ, sampleRate)
	high = design.HighShelf(math.Min(tiltHighHz, 0.45*sampleRate), tiltHighDB*tone, tiltQ, sampleRate)
	return low, high
}

// Process blends the room into buf in place.
func (s *Space) Process(buf [][]float64, _ host.Transport, p host.Snapshot, m macro.State) {
	if !s.prepared || p == nil || !p.Bool(host.SpaceOn) {
		return
	}
	n, ok := s.cfg.Accepts(buf)
	if !ok {
		return
	}

	rt, room := Shape(p.Float(host.SpaceTime))
	s.mix.SetTarget(Mix(p, m))
	s.preDelay.SetTarget(core.Clamp(p.Float(host.SpacePreDelay), 0, maxPreDelayMs))
	s.tone.SetTarget(core.Clamp(p.Float(host.SpaceTone), -1, 1))
	s.rt.SetTarget(rt)
	s.room.SetTarget(room)
	if !s.primed {
		for _, sm := range []*core.Smoother{&s.mix, &s.preDelay, &s.tone, &s.rt, &s.room} {
			sm.SetCurrentAndTarget(sm.Target())
		}
		s.primed = true
	}

	mix := s.mixBuf[:n]
	pre := s.delayBuf[:n]
	msToSamples := 0.001 * s.cfg.SampleRate
	for i := range mix {
		mix[i] = s.mix.Next()
		pre[i] = s.preDelay.Next() * msToSamples
	}

	fbTarget := Feedback(s.rt.Current())
	roomNow := s.room.Current()
	diffTarget := 0.6 + 0.2*roomNow
	damp1 := 0.92 + 0.06*roomNow
	low, high := Tilt(s.tone.Current(), s.cfg.SampleRate)
	s.rt.Skip(n)
	s.room.Skip(n)
	s.tone.Skip(n)

	wet := s.wet[:n]
	for ch, data := range buf {
		c := &s.channels[ch]
		c.feedback += (fbTarget - c.feedback) * trackRate
		c.diffuse += (diffTarget - c.diffuse) * trackRate
		c.low.SetCoefficients(low)
		c.high.SetCoefficients(high)

		out := 1.0
		if ch == 1 {
			out = widenGain
		}
		for i, x := range data[:n] {
			c.pre.Write(x)
			y := c.room(c.pre.ReadLinear(pre[i]), damp1) * out
			y = c.high.ProcessSample(c.low.ProcessSample(y))
			if !core.IsFinite(y) {
				y = 0
			}
			wet[i] = core.Clamp(y, -wetLimit, wetLimit)
		}

		for i, x := range data[:n] {
			y := x + (wet[i]-x)*mix[i]
			if !core.IsFinite(y) {
				y = 0
			}
			data[i] = y
		}
	}
}

// room runs one sample through the tap bank and the damping cascade.
func (c *channelState) room(in, damp1 float64) float64 {
	var sum float64
	k1 := c.diffuse * diffuse1
	k2 := c.diffuse * diffuse2
	for k := range c.taps {
		line := &c.taps[k]
		d := line.Read(line.Len() - 1)
		g := tapGain
		if k%2 == 0 {
			g *= evenTapBoost
		}
		sum += d * g

		w := in + d*c.feedback
		if k < diffuseTaps1 {
			a := w + c.ap1*k1
			c.ap1 = w - a*k1
			w = a
			if k < diffuseTaps2 {
				a = w + c.ap2*k2
				c.ap2 = w - a*k2
				w = a
			}
		}
		if !core.IsFinite(w) {
			w = 0
		}
		line.Write(core.Clamp(w, -lineLimit, lineLimit))
	}

	c.lp1 = c.lp1*damp1 + sum*(1-damp1)
	c.lp2 = c.lp2*damp2 + c.lp1*(1-damp2)
	if !core.IsFinite(c.lp2) {
		c.lp1, c.lp2 = 0, 0
		c.ap1, c.ap2 = 0, 0
	}
	return c.lp2
}

// LatencySamples is always zero.
func (s *Space) LatencySamples() int { return 0 }
