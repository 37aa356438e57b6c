// Package magnetic models tape coloration: pumping compression, emphasized
// saturation, head bump, high-frequency wear, hiss and stereo crosstalk.
package magnetic

import (
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-lofi/dsp/core"
	"github.com/cwbudde/algo-lofi/dsp/filter/biquad"
	"github.com/cwbudde/algo-lofi/dsp/filter/design"
	"github.com/cwbudde/algo-lofi/dsp/lofi/host"
	"github.com/cwbudde/algo-lofi/dsp/lofi/macro"
)

const (
	smoothingTime = 0.03

	emphasisHz = 2000.0
	emphasisQ  = 0.707
	emphasisDB = 6.0
	satDrive   = 9.0
	satScale   = 0.7

	headBumpMinHz = 40.0
	headBumpMaxHz = 120.0
	headBumpMaxDB = 12.0
	headBumpQ     = 0.7

	wearMaxHz   = 20000.0
	wearRangeHz = 17000.0
	wearMinHz   = 3000.0

	hissScale    = 0.003
	hissEmphasis = 0.5

	crosstalkBleed = 0.4
	crosstalkDelay = 4
	crosstalkRing  = 8
)

type channelState struct {
	comp compressor
	pre  biquad.Section
	de   biquad.Section
	bump biquad.Section
	wear biquad.Section

	noiseInit vecmath.DitherState
	noise     vecmath.DitherState
	// ring holds the last pre-bleed output samples for crosstalk.
	ring [crosstalkRing]float64
}

// Magnetic is the tape coloration module.
type Magnetic struct {
	cfg      core.ProcessorConfig
	prepared bool
	primed   bool
	seed     int64

	comp      core.Smoother
	sat       core.Smoother
	crosstalk core.Smoother
	headBump  core.Smoother
	wear      core.Smoother

	compBuf  []float64
	satBuf   []float64
	noiseBuf []float64
	ringPos  int

	channels []channelState
}

// New returns an unprepared Magnetic.
func New(opts ...Option) (*Magnetic, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	return &Magnetic{seed: cfg.seed}, nil
}

// Prepare allocates per-channel state.
func (g *Magnetic) Prepare(sampleRate float64, blockSize, channels int) error {
	cfg := core.ProcessorConfig{SampleRate: sampleRate, BlockSize: blockSize, Channels: channels}
	if err := cfg.Validate(); err != nil {
		g.prepared = false
		return err
	}

	emphasis := design.ClampFreq(emphasisHz, 1, sampleRate)
	pre := design.HighShelf(emphasis, emphasisDB, emphasisQ, sampleRate)
	de := design.HighShelf(emphasis, -emphasisDB, emphasisQ, sampleRate)
	states := make([]channelState, channels)
	for i := range states {
		states[i].pre.SetCoefficients(pre)
		states[i].de.SetCoefficients(de)
		states[i].noiseInit = *vecmath.NewDitherState(g.seed + int64(i))
	}

	for _, s := range []*core.Smoother{&g.comp, &g.sat, &g.crosstalk, &g.headBump, &g.wear} {
		s.SetTimeConstant(sampleRate, smoothingTime)
	}

	g.cfg = cfg
	g.channels = states
	g.compBuf = make([]float64, blockSize)
	g.satBuf = make([]float64, blockSize)
	g.noiseBuf = make([]float64, blockSize)
	g.prepared = true
	g.Reset()
	return nil
}

// Reset clears filter and envelope state. The smoothed controls start at
// the parameter defaults and jump to the live values on the next Process.
func (g *Magnetic) Reset() {
	g.primed = false
	def := host.Defaults()
	g.comp.SetCurrentAndTarget(def.Float(host.MagneticComp))
	g.sat.SetCurrentAndTarget(def.Float(host.MagneticSat))
	g.crosstalk.SetCurrentAndTarget(def.Float(host.MagneticCrosstalk))
	g.headBump.SetCurrentAndTarget(def.Float(host.MagneticHeadBump))
	g.wear.SetCurrentAndTarget(def.Float(host.MagneticWear))
	g.ringPos = 0

	bump := headBumpCoeffs(g.headBump.Current(), g.cfg.SampleRate)
	wear := wearCoeffs(g.wear.Current(), g.cfg.SampleRate)
	for i := range g.channels {
		c := &g.channels[i]
		c.comp.reset()
		c.pre.Reset()
		c.de.Reset()
		c.bump.Reset()
		c.bump.SetCoefficients(bump)
		c.wear.Reset()
		c.wear.SetCoefficients(wear)
		c.noise = c.noiseInit
		c.ring = [crosstalkRing]float64{}
	}
}

// headBumpCoeffs returns the low shelf for a head bump frequency. The gain
// rises with frequency: 0 dB at 40 Hz, 12 dB at 120 Hz.
func headBumpCoeffs(freq, sampleRate float64) biquad.Coefficients {
	freq = core.Clamp(freq, headBumpMinHz, headBumpMaxHz)
	gain := (freq - headBumpMinHz) / (headBumpMaxHz - headBumpMinHz) * headBumpMaxDB
	return design.LowShelf(design.ClampFreq(freq, 1, sampleRate), gain, headBumpQ, sampleRate)
}

// WearCutoff returns the wear low-pass cutoff for a wear amount.
func WearCutoff(wear, sampleRate float64) float64 {
	hz := core.Clamp(wearMaxHz-wear*wearRangeHz, wearMinHz, wearMaxHz)
	return math.Min(hz, 0.45*sampleRate)
}

func wearCoeffs(wear, sampleRate float64) biquad.Coefficients {
	return design.Lowpass(design.ClampFreq(WearCutoff(wear, sampleRate), 1, sampleRate), design.ButterworthQ, sampleRate)
}

// HissLevel returns the peak hiss amplitude for a wear amount.
func HissLevel(wear float64) float64 {
	return wear * wear * hissScale * (1 + hissEmphasis*wear)
}

// Process colors buf in place.
func (g *Magnetic) Process(buf [][]float64, _ host.Transport, p host.Snapshot, m macro.State) {
	if !g.prepared || p == nil || !p.Bool(host.MagneticOn) {
		return
	}
	n, ok := g.cfg.Accepts(buf)
	if !ok {
		return
	}

	g.comp.SetTarget(math.Min(p.Float(host.MagneticComp)*m.MagneticCompGain, 1))
	g.sat.SetTarget(math.Min(p.Float(host.MagneticSat)*m.MagneticSatGain, 1))
	g.crosstalk.SetTarget(core.Saturate(p.Float(host.MagneticCrosstalk)))
	g.headBump.SetTarget(p.Float(host.MagneticHeadBump))
	g.wear.SetTarget(core.Saturate(p.Float(host.MagneticWear)))
	if !g.primed {
		for _, s := range []*core.Smoother{&g.comp, &g.sat, &g.crosstalk, &g.headBump, &g.wear} {
			s.SetCurrentAndTarget(s.Target())
		}
		g.primed = true
	}

	comp := g.compBuf[:n]
	sat := g.satBuf[:n]
	for i := range comp {
		comp[i] = g.comp.Next()
		sat[i] = g.sat.Next()
	}

	bump := headBumpCoeffs(g.headBump.Current(), g.cfg.SampleRate)
	wearAmt := g.wear.Current()
	wear := wearCoeffs(wearAmt, g.cfg.SampleRate)
	hiss := HissLevel(wearAmt)
	g.headBump.Skip(n)
	g.wear.Skip(n)

	noise := g.noiseBuf[:n]
	for ch, data := range buf {
		c := &g.channels[ch]
		c.bump.SetCoefficients(bump)
		c.wear.SetCoefficients(wear)
		if hiss > 0 {
			vecmath.GenerateTPDF(noise, hiss, &c.noise)
		}

		for i, x := range data[:n] {
			y := c.comp.process(x, comp[i])
			y = c.saturate(y, sat[i])
			y = guard(c.bump.ProcessSample(y), y)
			y = guard(c.wear.ProcessSample(y), y)
			if hiss > 0 {
				y += noise[i]
			}
			data[i] = core.Sanitize(y)
		}
	}

	g.crosstalk.Skip(n)
	g.applyCrosstalk(buf, n, g.crosstalk.Current())
}

func (c *channelState) saturate(x, amount float64) float64 {
	if amount <= 0 {
		return x
	}
	pre := c.pre.ProcessSample(x)
	driven := pre * (1 + amount*satDrive)
	s := core.Tanh(driven*satScale) / satScale
	mixed := x + amount*(s-x)
	return guard(c.de.ProcessSample(mixed), x)
}

func (g *Magnetic) applyCrosstalk(buf [][]float64, n int, amount float64) {
	if amount <= 0 || len(buf) < 2 {
		return
	}
	bleed := amount * crosstalkBleed
	l, r := &g.channels[0], &g.channels[1]
	left, right := buf[0][:n], buf[1][:n]
	pos := g.ringPos
	for i := range left {
		xl, xr := left[i], right[i]
		l.ring[pos] = xl
		r.ring[pos] = xr
		read := (pos + crosstalkRing - crosstalkDelay) % crosstalkRing
		left[i] = core.Sanitize(xl + bleed*r.ring[read])
		right[i] = core.Sanitize(xr + bleed*l.ring[read])
		pos = (pos + 1) % crosstalkRing
	}
	g.ringPos = pos
}

// GainReduction returns the smoothed gain reduction of channel ch.
func (g *Magnetic) GainReduction(ch int) float64 {
	if ch < 0 || ch >= len(g.channels) {
		return 0
	}
	return g.channels[ch].comp.gr
}

func guard(y, fallback float64) float64 {
	if core.IsFinite(y) {
		return y
	}
	return fallback
}
