// Package digital implements the bit-depth and sample-rate reducer.
//
// The bits and sample-rate controls do not set the crusher directly. They
// are mapped to two mix amounts (low bits or low rate means more mix) and
// the macro floors add to those. The sample-rate path strobes at a fixed
// character rate; the bit path runs the frequency-selective quantizer, or
// the dithered textbook quantizer when digitalMode selects it.
package digital

import (
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-lofi/dsp/core"
	"github.com/cwbudde/algo-lofi/dsp/dither"
	"github.com/cwbudde/algo-lofi/dsp/filter/biquad"
	"github.com/cwbudde/algo-lofi/dsp/filter/design"
	"github.com/cwbudde/algo-lofi/dsp/lofi/host"
	"github.com/cwbudde/algo-lofi/dsp/lofi/macro"
)

const (
	minBits = 4.0
	maxBits = 16.0
	minRate = 6000.0
	maxRate = 44100.0

	bitsCurve = 1.8
	rateCurve = 1.6
	bitsShape = 0.8

	mixThreshold = 0.01
	mixRampTime  = 0.05
	aaRatio      = 0.45
)

// Mode selects the bit reduction algorithm.
type Mode int

const (
	// Character is the frequency-selective quantizer.
	Character Mode = iota
	// Textbook is a TPDF-dithered mid-tread quantizer with error feedback.
	Textbook
)

type channelState struct {
	bitMix  core.Smoother
	rateMix core.Smoother
	aa      biquad.Section
	strobe  strobe
	crusher crusher
	dither  *dither.Quantizer
}

// Digital is the bitcrusher module.
type Digital struct {
	cfg      core.ProcessorConfig
	opts     config
	prepared bool

	coeffs    crusherCoeffs
	noiseInit vecmath.DitherState
	noise     vecmath.DitherState
	noiseBuf  []float64

	channels []channelState
}

// New returns an unprepared Digital.
func New(opts ...Option) (*Digital, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	d := &Digital{opts: cfg, noiseInit: *vecmath.NewDitherState(cfg.seed)}
	d.noise = d.noiseInit
	return d, nil
}

// Prepare allocates per-channel state.
func (d *Digital) Prepare(sampleRate float64, blockSize, channels int) error {
	cfg := core.ProcessorConfig{SampleRate: sampleRate, BlockSize: blockSize, Channels: channels}
	if err := cfg.Validate(); err != nil {
		d.prepared = false
		return err
	}

	aa := design.Lowpass(
		core.Clamp(aaRatio*d.opts.characterRate, 0.001*sampleRate, 0.499*sampleRate),
		design.ButterworthQ, sampleRate)

	states := make([]channelState, channels)
	for i := range states {
		q, err := dither.NewQuantizer(
			dither.WithBits(maxBits),
			dither.WithSeed(d.opts.seed+int64(i)+1),
			dither.WithMaxBlock(1),
		)
		if err != nil {
			d.prepared = false
			return err
		}
		states[i].dither = q
		states[i].bitMix = core.NewSmoother(sampleRate, mixRampTime, 0)
		states[i].rateMix = core.NewSmoother(sampleRate, mixRampTime, 0)
		states[i].aa.SetCoefficients(aa)
	}

	d.cfg = cfg
	d.coeffs = newCrusherCoeffs(sampleRate)
	d.channels = states
	d.noiseBuf = make([]float64, blockSize)
	d.prepared = true
	d.Reset()
	return nil
}

// Reset clears all state. Both mixes restart at zero so enabling the module
// ramps in.
func (d *Digital) Reset() {
	for i := range d.channels {
		c := &d.channels[i]
		c.bitMix.SetCurrentAndTarget(0)
		c.rateMix.SetCurrentAndTarget(0)
		c.aa.Reset()
		c.strobe.reset()
		c.crusher.reset()
		c.dither.Reset()
	}
	d.noise = d.noiseInit
}

// Mixes maps the bits and sample-rate controls plus the macro floors to the
// bit-reduction and sample-rate-reduction mix amounts in [0, 1].
func Mixes(p host.Snapshot, m macro.State) (bitMix, rateMix float64) {
	bitsN := math.Pow(core.Saturate((p.Float(host.DigitalBits)-minBits)/(maxBits-minBits)), bitsCurve)
	rateN := math.Pow(core.Saturate((p.Float(host.DigitalSR)-minRate)/(maxRate-minRate)), rateCurve)

	bitMix = core.Saturate(1 - bitsN + (maxBits-m.DigitalBitsFloor)/(maxBits-minBits))
	rateMix = core.Saturate(1 - rateN + (maxRate-m.DigitalSRFloorHz)/(maxRate-minRate))
	return bitMix, rateMix
}

// TargetBits returns the quantizer depth for a bit mix amount.
func TargetBits(bitMix float64) float64 {
	return maxBits - math.Pow(core.Saturate(bitMix), bitsShape)*(maxBits-minBits)
}

func (d *Digital) idle() bool {
	for i := range d.channels {
		c := &d.channels[i]
		if c.bitMix.Current() >= mixThreshold || c.rateMix.Current() >= mixThreshold {
			return false
		}
	}
	return true
}

// Process crushes buf in place.
func (d *Digital) Process(buf [][]float64, _ host.Transport, p host.Snapshot, m macro.State) {
	if !d.prepared || p == nil || !p.Bool(host.DigitalOn) {
		return
	}
	n, ok := d.cfg.Accepts(buf)
	if !ok {
		return
	}

	bitTarget, rateTarget := Mixes(p, m)
	if bitTarget < mixThreshold && rateTarget < mixThreshold && d.idle() {
		for i := range d.channels {
			d.channels[i].bitMix.SetCurrentAndTarget(bitTarget)
			d.channels[i].rateMix.SetCurrentAndTarget(rateTarget)
		}
		return
	}

	useAA := p.Bool(host.DigitalAA)
	mode := Mode(p.Choice(host.DigitalMode))
	jitter := core.Saturate(p.Float(host.DigitalJitter))
	baseInc := d.opts.characterRate / d.cfg.SampleRate
	noise := d.noiseBuf[:n]

	for ch, data := range buf {
		c := &d.channels[ch]
		c.bitMix.SetTarget(bitTarget)
		c.rateMix.SetTarget(rateTarget)
		if jitter > 0 {
			vecmath.GenerateTPDF(noise, 1, &d.noise)
		}

		for i, x := range data[:n] {
			bitMix := c.bitMix.Next()
			rateMix := c.rateMix.Next()

			src := x
			if useAA {
				src = c.aa.ProcessSample(x)
			}

			stage1 := x
			if rateMix > mixThreshold {
				inc := baseInc
				if jitter > 0 {
					j := core.Clamp(noise[i]*jitter*jitterScale, -maxJitter, maxJitter)
					inc *= 1 + 2*j
				}
				stage1 = x + (c.strobe.process(src, inc)-x)*rateMix
			}

			out := stage1
			if bitMix > mixThreshold {
				in := src
				if rateMix > mixThreshold {
					in = stage1
				}
				bits := TargetBits(bitMix)
				var q float64
				if mode == Textbook {
					if bits != c.dither.Bits() {
						_ = c.dither.SetBits(bits)
					}
					q = c.dither.ProcessSample(in)
				} else {
					q = c.crusher.process(d.coeffs, in, bits)
				}
				out = stage1 + (q-stage1)*bitMix
			}

			if !core.IsFinite(out) {
				out = x
			}
			data[i] = out
		}
	}
}

// Mix returns the current bit and rate mix amounts of channel ch.
func (d *Digital) Mix(ch int) (bitMix, rateMix float64) {
	if ch < 0 || ch >= len(d.channels) {
		return 0, 0
	}
	return d.channels[ch].bitMix.Current(), d.channels[ch].rateMix.Current()
}
