// Package distort implements the oversampled waveshaper of the lo-fi chain.
//
// Each block is upsampled (4x by default), passed through a tone shelf, a
// pre-emphasis shelf, one of three nonlinearities, the matching de-emphasis
// and a 20 Hz DC blocker, then decimated back to the host rate.
package distort

import (
	"math"

	"github.com/cwbudde/algo-lofi/dsp/core"
	"github.com/cwbudde/algo-lofi/dsp/filter/biquad"
	"github.com/cwbudde/algo-lofi/dsp/filter/design"
	"github.com/cwbudde/algo-lofi/dsp/lofi/host"
	"github.com/cwbudde/algo-lofi/dsp/lofi/macro"
	"github.com/cwbudde/algo-lofi/dsp/resample"
)

const (
	maxDriveDB       = 40.0
	compensationRate = 0.3

	toneCenterHz = 1000.0
	toneOctaves  = 1.5
	toneMaxGain  = 1.5
	toneQ        = 0.5
	toneDeadZone = 0.01
	emphasisHz   = 2000.0
	emphasisQ    = 0.5
	emphasisGain = 1.2
	dcBlockHz    = 20.0
	numShapes    = 3
)

type channelState struct {
	os   *resample.Oversampler
	tone biquad.Section
	pre  biquad.Section
	de   biquad.Section
	dc   biquad.Section
}

// Distort is the waveshaping module.
type Distort struct {
	cfg      core.ProcessorConfig
	factor   int
	prepared bool
	latency  int

	lastTone float64
	channels []channelState
}

// New returns an unprepared Distort.
func New(opts ...Option) (*Distort, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	return &Distort{factor: cfg.factor}, nil
}

// Prepare builds one oversampler and filter set per channel.
func (d *Distort) Prepare(sampleRate float64, blockSize, channels int) error {
	cfg := core.ProcessorConfig{SampleRate: sampleRate, BlockSize: blockSize, Channels: channels}
	if err := cfg.Validate(); err != nil {
		d.prepared = false
		return err
	}

	osr := sampleRate * float64(d.factor)
	emphasis := design.ClampFreq(emphasisHz, 1, osr)
	pre := design.HighShelfLinear(emphasis, emphasisGain, emphasisQ, osr)
	de := design.HighShelfLinear(emphasis, 1/emphasisGain, emphasisQ, osr)
	dc := design.Highpass(design.ClampFreq(dcBlockHz, 1e-3, osr), design.ButterworthQ, osr)

	states := make([]channelState, channels)
	for i := range states {
		ovs, err := resample.NewOversampler(blockSize, resample.WithFactor(d.factor))
		if err != nil {
			d.prepared = false
			return err
		}
		states[i].os = ovs
		states[i].tone.SetCoefficients(biquad.Identity())
		states[i].pre.SetCoefficients(pre)
		states[i].de.SetCoefficients(de)
		states[i].dc.SetCoefficients(dc)
	}

	d.cfg = cfg
	d.channels = states
	d.latency = states[0].os.LatencySamples()
	d.prepared = true
	d.Reset()
	return nil
}

// Reset clears oversampler and filter history.
func (d *Distort) Reset() {
	for i := range d.channels {
		c := &d.channels[i]
		c.os.Reset()
		c.tone.Reset()
		c.pre.Reset()
		c.de.Reset()
		c.dc.Reset()
	}
	d.lastTone = math.NaN()
}

// LatencySamples returns the oversampler group delay in host samples, or 0
// before Prepare.
func (d *Distort) LatencySamples() int {
	if !d.prepared {
		return 0
	}
	return d.latency
}

// Latency returns the unrounded oversampler group delay in host samples, or
// 0 before Prepare. At 4x it is 18.5.
func (d *Distort) Latency() float64 {
	if !d.prepared {
		return 0
	}
	return d.channels[0].os.Latency()
}

// ActiveLatency returns the delay the module adds for the given parameters:
// LatencySamples when enabled, 0 when bypassed.
//
// The value is Latency rounded to whole samples, so at 4x the wet path runs
// half a sample ahead of a dry copy delayed by it. The resulting comb has its
// first notch at the sample rate and only shelves the top octave of a
// wet/dry blend, by at most 3 dB at Nyquist.
func (d *Distort) ActiveLatency(p host.Snapshot) int {
	if p == nil || !p.Bool(host.DistortOn) {
		return 0
	}
	return d.LatencySamples()
}

// Drive returns the linear drive and the output compensation for the given
// parameters.
func Drive(p host.Snapshot, m macro.State) (drive, compensation float64) {
	db := core.Clamp(p.Float(host.DistortDrive)+m.DistortDriveAddDB, 0, maxDriveDB)
	if !core.IsFinite(db) {
		db = 0
	}
	drive = core.DBToLinear(db)
	return drive, 1 / (1 + compensationRate*drive)
}

// Process shapes buf in place.
func (d *Distort) Process(buf [][]float64, _ host.Transport, p host.Snapshot, m macro.State) {
	if !d.prepared || p == nil || !p.Bool(host.DistortOn) {
		return
	}
	n, ok := d.cfg.Accepts(buf)
	if !ok {
		return
	}

	shape := Shape(min(max(p.Choice(host.DistortType), 0), numShapes-1))
	drive, comp := Drive(p, m)

	tone := core.Clamp(p.Float(host.DistortTone), -1, 1)
	toneOn := math.Abs(tone) >= toneDeadZone
	if toneOn && tone != d.lastTone {
		d.updateTone(tone)
	}

	for ch, data := range buf {
		c := &d.channels[ch]
		data = data[:n]

		high, err := c.os.Up(data)
		if err != nil {
			continue
		}
		if toneOn {
			c.tone.ProcessBlock(high)
		}
		c.pre.ProcessBlock(high)
		for i, x := range high {
			high[i] = shape.apply(x*drive) * comp
		}
		c.de.ProcessBlock(high)
		c.dc.ProcessBlock(high)

		if err := c.os.Down(data, high); err != nil {
			continue
		}
		core.SanitizeBlock(data)
	}
}

func (d *Distort) updateTone(tone float64) {
	osr := d.cfg.SampleRate * float64(d.factor)
	freq := toneCenterHz * math.Exp2(toneOctaves*tone)
	gain := 1 + math.Abs(tone)*toneMaxGain
	if tone < 0 {
		gain = 1 / gain
	}
	coeffs := design.HighShelfLinear(design.ClampFreq(freq, 1, osr), gain, toneQ, osr)
	for i := range d.channels {
		d.channels[i].tone.SetCoefficients(coeffs)
	}
	d.lastTone = tone
}
