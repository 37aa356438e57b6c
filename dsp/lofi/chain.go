package lofi

import (
	"fmt"
	"math"
	"sync/atomic"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-lofi/dsp/core"
	"github.com/cwbudde/algo-lofi/dsp/delay"
	"github.com/cwbudde/algo-lofi/dsp/lofi/digital"
	"github.com/cwbudde/algo-lofi/dsp/lofi/distort"
	"github.com/cwbudde/algo-lofi/dsp/lofi/host"
	"github.com/cwbudde/algo-lofi/dsp/lofi/macro"
	"github.com/cwbudde/algo-lofi/dsp/lofi/magnetic"
	"github.com/cwbudde/algo-lofi/dsp/lofi/noise"
	"github.com/cwbudde/algo-lofi/dsp/lofi/space"
	"github.com/cwbudde/algo-lofi/dsp/lofi/wobble"
)

// Module is the contract shared by every stage of the chain.
type Module interface {
	Prepare(sampleRate float64, blockSize, channels int) error
	Reset()
	Process(buf [][]float64, tr host.Transport, p host.Snapshot, m macro.State)
}

var (
	_ Module = (*wobble.Wobble)(nil)
	_ Module = (*distort.Distort)(nil)
	_ Module = (*digital.Digital)(nil)
	_ Module = (*magnetic.Magnetic)(nil)
	_ Module = (*noise.Noise)(nil)
	_ Module = (*space.Space)(nil)
)

const (
	gainTime = 0.02
	mixTime  = 0.03

	// OutputLimit is the largest magnitude Process writes.
	OutputLimit = 2.0
)

// Chain runs the modules in their fixed order and blends the result with
// the dry signal.
type Chain struct {
	cfg      core.ProcessorConfig
	prepared bool
	primed   bool

	macro    *macro.Controller
	noise    *noise.Noise
	distort  *distort.Distort
	wobble   *wobble.Wobble
	digital  *digital.Digital
	magnetic *magnetic.Magnetic
	space    *space.Space

	inGain  core.Smoother
	outGain core.Smoother
	mix     core.Smoother

	gainBuf []float64
	mixBuf  []float64
	dry     [][]float64
	dryLine []delay.Line

	clips       atomic.Uint64
	diagnostics func(BlockReport)
}

// NewChain builds every module. The chain must be prepared before use.
func NewChain(opts ...ChainOption) (*Chain, error) {
	cfg := defaultChainConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	c := &Chain{
		macro:       macro.NewController(),
		space:       space.New(),
		diagnostics: cfg.diagnostics,
	}
	var err error
	if c.noise, err = noise.New(noise.WithSeed(cfg.seed), noise.WithAssets(cfg.assets)); err != nil {
		return nil, err
	}
	if c.distort, err = distort.New(distort.WithOversampling(cfg.oversampling)); err != nil {
		return nil, err
	}
	if c.wobble, err = wobble.New(wobble.WithSeed(cfg.seed + 1)); err != nil {
		return nil, err
	}
	if c.digital, err = digital.New(digital.WithSeed(cfg.seed+2), digital.WithCharacterRate(cfg.characterRate)); err != nil {
		return nil, err
	}
	if c.magnetic, err = magnetic.New(magnetic.WithSeed(cfg.seed + 3)); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Chain) modules() []Module {
	return []Module{c.noise, c.distort, c.wobble, c.digital, c.magnetic, c.space}
}

// Prepare sizes every module for the stream. On error the chain stays
// unprepared and Process passes audio through.
func (c *Chain) Prepare(sampleRate float64, blockSize, channels int) error {
	cfg := core.ProcessorConfig{SampleRate: sampleRate, BlockSize: blockSize, Channels: channels}
	c.prepared = false
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("lofi: %w", err)
	}
	if err := c.macro.Prepare(sampleRate, blockSize); err != nil {
		return err
	}
	for _, m := range c.modules() {
		if err := m.Prepare(sampleRate, blockSize, channels); err != nil {
			return fmt.Errorf("lofi: %T: %w", m, err)
		}
	}

	lines := make([]delay.Line, channels)
	for i := range lines {
		if err := lines[i].Resize(c.distort.LatencySamples() + 1); err != nil {
			return fmt.Errorf("lofi: dry delay: %w", err)
		}
	}

	c.inGain.SetTimeConstant(sampleRate, gainTime)
	c.outGain.SetTimeConstant(sampleRate, gainTime)
	c.mix.SetTimeConstant(sampleRate, mixTime)

	c.cfg = cfg
	c.dryLine = lines
	c.dry = core.NewMultiBuffer(channels, blockSize)
	c.gainBuf = make([]float64, blockSize)
	c.mixBuf = make([]float64, blockSize)
	c.prepared = true
	c.Reset()
	return nil
}

// Reset clears all module state and the clip counter.
func (c *Chain) Reset() {
	c.primed = false
	c.macro.Reset()
	for _, m := range c.modules() {
		m.Reset()
	}
	for i := range c.dryLine {
		c.dryLine[i].Reset()
	}
	c.clips.Store(0)
}

// LatencySamples returns the latency the host should compensate: the
// oversampler delay of the distortion stage rounded to whole samples. The dry
// path is delayed by the same integer amount so Mix 0 stays bit-exact; see
// distort.Distort.ActiveLatency for the residual half-sample offset at 4x.
func (c *Chain) LatencySamples() int {
	return c.distort.LatencySamples()
}

// ActiveLatency returns the delay the chain adds for p. A bypassed chain
// adds none.
func (c *Chain) ActiveLatency(p host.Snapshot) int {
	if p == nil || p.Bool(host.Bypass) {
		return 0
	}
	return c.distort.ActiveLatency(p)
}

// Macro returns the macro state of the last processed block.
func (c *Chain) Macro() macro.State { return c.macro.State() }

// Clips returns the number of samples clamped by the output limiter since
// the last Reset. It is safe to call from any goroutine.
func (c *Chain) Clips() uint64 { return c.clips.Load() }

// Process runs one block in place.
func (c *Chain) Process(buf [][]float64, tr host.Transport, p host.Snapshot) {
	if !c.prepared || p == nil {
		return
	}
	n, ok := c.cfg.Accepts(buf)
	if !ok {
		return
	}

	m := c.macro.Tick(p, n)
	var r BlockReport
	c.measureIn(&r, buf, n)
	r.Macro = m.Smoothed

	if p.Bool(host.Bypass) {
		r.Bypassed = true
		r.PeakOut, r.RMSOut = r.PeakIn, r.RMSIn
		if c.diagnostics != nil {
			c.diagnostics(r)
		}
		return
	}

	c.inGain.SetTarget(core.DBToLinear(p.Float(host.InGain)))
	c.outGain.SetTarget(core.DBToLinear(p.Float(host.OutGain)))
	c.mix.SetTarget(core.Saturate(p.Float(host.Mix)))
	if !c.primed {
		for _, s := range []*core.Smoother{&c.inGain, &c.outGain, &c.mix} {
			s.SetCurrentAndTarget(s.Target())
		}
		c.primed = true
	}

	gains := c.gainBuf[:n]
	for i := range gains {
		gains[i] = c.inGain.Next()
	}
	latency := c.distort.ActiveLatency(p)
	for ch, data := range buf {
		data = data[:n]
		vecmath.MulBlockInPlace(data, gains)
		line := &c.dryLine[ch]
		dry := c.dry[ch][:n]
		for i, x := range data {
			line.Write(x)
			dry[i] = line.Read(latency)
		}
	}

	noisePre := p.Choice(host.NoisePlacement) == 0
	distortPre := p.Choice(host.DistortPrePost) == 0
	if noisePre {
		c.noise.Process(buf, tr, p, m)
	}
	if distortPre {
		c.distort.Process(buf, tr, p, m)
	}
	c.wobble.Process(buf, tr, p, m)
	if !distortPre {
		c.distort.Process(buf, tr, p, m)
	}
	c.digital.Process(buf, tr, p, m)
	c.magnetic.Process(buf, tr, p, m)
	if !noisePre {
		c.noise.Process(buf, tr, p, m)
	}
	c.space.Process(buf, tr, p, m)

	mix := c.mixBuf[:n]
	for i := range mix {
		mix[i] = c.mix.Next()
	}
	for i := range gains {
		gains[i] = c.outGain.Next()
	}

	var clipped int
	for ch, data := range buf {
		dry := c.dry[ch][:n]
		for i, wet := range data[:n] {
			y := (dry[i] + (wet-dry[i])*mix[i]) * gains[i]
			switch {
			case !core.IsFinite(y):
				y = 0
				clipped++
			case math.Abs(y) > OutputLimit:
				y = math.Copysign(OutputLimit, y)
				clipped++
			}
			data[i] = y
		}
	}
	if clipped > 0 {
		c.clips.Add(uint64(clipped))
	}

	r.Clipped = clipped
	r.Latency = latency
	c.report(&r, buf, n)
}
