// Package wobble implements tape transport instability: a short delay line
// whose read position is modulated by wow, flutter, drift and jitter.
package wobble

import (
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-lofi/dsp/core"
	"github.com/cwbudde/algo-lofi/dsp/delay"
	"github.com/cwbudde/algo-lofi/dsp/filter/biquad"
	"github.com/cwbudde/algo-lofi/dsp/filter/design"
	"github.com/cwbudde/algo-lofi/dsp/lofi/host"
	"github.com/cwbudde/algo-lofi/dsp/lofi/macro"
)

const (
	bufferSeconds   = 0.05
	baseDelay       = 10.0
	maxSwingSeconds = 0.002
	antiAliasHz     = 15000.0

	minRateHz = 0.1
	maxRateHz = 10.0

	flutterRatio = 7.0
	driftRatio   = 1.414 * 0.03
	stereoOffset = 0.25

	wowScale     = 0.7
	flutterScale = 0.15
	driftScale   = 0.5
	jitterScale  = 0.3

	jitterPole = 0.98
	modPole    = 0.9
)

type channelState struct {
	line       delay.Line
	antiAlias  biquad.Section
	phase      float64
	driftPhase float64
	jitter     float64
	mod        float64
}

// Wobble is the pitch modulation module.
type Wobble struct {
	cfg      core.ProcessorConfig
	prepared bool

	noiseInit vecmath.DitherState
	noise     vecmath.DitherState
	noiseBuf  []float64
	// leftMod holds channel 0's smoothed modulation for linking.
	leftMod []float64

	channels []channelState
}

// New returns an unprepared Wobble.
func New(opts ...Option) (*Wobble, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	w := &Wobble{noiseInit: *vecmath.NewDitherState(cfg.seed)}
	w.noise = w.noiseInit
	return w, nil
}

// Prepare allocates per-channel state. On error the module stays
// unprepared and Process passes audio through.
func (w *Wobble) Prepare(sampleRate float64, blockSize, channels int) error {
	cfg := core.ProcessorConfig{SampleRate: sampleRate, BlockSize: blockSize, Channels: channels}
	if err := cfg.Validate(); err != nil {
		w.prepared = false
		return err
	}

	size := int(math.Ceil(bufferSeconds * sampleRate))
	states := make([]channelState, channels)
	aa := design.Lowpass(math.Min(antiAliasHz, 0.45*sampleRate), design.ButterworthQ, sampleRate)
	for i := range states {
		if err := states[i].line.Resize(size); err != nil {
			w.prepared = false
			return err
		}
		states[i].antiAlias.SetCoefficients(aa)
	}

	w.cfg = cfg
	w.channels = states
	w.noiseBuf = make([]float64, blockSize)
	w.leftMod = make([]float64, blockSize)
	w.prepared = true
	w.Reset()
	return nil
}

// Reset clears delay lines and filters and restarts the modulators.
func (w *Wobble) Reset() {
	for i := range w.channels {
		c := &w.channels[i]
		c.line.Reset()
		c.antiAlias.Reset()
		c.phase = 0
		if i > 0 {
			c.phase = stereoOffset
		}
		c.driftPhase = 0
		c.jitter = 0
		c.mod = 0
	}
	w.noise = w.noiseInit
}

// Process modulates buf in place.
func (w *Wobble) Process(buf [][]float64, _ host.Transport, p host.Snapshot, m macro.State) {
	if !w.prepared || p == nil || !p.Bool(host.WobbleOn) {
		return
	}
	n, ok := w.cfg.Accepts(buf)
	if !ok {
		return
	}

	depth := p.Float(host.WobbleDepth) * m.WobbleDepthGain
	flutter := p.Float(host.WobbleFlutter) * m.WobbleFlutterGain
	drift := p.Float(host.WobbleDrift)
	jitterAmt := p.Float(host.WobbleJitter)
	link := core.Saturate(p.Float(host.WobbleStereoLink))
	mono := p.Bool(host.WobbleMono)
	rate := core.Clamp(p.Float(host.WobbleRate), minRateHz, maxRateHz)
	if !core.IsFinite(rate) {
		rate = minRateHz
	}

	sr := w.cfg.SampleRate
	inc := rate / sr
	driftInc := rate * driftRatio / sr
	swing := maxSwingSeconds * sr
	wet := core.Clamp(2*depth, 0, 1)
	dry := 1 - wet

	noise := w.noiseBuf[:n]
	leftMod := w.leftMod[:n]

	for ch, data := range buf {
		c := &w.channels[ch]
		vecmath.GenerateTPDF(noise, 1, &w.noise)
		data = data[:n]

		for i, x := range data {
			c.line.Write(c.antiAlias.ProcessSample(x))

			wow := math.Sin(2 * math.Pi * c.phase)
			fl := math.Sin(2 * math.Pi * c.phase * flutterRatio)
			dr := math.Sin(2 * math.Pi * c.driftPhase)
			c.jitter = jitterPole*c.jitter + (1-jitterPole)*noise[i]

			total := wow*depth*wowScale +
				fl*flutter*flutterScale +
				dr*drift*driftScale +
				c.jitter*jitterAmt*jitterScale

			switch {
			case ch == 0:
				c.mod = modPole*c.mod + (1-modPole)*total
				leftMod[i] = c.mod
			case mono:
				c.mod = leftMod[i]
			default:
				total = total*(1-link) + leftMod[i]*link
				c.mod = modPole*c.mod + (1-modPole)*total
			}
			c.mod = core.FlushDenormals(c.mod)

			y := c.line.ReadHermite(baseDelay + math.Abs(c.mod*swing))
			out := y*wet + x*dry
			if !core.IsFinite(out) {
				out = x
			}
			data[i] = out

			c.phase += inc
			if c.phase >= 1 {
				c.phase -= 1
			}
			c.driftPhase += driftInc
			if c.driftPhase >= 1 {
				c.driftPhase -= 1
			}
		}
	}
}

// Mod returns the current smoothed modulation value of channel ch.
func (w *Wobble) Mod(ch int) float64 {
	if ch < 0 || ch >= len(w.channels) {
		return 0
	}
	return w.channels[ch].mod
}
