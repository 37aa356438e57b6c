// Package noise adds background ambience (vinyl, tape, hum, fan or jazz
// club) shaped by an age filter, a program-dependent flutter gate and a
// mid/side width control.
package noise

import (
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-lofi/dsp/core"
	"github.com/cwbudde/algo-lofi/dsp/filter/biquad"
	"github.com/cwbudde/algo-lofi/dsp/filter/design"
	"github.com/cwbudde/algo-lofi/dsp/lofi/host"
	"github.com/cwbudde/algo-lofi/dsp/lofi/macro"
	"github.com/cwbudde/algo-lofi/stats/level"
)

const (
	levelTime = 0.02
	ageTime   = 0.04
	widthTime = 0.02
	gateTime  = 0.06

	gateAttack  = 0.01
	gateRelease = 0.2
	gateSense   = 4.0
	gateDepth   = 0.5
	flutterHz   = 6.0
	flutterAmt  = 0.1

	minLevelDB = -60.0
	maxLevelDB = 12.0

	ageMidHz = 2000.0
	ageMidQ  = 0.5
)

type sourceState struct {
	hp  biquad.Section
	lp  biquad.Section
	mid biquad.Section
	out []float64
	pl  player
}

// Noise is the ambience module. It adds to the signal and never replaces
// it.
type Noise struct {
	cfg      core.ProcessorConfig
	prepared bool
	primed   bool

	assets host.AssetProvider
	gen    *Generator

	level core.Smoother
	age   core.Smoother
	width core.Smoother
	gate  core.Smoother

	envelope     float64
	flutterPhase float64

	gainBuf []float64
	spare   []float64
	sources []sourceState
}

// New returns an unprepared Noise.
func New(opts ...Option) (*Noise, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	return &Noise{
		assets: cfg.assets,
		gen:    NewGenerator(uint64(cfg.seed)),
	}, nil
}

// Prepare allocates the noise sources. Mono hosts get one source, every
// other layout a stereo pair.
func (z *Noise) Prepare(sampleRate float64, blockSize, channels int) error {
	cfg := core.ProcessorConfig{SampleRate: sampleRate, BlockSize: blockSize, Channels: channels}
	if err := cfg.Validate(); err != nil {
		z.prepared = false
		return err
	}

	sources := make([]sourceState, min(channels, 2))
	for i := range sources {
		sources[i].out = make([]float64, blockSize)
	}
	z.level.SetTimeConstant(sampleRate, levelTime)
	z.age.SetTimeConstant(sampleRate, ageTime)
	z.width.SetTimeConstant(sampleRate, widthTime)
	z.gate.SetTimeConstant(sampleRate, gateTime)
	z.gen.Prepare(sampleRate, blockSize)

	z.cfg = cfg
	z.sources = sources
	z.gainBuf = make([]float64, blockSize)
	z.spare = make([]float64, blockSize)
	z.prepared = true
	z.Reset()
	return nil
}

// Reset rewinds the generator, the loop players and the filters.
func (z *Noise) Reset() {
	z.primed = false
	z.envelope = 0
	z.flutterPhase = 0
	z.gen.Reset()
	for i := range z.sources {
		s := &z.sources[i]
		s.hp.Reset()
		s.lp.Reset()
		s.mid.Reset()
		s.pl.reset()
	}
	if z.prepared {
		def := host.Defaults()
		z.setAge(def.Float(host.NoiseAge))
	}
}

// AgeFilters returns the high-pass, low-pass and mid-dip coefficients for an
// age amount.
func AgeFilters(age, sampleRate float64) (hp, lp, mid biquad.Coefficients) {
	age = core.Saturate(age)
	hpHz := design.ClampFreq(20+100*age, 1, sampleRate)
	lpHz := design.ClampFreq(math.Min(20000-14000*age, 0.45*sampleRate), 1, sampleRate)
	hp = design.Highpass(hpHz, design.ButterworthQ, sampleRate)
	lp = design.Lowpass(lpHz, design.ButterworthQ, sampleRate)
	mid = design.Peak(design.ClampFreq(ageMidHz, 1, sampleRate), -6*age, ageMidQ, sampleRate)
	return hp, lp, mid
}

func (z *Noise) setAge(age float64) {
	hp, lp, mid := AgeFilters(age, z.cfg.SampleRate)
	for i := range z.sources {
		s := &z.sources[i]
		s.hp.SetCoefficients(hp)
		s.lp.SetCoefficients(lp)
		s.mid.SetCoefficients(mid)
	}
}

// Level returns the linear noise gain for the parameters and macro state.
func Level(p host.Snapshot, m macro.State) float64 {
	db := core.Clamp(p.Float(host.NoiseLevel)+m.NoiseLevelAddDB, minLevelDB, maxLevelDB)
	return core.DBToLinear(db)
}

// Kind returns the selected noise character.
func Kind(p host.Snapshot) host.NoiseKind {
	k := host.NoiseKind(p.Choice(host.NoiseType))
	if !k.Valid() {
		return host.NoiseVinyl
	}
	return k
}

// Process adds noise to buf in place.
func (z *Noise) Process(buf [][]float64, _ host.Transport, p host.Snapshot, m macro.State) {
	if !z.prepared || p == nil || !p.Bool(host.NoiseOn) {
		return
	}
	n, ok := z.cfg.Accepts(buf)
	if !ok {
		return
	}

	z.level.SetTarget(Level(p, m))
	z.age.SetTarget(core.Saturate(p.Float(host.NoiseAge) * m.NoiseAgeGain))
	z.width.SetTarget(core.Saturate(p.Float(host.NoiseWidth)))
	z.gate.SetTarget(core.Saturate(p.Float(host.NoiseFlutterGate)))
	if !z.primed {
		for _, s := range []*core.Smoother{&z.level, &z.age, &z.width, &z.gate} {
			s.SetCurrentAndTarget(s.Target())
		}
		z.primed = true
	}

	z.setAge(z.age.Current())
	z.age.Skip(n)
	z.trackEnvelope(buf, n)
	z.render(Kind(p), n)

	gains := z.gainBuf[:n]
	duck := core.Saturate(z.envelope*gateSense) * gateDepth
	phaseInc := flutterHz / z.cfg.SampleRate
	for i := range gains {
		amt := z.gate.Next()
		g := z.level.Next()
		if amt > 0 {
			flutter := 1 + flutterAmt*amt*math.Sin(2*math.Pi*z.flutterPhase)
			g *= (1 - duck*amt) * flutter
		}
		z.flutterPhase += phaseInc
		if z.flutterPhase >= 1 {
			z.flutterPhase--
		}
		gains[i] = g
	}

	for i := range z.sources {
		s := &z.sources[i]
		out := s.out[:n]
		for k, x := range out {
			y := s.hp.ProcessSample(x)
			y = s.lp.ProcessSample(y)
			out[k] = s.mid.ProcessSample(y)
		}
		vecmath.MulBlockInPlace(out, gains)
	}

	if len(z.sources) == 2 {
		left, right := z.sources[0].out[:n], z.sources[1].out[:n]
		for i := range left {
			w := z.width.Next()
			mid := 0.5 * (left[i] + right[i])
			side := 0.5 * (left[i] - right[i]) * w
			left[i] = mid + side
			right[i] = mid - side
		}
	} else {
		z.width.Skip(n)
	}

	for ch, data := range buf {
		data = data[:n]
		vecmath.AddBlockInPlace(data, z.sources[ch%len(z.sources)].out[:n])
		core.SanitizeBlock(data)
	}
}

// trackEnvelope follows the block RMS of the program with separate attack
// and release times.
func (z *Noise) trackEnvelope(buf [][]float64, n int) {
	_, rms := level.Block(buf, n)
	if !core.IsFinite(rms) {
		return
	}
	tau := gateRelease
	if rms > z.envelope {
		tau = gateAttack
	}
	coeff := math.Exp(-float64(n) / (tau * z.cfg.SampleRate))
	z.envelope = rms + coeff*(z.envelope-rms)
}

func (z *Noise) render(kind host.NoiseKind, n int) {
	if !kind.Procedural() && !z.assets.NeedsProceduralFallback(kind) {
		if a, ok := z.assets.AssetForType(kind); ok && a.Playable() {
			for i := range z.sources {
				s := &z.sources[i]
				s.pl.render(a, i, z.cfg.SampleRate, s.out[:n])
			}
			return
		}
	}

	left := z.sources[0].out[:n]
	right := z.spare[:n]
	if len(z.sources) == 2 {
		right = z.sources[1].out[:n]
	}
	z.gen.Generate(kind, left, right)
}

// Envelope returns the program envelope driving the flutter gate.
func (z *Noise) Envelope() float64 { return z.envelope }
