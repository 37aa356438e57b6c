package noise

import (
	"math"
	"math/rand/v2"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-lofi/dsp/core"
	"github.com/cwbudde/algo-lofi/dsp/lofi/host"
)

const (
	humHz        = 60.0
	humAMHz      = 6.0
	humAMDepth   = 0.03
	humLevel     = 0.04
	humBuzzLevel = 0.008

	motorHz        = 23.0
	motorFlutterHz = 1.3
	motorLevel     = 0.035

	clinkDecay = 50.0
)

// onePole is a one-pole low-pass. highpass returns the complementary
// output.
type onePole struct {
	coeff float64
	state float64
}

func (f *onePole) set(freq, sampleRate float64) {
	f.coeff = math.Exp(-2 * math.Pi * freq / sampleRate)
}

func (f *onePole) lowpass(x float64) float64 {
	f.state = x + f.coeff*(f.state-x)
	return f.state
}

func (f *onePole) highpass(x float64) float64 {
	return x - f.lowpass(x)
}

// pinkFilter is Paul Kellet's refined pink noise filter.
type pinkFilter [7]float64

func (p *pinkFilter) next(white float64) float64 {
	p[0] = 0.99886*p[0] + white*0.0555179
	p[1] = 0.99332*p[1] + white*0.0750759
	p[2] = 0.96900*p[2] + white*0.1538520
	p[3] = 0.86650*p[3] + white*0.3104856
	p[4] = 0.55000*p[4] + white*0.5329522
	p[5] = -0.7616*p[5] - white*0.0168980
	pink := p[0] + p[1] + p[2] + p[3] + p[4] + p[5] + p[6] + white*0.5362
	p[6] = white * 0.115926
	return pink * 0.11
}

// Generator synthesizes stereo ambience for every NoiseKind. It is the
// source for hum and fan, and the fallback for the asset-backed kinds.
type Generator struct {
	sampleRate float64
	seed       uint64

	rng       *rand.Rand
	whiteInit vecmath.DitherState
	white     vecmath.DitherState
	whiteBuf  []float64

	pink pinkFilter

	vinylHP, vinylLP onePole
	tapeHP, tapeLP   onePole
	humBP, humLP     onePole
	fanRumble, fanDC onePole
	fanAir           onePole
	clubBP           onePole

	crackleClock float64
	nextCrackle  float64

	humPhase     float64
	humAMPhase   float64
	motorPhase   float64
	flutterPhase float64

	clinkTimer float64
	clinkAge   float64
	clinkAmp   float64
	clinkHz    float64
}

// NewGenerator returns a generator whose output is fully determined by
// seed.
func NewGenerator(seed uint64) *Generator {
	g := &Generator{
		sampleRate: 48000,
		seed:       seed,
		whiteInit:  *vecmath.NewDitherState(int64(seed)),
	}
	g.Prepare(g.sampleRate, 0)
	return g
}

// Prepare sets the sample rate and reserves maxBlock frames of scratch.
func (g *Generator) Prepare(sampleRate float64, maxBlock int) {
	if sampleRate > 0 && core.IsFinite(sampleRate) {
		g.sampleRate = sampleRate
	}
	sr := g.sampleRate
	g.vinylHP.set(20, sr)
	g.vinylLP.set(15000, sr)
	g.tapeHP.set(30, sr)
	g.tapeLP.set(12000, sr)
	g.humBP.set(60, sr)
	g.humLP.set(200, sr)
	g.fanRumble.set(300, sr)
	g.fanAir.set(300, sr)
	g.fanDC.set(15, sr)
	g.clubBP.set(800, sr)
	g.whiteBuf = core.EnsureLen(g.whiteBuf, maxBlock)
	g.Reset()
}

// Reset restarts the generator from its seed.
func (g *Generator) Reset() {
	g.rng = rand.New(rand.NewPCG(g.seed, g.seed^0x9e3779b97f4a7c15))
	g.white = g.whiteInit
	g.pink = pinkFilter{}
	for _, f := range []*onePole{
		&g.vinylHP, &g.vinylLP, &g.tapeHP, &g.tapeLP, &g.humBP, &g.humLP,
		&g.fanRumble, &g.fanAir, &g.fanDC, &g.clubBP,
	} {
		f.state = 0
	}
	g.crackleClock = 0
	g.nextCrackle = g.rng.Float64() * 0.5
	g.humPhase = 0
	g.humAMPhase = 0
	g.motorPhase = 0
	g.flutterPhase = 0
	g.clinkTimer = g.rng.Float64() * 2
	g.clinkAge = 0
	g.clinkAmp = 0
}

// Generate writes len(left) frames of kind into left and right. right may
// alias left for a mono render.
func (g *Generator) Generate(kind host.NoiseKind, left, right []float64) {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	g.whiteBuf = core.EnsureLen(g.whiteBuf, n)
	white := g.whiteBuf[:n]
	vecmath.GenerateTPDF(white, 1, &g.white)

	dt := 1 / g.sampleRate
	switch kind {
	case host.NoiseVinyl:
		for i, w := range white {
			s := g.vinylLP.lowpass(g.vinylHP.highpass(g.pink.next(w) * 0.25))
			g.crackleClock += dt
			if g.crackleClock >= g.nextCrackle {
				s += (g.rng.Float64() - 0.5) * 0.15
				g.nextCrackle = 0.1 + g.rng.Float64()*0.4
				g.crackleClock = 0
			}
			left[i] = s * (0.9 + 0.1*g.rng.Float64())
			right[i] = s * (0.9 + 0.1*g.rng.Float64())
		}
	case host.NoiseTape:
		for i, w := range white {
			s := g.tapeLP.lowpass(g.tapeHP.highpass(g.pink.next(w) * 0.2))
			left[i] = s * (0.95 + 0.05*g.rng.Float64())
			right[i] = s * (0.95 + 0.05*g.rng.Float64())
		}
	case host.NoiseHum:
		for i, w := range white {
			p := 2 * math.Pi * g.humPhase
			s := math.Sin(p) + 0.4*math.Sin(2*p) + 0.15*math.Sin(3*p) +
				0.08*math.Sin(4*p) + 0.05*math.Sin(5*p)
			s *= 1 + humAMDepth*math.Sin(2*math.Pi*g.humAMPhase)
			s *= humLevel
			s += g.humLP.lowpass(g.humBP.lowpass(w * 0.5 * humBuzzLevel))
			g.humPhase = wrap(g.humPhase + humHz*dt)
			g.humAMPhase = wrap(g.humAMPhase + humAMHz*dt)
			left[i] = s
			right[i] = s
		}
	case host.NoiseFan:
		for i, w := range white {
			p := 2 * math.Pi * g.motorPhase
			motor := (math.Sin(p) + 0.3*math.Sin(2*p) + 0.15*math.Sin(3*p)) * motorLevel
			motor *= 1 + 0.08*math.Sin(2*math.Pi*g.flutterPhase)
			rumble := g.fanDC.highpass(g.fanRumble.lowpass(w * 0.5 * 0.025))
			air := g.fanAir.lowpass((g.rng.Float64() - 0.5) * 0.012)
			s := motor + rumble + air
			g.motorPhase = wrap(g.motorPhase + motorHz*dt)
			g.flutterPhase = wrap(g.flutterPhase + motorFlutterHz*dt)
			left[i] = s * (0.95 + 0.05*g.rng.Float64())
			right[i] = s * (0.95 + 0.05*g.rng.Float64())
		}
	case host.NoiseJazzClub:
		for i, w := range white {
			s := g.clubBP.lowpass(g.pink.next(w) * 0.025)
			g.clinkTimer -= dt
			if g.clinkTimer <= 0 {
				g.clinkAmp = 0.02 + 0.03*g.rng.Float64()
				g.clinkHz = 2500 + 1500*g.rng.Float64()
				g.clinkAge = 0
				g.clinkTimer = 1 + 3*g.rng.Float64()
			}
			if g.clinkAmp > 0 {
				s += g.clinkAmp * math.Exp(-g.clinkAge*clinkDecay) *
					math.Sin(2*math.Pi*g.clinkHz*g.clinkAge)
				g.clinkAge += dt
				if g.clinkAge*clinkDecay > 12 {
					g.clinkAmp = 0
				}
			}
			left[i] = s * (0.8 + 0.2*g.rng.Float64())
			right[i] = s * (0.8 + 0.2*g.rng.Float64())
		}
	default:
		core.Zero(left[:n])
		core.Zero(right[:n])
	}
}

func wrap(phase float64) float64 {
	if phase >= 1 {
		phase -= math.Floor(phase)
	}
	return phase
}
