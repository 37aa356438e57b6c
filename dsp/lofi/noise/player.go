package noise

import (
	"math"

	"github.com/cwbudde/algo-lofi/dsp/interp"
	"github.com/cwbudde/algo-lofi/dsp/lofi/host"
)

// jazzClubTrim keeps recorded room ambience below the other characters.
const jazzClubTrim = 0.4

// player loops the region [LoopStart, LoopEnd) of an asset at a constant
// rate ratio with linear interpolation.
type player struct {
	asset *host.Asset
	pos   float64
}

func (p *player) reset() {
	p.asset = nil
	p.pos = 0
}

// render writes len(dst) frames of asset channel ch%channels into dst.
func (p *player) render(a *host.Asset, ch int, sampleRate float64, dst []float64) {
	if a != p.asset {
		p.asset = a
		p.pos = 0
	}
	src := a.Channels[ch%len(a.Channels)]
	start := a.LoopStart
	length := float64(a.LoopEnd - a.LoopStart)
	ratio := a.SampleRate / sampleRate
	gain := 1.0
	if a.Kind == host.NoiseJazzClub {
		gain = jazzClubTrim
	}

	pos := p.pos
	if pos >= length || pos < 0 {
		pos = 0
	}
	last := a.LoopEnd - a.LoopStart - 1
	for i := range dst {
		k := int(pos)
		frac := pos - float64(k)
		next := k + 1
		if next > last {
			next = 0
		}
		dst[i] = gain * interp.Linear(frac, src[start+k], src[start+next])
		pos += ratio
		if pos >= length {
			pos = math.Mod(pos, length)
		}
	}
	p.pos = pos
}
