// Package loudness measures ITU-R BS.1770 programme loudness of planar
// audio: gated integrated loudness, momentary and short-term loudness and
// the EBU R128 loudness range.
package loudness

import (
	"math"
	"slices"

	"github.com/pkg/errors"

	"github.com/cwbudde/algo-lofi/dsp/core"
	"github.com/cwbudde/algo-lofi/dsp/filter/biquad"
	"github.com/cwbudde/algo-lofi/dsp/filter/design"
)

const (
	shelfHz = 1500.0
	shelfDB = 4.0
	rlbHz   = 38.0

	// Gating blocks are built from 100 ms steps.
	stepSeconds    = 0.1
	momentarySteps = 4
	shortTermSteps = 30

	absoluteGate = -70.0
	relativeGate = -10.0
	rangeGate    = -20.0

	rangeLow  = 0.10
	rangeHigh = 0.95
)

// Meter accumulates K-weighted power in 100 ms steps. All channels are
// weighted equally.
type Meter struct {
	sampleRate float64
	channels   int

	shelf []biquad.Section
	rlb   []biquad.Section

	step  int
	count int
	acc   float64
	steps []float64
}

// New returns a Meter for the given rate and channel count.
func New(sampleRate float64, channels int) (*Meter, error) {
	cfg := core.ProcessorConfig{SampleRate: sampleRate, BlockSize: 1, Channels: channels}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	shelf := design.HighShelf(design.ClampFreq(shelfHz, 1, sampleRate), shelfDB, design.ButterworthQ, sampleRate)
	rlb := design.Highpass(design.ClampFreq(rlbHz, 1, sampleRate), design.ButterworthQ, sampleRate)
	m := &Meter{
		sampleRate: sampleRate,
		channels:   channels,
		shelf:      make([]biquad.Section, channels),
		rlb:        make([]biquad.Section, channels),
		step:       max(int(math.Round(stepSeconds*sampleRate)), 1),
	}
	for ch := range channels {
		m.shelf[ch].SetCoefficients(shelf)
		m.rlb[ch].SetCoefficients(rlb)
	}
	return m, nil
}

// Reset discards the measurement and the filter state.
func (m *Meter) Reset() {
	for ch := range m.channels {
		m.shelf[ch].Reset()
		m.rlb[ch].Reset()
	}
	m.count = 0
	m.acc = 0
	m.steps = m.steps[:0]
}

// Process adds planar audio to the measurement. A trailing partial step is
// carried into the next call.
func (m *Meter) Process(buf [][]float64) error {
	if len(buf) != m.channels {
		return errors.Errorf("loudness: got %d channels, want %d", len(buf), m.channels)
	}
	n := core.Frames(buf)
	for i := range n {
		for ch, data := range buf {
			y := m.rlb[ch].ProcessSample(m.shelf[ch].ProcessSample(data[i]))
			m.acc += y * y
		}
		m.count++
		if m.count == m.step {
			m.steps = append(m.steps, m.acc/float64(m.step))
			m.acc = 0
			m.count = 0
		}
	}
	return nil
}

// Duration returns the measured time in seconds, counting complete steps.
func (m *Meter) Duration() float64 {
	return float64(len(m.steps)) * float64(m.step) / m.sampleRate
}

// windows returns the mean power of every run of size consecutive steps.
func (m *Meter) windows(size int) []float64 {
	if len(m.steps) < size {
		return nil
	}
	out := make([]float64, 0, len(m.steps)-size+1)
	var sum float64
	for i, p := range m.steps {
		sum += p
		if i >= size {
			sum -= m.steps[i-size]
		}
		if i >= size-1 {
			out = append(out, math.Max(sum, 0)/float64(size))
		}
	}
	return out
}

// Momentary returns the loudness of the last 400 ms in LUFS.
func (m *Meter) Momentary() float64 { return last(m.windows(momentarySteps)) }

// ShortTerm returns the loudness of the last 3 s in LUFS.
func (m *Meter) ShortTerm() float64 { return last(m.windows(shortTermSteps)) }

// MaxMomentary returns the loudest 400 ms window in LUFS.
func (m *Meter) MaxMomentary() float64 {
	w := m.windows(momentarySteps)
	if len(w) == 0 {
		return math.Inf(-1)
	}
	return ToLUFS(slices.Max(w))
}

// Integrated returns the gated programme loudness in LUFS, or -Inf when no
// block passes the gates.
func (m *Meter) Integrated() float64 {
	blocks := gate(m.windows(momentarySteps), relativeGate)
	if len(blocks) == 0 {
		return math.Inf(-1)
	}
	return ToLUFS(mean(blocks))
}

// Range returns the loudness range in LU: the spread between the 10th and
// 95th percentile of the gated short-term loudness.
func (m *Meter) Range() float64 {
	blocks := gate(m.windows(shortTermSteps), rangeGate)
	if len(blocks) < 2 {
		return 0
	}
	slices.Sort(blocks)
	lo := blocks[int(math.Round(rangeLow*float64(len(blocks)-1)))]
	hi := blocks[int(math.Round(rangeHigh*float64(len(blocks)-1)))]
	return ToLUFS(hi) - ToLUFS(lo)
}

// gate drops blocks below the absolute gate and then below the mean of the
// survivors offset by rel LU.
func gate(blocks []float64, rel float64) []float64 {
	var abs []float64
	for _, b := range blocks {
		if ToLUFS(b) > absoluteGate {
			abs = append(abs, b)
		}
	}
	if len(abs) == 0 {
		return nil
	}
	threshold := ToLUFS(mean(abs)) + rel
	out := abs[:0]
	for _, b := range abs {
		if ToLUFS(b) > threshold {
			out = append(out, b)
		}
	}
	return out
}

// ToLUFS converts a K-weighted mean square to LUFS.
func ToLUFS(meanSquare float64) float64 {
	if meanSquare <= 0 {
		return math.Inf(-1)
	}
	return -0.691 + 10*math.Log10(meanSquare)
}

func mean(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}

func last(w []float64) float64 {
	if len(w) == 0 {
		return math.Inf(-1)
	}
	return ToLUFS(w[len(w)-1])
}
