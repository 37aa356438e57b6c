package resample

import (
	"errors"
	"fmt"
	"math"
)

// ErrBlockTooLarge is returned when a block exceeds the prepared size.
var ErrBlockTooLarge = errors.New("resample: block exceeds prepared size")

const (
	defaultFactor   = 4
	stage1Beta      = 8.0
	stage2Beta      = 6.0
	stage1HalfOrder = 8 // 31 taps
	stage2HalfOrder = 4 // 15 taps
)

// Option configures an Oversampler.
type Option func(*config) error

type config struct {
	factor int
}

func defaultConfig() config {
	return config{factor: defaultFactor}
}

// WithFactor selects 2x or 4x oversampling.
func WithFactor(factor int) Option {
	return func(cfg *config) error {
		if factor != 2 && factor != 4 {
			return fmt.Errorf("resample: oversampling factor must be 2 or 4: %d", factor)
		}
		cfg.factor = factor
		return nil
	}
}

// Oversampler converts one channel to Factor() times its rate and back.
// It owns the high-rate scratch buffers, so Up and Down never allocate.
type Oversampler struct {
	factor   int
	maxBlock int

	up1   upStage
	down1 downStage
	up2   upStage
	down2 downStage

	mid  []float64 // 2x
	high []float64 // 4x
}

// NewOversampler returns an oversampler for blocks of up to maxBlock samples.
func NewOversampler(maxBlock int, opts ...Option) (*Oversampler, error) {
	if maxBlock <= 0 {
		return nil, fmt.Errorf("resample: max block must be > 0: %d", maxBlock)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	hb1 := designHalfBand(stage1HalfOrder, stage1Beta)
	o := &Oversampler{
		factor:   cfg.factor,
		maxBlock: maxBlock,
		up1:      newUpStage(hb1),
		down1:    newDownStage(hb1),
		mid:      make([]float64, 2*maxBlock),
	}
	if cfg.factor == 4 {
		hb2 := designHalfBand(stage2HalfOrder, stage2Beta)
		o.up2 = newUpStage(hb2)
		o.down2 = newDownStage(hb2)
		o.high = make([]float64, 4*maxBlock)
	}

	return o, nil
}

// Factor returns the oversampling factor.
func (o *Oversampler) Factor() int { return o.factor }

// MaxBlock returns the largest accepted host-rate block.
func (o *Oversampler) MaxBlock() int { return o.maxBlock }

// Up upsamples src and returns the internal high-rate slice of length
// Factor()*len(src). The slice is valid until the next Up call.
func (o *Oversampler) Up(src []float64) ([]float64, error) {
	n := len(src)
	if n > o.maxBlock {
		return nil, ErrBlockTooLarge
	}

	mid := o.mid[:2*n]
	o.up1.process(mid, src)
	if o.factor == 2 {
		return mid, nil
	}

	high := o.high[:4*n]
	o.up2.process(high, mid)
	return high, nil
}

// Down decimates high (length Factor()*len(dst)) into dst.
func (o *Oversampler) Down(dst, high []float64) error {
	n := len(dst)
	if n > o.maxBlock {
		return ErrBlockTooLarge
	}
	if len(high) < o.factor*n {
		return fmt.Errorf("resample: high-rate block too short: %d < %d", len(high), o.factor*n)
	}

	if o.factor == 2 {
		o.down1.process(dst, high[:2*n])
		return nil
	}

	mid := o.mid[:2*n]
	o.down2.process(mid, high[:4*n])
	o.down1.process(dst, mid)
	return nil
}

// Latency returns the round-trip group delay in host-rate samples.
func (o *Oversampler) Latency() float64 {
	// Each stage delays by its centre-tap index at its own high rate, once
	// on the way up and once on the way down.
	d := 2 * float64(o.up1.delay()) / 2
	if o.factor == 4 {
		d += 2 * float64(o.up2.delay()) / 4
	}
	return d
}

// LatencySamples returns Latency rounded to whole host samples.
func (o *Oversampler) LatencySamples() int {
	return int(math.Round(o.Latency()))
}

// Reset clears all filter history.
func (o *Oversampler) Reset() {
	o.up1.reset()
	o.down1.reset()
	if o.factor == 4 {
		o.up2.reset()
		o.down2.reset()
	}
}
