package dither

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Quantizer reduces a signal in [-limit, limit] to a fractional bit depth
// with a mid-tread grid of step 2/(2^bits - 1).
type Quantizer struct {
	bits       float64
	step       float64
	ditherType DitherType
	shapeBelow float64
	shaper     NoiseShaper
	limit      float64

	seed    vecmath.DitherState
	state   vecmath.DitherState
	noise   []float64
	scratch [1]float64
}

// NewQuantizer creates a quantizer. Defaults: 16 bits, TPDF dither,
// first-order error feedback (0.5) at 8 bits and below, clamp to ±1.
func NewQuantizer(opts ...Option) (*Quantizer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	shaper := cfg.shaper
	if shaper == nil {
		shaper = FirstOrder(defaultShaperCoeff)
	}

	q := &Quantizer{
		ditherType: cfg.ditherType,
		shapeBelow: cfg.shapeBelow,
		shaper:     shaper,
		limit:      cfg.limit,
		seed:       *vecmath.NewDitherState(cfg.seed),
		noise:      make([]float64, cfg.maxBlock),
	}
	q.state = q.seed
	q.setBits(cfg.bits)

	return q, nil
}

// SetBits changes the target bit depth.
func (q *Quantizer) SetBits(bits float64) error {
	if err := validateBits(bits); err != nil {
		return err
	}
	q.setBits(bits)
	return nil
}

func (q *Quantizer) setBits(bits float64) {
	q.bits = bits
	q.step = 2 / (math.Exp2(bits) - 1)
}

// Bits returns the target bit depth.
func (q *Quantizer) Bits() float64 { return q.bits }

// Step returns the quantization step size.
func (q *Quantizer) Step() float64 { return q.step }

// DitherType returns the dither PDF in use.
func (q *Quantizer) DitherType() DitherType { return q.ditherType }

// Shaping reports whether error feedback is active at the current depth.
func (q *Quantizer) Shaping() bool { return q.bits <= q.shapeBelow }

// ProcessSample quantizes one sample.
func (q *Quantizer) ProcessSample(x float64) float64 {
	d := 0.0
	if q.ditherType == DitherTriangular {
		vecmath.GenerateTPDF(q.scratch[:], q.step/2, &q.state)
		d = q.scratch[0]
	}
	return q.quantize(x, d)
}

// ProcessInPlace quantizes buf in place. Zero-alloc.
func (q *Quantizer) ProcessInPlace(buf []float64) {
	for len(buf) > 0 {
		n := min(len(buf), len(q.noise))
		chunk := buf[:n]
		noise := q.noise[:n]

		if q.ditherType == DitherTriangular {
			vecmath.GenerateTPDF(noise, q.step/2, &q.state)
		} else {
			clear(noise)
		}
		for i, x := range chunk {
			chunk[i] = q.quantize(x, noise[i])
		}
		buf = buf[n:]
	}
}

func (q *Quantizer) quantize(x, d float64) float64 {
	if math.IsNaN(x) {
		return 0
	}

	y := math.Round((x+d)/q.step) * q.step
	if q.bits <= q.shapeBelow {
		err := y - x
		y = q.shaper.Shape(y)
		q.shaper.RecordError(err)
	}

	return math.Max(-q.limit, math.Min(q.limit, y))
}

// Reset clears the error history and restarts the dither sequence.
func (q *Quantizer) Reset() {
	q.shaper.Reset()
	q.state = q.seed
}

// String describes the quantizer configuration.
func (q *Quantizer) String() string {
	return fmt.Sprintf("dither.Quantizer{bits=%.2f, dither=%s, shaping=%t}", q.bits, q.ditherType, q.Shaping())
}
