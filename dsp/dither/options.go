package dither

import (
	"fmt"
	"math"
)

const (
	defaultBits        = 16.0
	defaultShapeBelow  = 8.0
	defaultShaperCoeff = 0.5
	defaultLimit       = 1.0
	defaultSeed        = 0x5eed
	defaultMaxBlock    = 512
	minBits            = 1.0
	maxBits            = 24.0
)

type config struct {
	bits       float64
	ditherType DitherType
	shapeBelow float64
	shaper     NoiseShaper
	limit      float64
	seed       int64
	maxBlock   int
}

func defaultConfig() config {
	return config{
		bits:       defaultBits,
		ditherType: DitherTriangular,
		shapeBelow: defaultShapeBelow,
		limit:      defaultLimit,
		seed:       defaultSeed,
		maxBlock:   defaultMaxBlock,
	}
}

// Option configures a [Quantizer].
type Option func(*config) error

// WithBits sets the (fractional) target bit depth in [1, 24].
func WithBits(bits float64) Option {
	return func(cfg *config) error {
		if err := validateBits(bits); err != nil {
			return err
		}
		cfg.bits = bits
		return nil
	}
}

// WithDitherType sets the dither PDF.
func WithDitherType(dt DitherType) Option {
	return func(cfg *config) error {
		if !dt.Valid() {
			return fmt.Errorf("dither: invalid dither type: %d", dt)
		}
		cfg.ditherType = dt
		return nil
	}
}

// WithShapeBelow enables noise shaping at and below the given bit depth.
// Zero disables shaping.
func WithShapeBelow(bits float64) Option {
	return func(cfg *config) error {
		if bits < 0 || math.IsNaN(bits) || math.IsInf(bits, 0) {
			return fmt.Errorf("dither: shaping threshold must be >= 0 and finite: %f", bits)
		}
		cfg.shapeBelow = bits
		return nil
	}
}

// WithNoiseShaper replaces the default first-order shaper.
func WithNoiseShaper(s NoiseShaper) Option {
	return func(cfg *config) error {
		if s == nil {
			return fmt.Errorf("dither: noise shaper must not be nil")
		}
		cfg.shaper = s
		return nil
	}
}

// WithLimit sets the symmetric output clamp.
func WithLimit(limit float64) Option {
	return func(cfg *config) error {
		if !(limit > 0) || math.IsInf(limit, 0) {
			return fmt.Errorf("dither: limit must be > 0 and finite: %f", limit)
		}
		cfg.limit = limit
		return nil
	}
}

// WithSeed sets the dither noise seed.
func WithSeed(seed int64) Option {
	return func(cfg *config) error {
		cfg.seed = seed
		return nil
	}
}

// WithMaxBlock sets the largest block processed without chunking.
func WithMaxBlock(n int) Option {
	return func(cfg *config) error {
		if n <= 0 {
			return fmt.Errorf("dither: max block must be > 0: %d", n)
		}
		cfg.maxBlock = n
		return nil
	}
}

func validateBits(bits float64) error {
	if bits < minBits || bits > maxBits || math.IsNaN(bits) {
		return fmt.Errorf("dither: bits must be in [%g, %g]: %f", minBits, maxBits, bits)
	}
	return nil
}
