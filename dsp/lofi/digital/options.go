package digital

import (
	"fmt"
	"math"
)

const (
	defaultCharacterRate = 8000.0
	defaultSeed          = 0xd161
)

// Option configures a Digital module.
type Option func(*config) error

type config struct {
	characterRate float64
	seed          int64
}

func defaultConfig() config {
	return config{characterRate: defaultCharacterRate, seed: defaultSeed}
}

// WithCharacterRate sets the strobe rate of the sample-rate reducer in Hz.
func WithCharacterRate(hz float64) Option {
	return func(cfg *config) error {
		if !(hz >= 1000) || hz > 48000 || math.IsInf(hz, 0) {
			return fmt.Errorf("digital: character rate must be in [1000, 48000]: %f", hz)
		}
		cfg.characterRate = hz
		return nil
	}
}

// WithSeed sets the jitter and dither seed.
func WithSeed(seed int64) Option {
	return func(cfg *config) error {
		cfg.seed = seed
		return nil
	}
}
