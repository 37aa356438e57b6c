package noise

import (
	"errors"

	"github.com/cwbudde/algo-lofi/dsp/lofi/host"
)

// Option configures a Noise module.
type Option func(*config) error

type config struct {
	seed   int64
	assets host.AssetProvider
}

func defaultConfig() config {
	return config{seed: 0x4e01, assets: host.NoAssets{}}
}

// WithSeed sets the procedural generator seed.
func WithSeed(seed int64) Option {
	return func(cfg *config) error {
		cfg.seed = seed
		return nil
	}
}

// WithAssets sets the source of recorded noise loops.
func WithAssets(assets host.AssetProvider) Option {
	return func(cfg *config) error {
		if assets == nil {
			return errors.New("noise: asset provider must not be nil")
		}
		cfg.assets = assets
		return nil
	}
}
