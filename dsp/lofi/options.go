package lofi

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-lofi/dsp/lofi/host"
)

const defaultSeed = 0x10f1

// ChainOption configures a Chain.
type ChainOption func(*chainConfig) error

type chainConfig struct {
	assets        host.AssetProvider
	seed          int64
	oversampling  int
	characterRate float64
	diagnostics   func(BlockReport)
}

func defaultChainConfig() chainConfig {
	return chainConfig{
		assets:        host.NoAssets{},
		seed:          defaultSeed,
		oversampling:  4,
		characterRate: 8000,
	}
}

// WithAssets sets the provider of recorded noise loops.
func WithAssets(assets host.AssetProvider) ChainOption {
	return func(cfg *chainConfig) error {
		if assets == nil {
			return errors.New("lofi: asset provider must not be nil")
		}
		cfg.assets = assets
		return nil
	}
}

// WithSeed sets the base seed of every random source in the chain.
func WithSeed(seed int64) ChainOption {
	return func(cfg *chainConfig) error {
		cfg.seed = seed
		return nil
	}
}

// WithOversampling sets the distortion oversampling factor, 2 or 4.
func WithOversampling(factor int) ChainOption {
	return func(cfg *chainConfig) error {
		if factor != 2 && factor != 4 {
			return fmt.Errorf("lofi: oversampling factor must be 2 or 4: %d", factor)
		}
		cfg.oversampling = factor
		return nil
	}
}

// WithCharacterRate sets the strobe rate of the sample-rate reducer.
func WithCharacterRate(hz float64) ChainOption {
	return func(cfg *chainConfig) error {
		cfg.characterRate = hz
		return nil
	}
}

// WithDiagnostics installs fn to receive a report after every block. fn
// runs on the audio goroutine and must not block.
func WithDiagnostics(fn func(BlockReport)) ChainOption {
	return func(cfg *chainConfig) error {
		cfg.diagnostics = fn
		return nil
	}
}
