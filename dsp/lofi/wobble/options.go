package wobble

// Option configures a Wobble.
type Option func(*config) error

type config struct {
	seed int64
}

func defaultConfig() config {
	return config{seed: 0x77ab}
}

// WithSeed sets the jitter noise seed.
func WithSeed(seed int64) Option {
	return func(cfg *config) error {
		cfg.seed = seed
		return nil
	}
}
