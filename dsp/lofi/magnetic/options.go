package magnetic

// Option configures a Magnetic module.
type Option func(*config) error

type config struct {
	seed int64
}

func defaultConfig() config {
	return config{seed: 0x7a9e}
}

// WithSeed sets the hiss seed. Channel i uses seed+i.
func WithSeed(seed int64) Option {
	return func(cfg *config) error {
		cfg.seed = seed
		return nil
	}
}
