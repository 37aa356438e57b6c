package distort

import "fmt"

// Option configures a Distort.
type Option func(*config) error

type config struct {
	factor int
}

func defaultConfig() config {
	return config{factor: 4}
}

// WithOversampling selects the oversampling factor, 2 or 4.
func WithOversampling(factor int) Option {
	return func(cfg *config) error {
		if factor != 2 && factor != 4 {
			return fmt.Errorf("distort: oversampling factor must be 2 or 4: %d", factor)
		}
		cfg.factor = factor
		return nil
	}
}
