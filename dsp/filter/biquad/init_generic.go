//go:build !amd64 || purego

package biquad

import (
	_ "github.com/cwbudde/algo-lofi/dsp/filter/biquad/internal/arch/generic"
)
