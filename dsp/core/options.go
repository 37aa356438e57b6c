package core

import (
	"fmt"
	"math"
)

// MaxChannels bounds the channel count accepted by ProcessorConfig.
const MaxChannels = 8

// ProcessorConfig defines common DSP processing settings.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int
	Channels   int
}

// Validate reports whether the configuration can drive a processor.
func (c ProcessorConfig) Validate() error {
	if c.SampleRate <= 0 || math.IsNaN(c.SampleRate) || math.IsInf(c.SampleRate, 0) {
		return fmt.Errorf("sample rate must be > 0 and finite: %f", c.SampleRate)
	}
	if c.BlockSize <= 0 {
		return fmt.Errorf("block size must be > 0: %d", c.BlockSize)
	}
	if c.Channels <= 0 || c.Channels > MaxChannels {
		return fmt.Errorf("channels must be in [1, %d]: %d", MaxChannels, c.Channels)
	}
	return nil
}

// Accepts reports whether buf fits the configuration and returns the
// number of frames to process. Empty buffers, more channels than configured
// or more frames than BlockSize are rejected.
func (c ProcessorConfig) Accepts(buf [][]float64) (int, bool) {
	if len(buf) == 0 || len(buf) > c.Channels {
		return 0, false
	}
	frames := Frames(buf)
	if frames == 0 || frames > c.BlockSize {
		return 0, false
	}
	return frames, true
}
