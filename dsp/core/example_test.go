package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-lofi/dsp/core"
)

func ExampleProcessorConfig_Accepts() {
	cfg := core.ProcessorConfig{SampleRate: 44100, BlockSize: 256, Channels: 2}
	frames, ok := cfg.Accepts(core.NewMultiBuffer(2, 128))
	fmt.Println(frames, ok)
	_, ok = cfg.Accepts(core.NewMultiBuffer(2, 512))
	fmt.Println(ok)

	// Output:
	// 128 true
	// false
}

func ExampleEase() {
	for _, x := range []float64{-1, 0.2, 0.5, 2} {
		fmt.Printf("%.4f ", core.Ease(x))
	}
	fmt.Println()

	// Output:
	// 0.0000 0.1040 0.5000 1.0000
}
