package resample_test

import (
	"fmt"

	"github.com/cwbudde/algo-lofi/dsp/resample"
)

func ExampleOversampler() {
	o, err := resample.NewOversampler(256)
	if err != nil {
		fmt.Println(err)
		return
	}

	block := make([]float64, 256)
	high, _ := o.Up(block)
	for i := range high {
		high[i] *= 0.5
	}
	_ = o.Down(block, high)

	fmt.Printf("factor=%d high=%d latency=%d\n", o.Factor(), len(high), o.LatencySamples())
	// Output:
	// factor=4 high=1024 latency=19
}
