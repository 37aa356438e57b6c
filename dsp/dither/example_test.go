package dither_test

import (
	"fmt"

	"github.com/cwbudde/algo-lofi/dsp/dither"
)

func ExampleQuantizer() {
	q, err := dither.NewQuantizer(dither.WithBits(4), dither.WithDitherType(dither.DitherNone))
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(q)
	fmt.Printf("%.4f\n", q.ProcessSample(0.18))
	// Output:
	// dither.Quantizer{bits=4.00, dither=None, shaping=true}
	// 0.1333
}
