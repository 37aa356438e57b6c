package design_test

import (
	"fmt"

	"github.com/cwbudde/algo-lofi/dsp/filter/design"
)

func ExampleLowShelf() {
	bump := design.LowShelf(70, 3.75, 0.7, 48000)
	fmt.Printf("DC: %.2f dB\n", bump.MagnitudeDB(1, 48000))
	// Output:
	// DC: 3.75 dB
}
