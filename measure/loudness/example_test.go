package loudness_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-lofi/measure/loudness"
)

func ExampleMeter_Integrated() {
	const sr = 48000.0
	sig := make([]float64, 4*sr)
	for i := range sig {
		sig[i] = 0.1 * math.Sin(2*math.Pi*1000*float64(i)/sr)
	}
	m, _ := loudness.New(sr, 1)
	_ = m.Process([][]float64{sig})
	fmt.Printf("%.0f LUFS\n", m.Integrated())
	// Output:
	// -23 LUFS
}
