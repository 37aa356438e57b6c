package thd_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-lofi/measure/thd"
)

func ExampleAnalyzeSignal() {
	sampleRate := 48000.0
	fftSize := 4096
	fundamental := 64 * sampleRate / float64(fftSize)

	signal := make([]float64, fftSize)
	for i := range signal {
		t := float64(i) / sampleRate
		signal[i] = math.Sin(2*math.Pi*fundamental*t) + 0.02*math.Sin(2*math.Pi*2*fundamental*t)
	}

	res, err := thd.AnalyzeSignal(signal, thd.Config{
		SampleRate:      sampleRate,
		FFTSize:         fftSize,
		FundamentalFreq: fundamental,
	})
	if err != nil {
		panic(err)
	}

	fmt.Printf("level: %.3f\n", res.FundamentalLevel)
	fmt.Printf("THD: %.2f%%\n", res.THD*100)
	fmt.Printf("SINAD: %.2f dB\n", res.SINAD)
	// Output:
	// level: 1.000
	// THD: 2.00%
	// SINAD: 33.98 dB
}
