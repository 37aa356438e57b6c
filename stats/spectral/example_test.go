package spectral_test

import (
	"fmt"

	"github.com/cwbudde/algo-lofi/stats/spectral"
)

func ExampleDescribe() {
	mag := []float64{0, 1, 1, 0, 0}
	s := spectral.Describe(mag, 8000)
	fmt.Printf("centroid %.0f Hz, rolloff %.0f Hz\n", s.Centroid, s.Rolloff)
	// Output:
	// centroid 1500 Hz, rolloff 2000 Hz
}
