package host_test

import (
	"fmt"

	"github.com/cwbudde/algo-lofi/dsp/lofi/host"
)

func ExampleStore() {
	s := host.NewStore()
	_ = s.SetByName("digitalBits", 8)
	_ = s.SetByName("noiseType", 4)

	var v host.Values
	s.Load(&v)
	fmt.Println(v.Float(host.DigitalBits), host.NoiseKind(v.Choice(host.NoiseType)))
	// Output: 8 jazzClub
}
