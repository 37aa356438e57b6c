package thd

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-lofi/dsp/window"
)

const sampleRate = 48000.0

// tone sums bin-centred sines: amps[k] is the amplitude of harmonic k+1.
func tone(n, bin int, amps ...float64) []float64 {
	out := make([]float64, n)
	for k, a := range amps {
		w := 2 * math.Pi * float64((k+1)*bin) / float64(n)
		for i := range out {
			out[i] += a * math.Sin(w*float64(i))
		}
	}
	return out
}

func TestKnownHarmonics(t *testing.T) {
	for _, w := range []window.Type{window.TypeRectangular, window.TypeHann, window.TypeBlackmanHarris4Term} {
		t.Run(w.String(), func(t *testing.T) {
			a, err := NewAnalyzer(Config{SampleRate: sampleRate, FFTSize: 4096, Window: w})
			if err != nil {
				t.Fatal(err)
			}
			res, err := a.Analyze(tone(4096, 40, 0.5, 0.05, 0.025))
			if err != nil {
				t.Fatal(err)
			}
			binHz := sampleRate / 4096
			if math.Abs(res.FundamentalFreq-40*binHz) > 1e-9 {
				t.Fatalf("fundamental = %g Hz", res.FundamentalFreq)
			}
			if math.Abs(res.FundamentalLevel-0.5) > 1e-6 {
				t.Fatalf("level = %g", res.FundamentalLevel)
			}
			wantTHD := math.Hypot(0.1, 0.05)
			if math.Abs(res.THD-wantTHD) > 1e-6 {
				t.Fatalf("THD = %g, want %g", res.THD, wantTHD)
			}
			if math.Abs(res.EvenHD-0.1) > 1e-6 || math.Abs(res.OddHD-0.05) > 1e-6 {
				t.Fatalf("even %g odd %g", res.EvenHD, res.OddHD)
			}
			if res.Noise > 1e-6 {
				t.Fatalf("noise = %g", res.Noise)
			}
			if len(res.Harmonics) < 2 || math.Abs(res.Harmonics[0]-0.1) > 1e-6 {
				t.Fatalf("harmonics = %v", res.Harmonics)
			}
		})
	}
}

func TestMaxHarmonics(t *testing.T) {
	res, err := AnalyzeSignal(tone(4096, 40, 1, 0, 0.1), Config{
		SampleRate:   sampleRate,
		FFTSize:      4096,
		Window:       window.TypeHann,
		MaxHarmonics: 1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Harmonics) != 1 || res.THD > 1e-6 {
		t.Fatalf("res = %+v", res)
	}
	// The third harmonic is still part of THD+N.
	if math.Abs(res.THDN-0.1) > 1e-6 {
		t.Fatalf("THDN = %g", res.THDN)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"no rate", Config{}},
		{"fft size", Config{SampleRate: sampleRate, FFTSize: 1000}},
		{"tiny fft", Config{SampleRate: sampleRate, FFTSize: 32}},
		{"range", Config{SampleRate: sampleRate, RangeLowerFreq: 500, RangeUpperFreq: 100}},
		{"harmonics", Config{SampleRate: sampleRate, MaxHarmonics: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewAnalyzer(tt.cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	a, err := NewAnalyzer(Config{SampleRate: sampleRate})
	if err != nil {
		t.Fatal(err)
	}
	if a.Config().FFTSize != defaultFFTSize {
		t.Fatalf("default FFT size = %d", a.Config().FFTSize)
	}
	if _, err := a.Analyze(make([]float64, 10)); err == nil {
		t.Fatal("expected short-signal error")
	}
}

func TestSilenceHasNoFundamental(t *testing.T) {
	res, err := AnalyzeSignal(make([]float64, 1024), Config{SampleRate: sampleRate, FFTSize: 1024})
	if err != nil {
		t.Fatal(err)
	}
	if res.FundamentalLevel != 0 || res.THD != 0 {
		t.Fatalf("res = %+v", res)
	}
}

func BenchmarkAnalyze(b *testing.B) {
	a, err := NewAnalyzer(Config{SampleRate: sampleRate, FFTSize: 8192})
	if err != nil {
		b.Fatal(err)
	}
	sig := tone(8192, 100, 1, 0.01)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := a.Analyze(sig); err != nil {
			b.Fatal(err)
		}
	}
}
