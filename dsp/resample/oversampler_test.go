package resample

import (
	"errors"
	"math"
	"testing"
)

func TestHalfBandStructure(t *testing.T) {
	for _, k := range []int{stage1HalfOrder, stage2HalfOrder} {
		hb := designHalfBand(k, 7)
		if len(hb.taps) != 2*k {
			t.Fatalf("k=%d: %d taps, want %d", k, len(hb.taps), 2*k)
		}

		sum := 0.0
		for j, g := range hb.taps {
			sum += g
			if mirror := hb.taps[len(hb.taps)-1-j]; math.Abs(g-mirror) > 1e-15 {
				t.Fatalf("k=%d: taps not symmetric at %d", k, j)
			}
		}
		if math.Abs(sum-0.5) > 1e-12 {
			t.Fatalf("k=%d: even tap sum = %v, want 0.5", k, sum)
		}
	}
}

func TestOptionsValidation(t *testing.T) {
	if _, err := NewOversampler(0); err == nil {
		t.Fatal("expected error for maxBlock=0")
	}
	if _, err := NewOversampler(64, WithFactor(3)); err == nil {
		t.Fatal("expected error for factor 3")
	}
}

func TestLatency(t *testing.T) {
	o4, _ := NewOversampler(64)
	if got := o4.Latency(); got != 18.5 {
		t.Fatalf("4x latency = %v, want 18.5", got)
	}
	if got := o4.LatencySamples(); got != 19 {
		t.Fatalf("4x latency samples = %d, want 19", got)
	}

	o2, _ := NewOversampler(64, WithFactor(2))
	if got := o2.Latency(); got != 15 {
		t.Fatalf("2x latency = %v, want 15", got)
	}
}

func TestRoundTripDelaysSine(t *testing.T) {
	const (
		sr    = 48000.0
		freq  = 500.0
		block = 64
	)

	for _, factor := range []int{2, 4} {
		o, err := NewOversampler(block, WithFactor(factor))
		if err != nil {
			t.Fatal(err)
		}
		lat := o.Latency()

		buf := make([]float64, block)
		for b := 0; b < 40; b++ {
			for i := range buf {
				n := float64(b*block + i)
				buf[i] = math.Sin(2 * math.Pi * freq * n / sr)
			}
			high, err := o.Up(buf)
			if err != nil {
				t.Fatal(err)
			}
			if len(high) != factor*block {
				t.Fatalf("high len = %d", len(high))
			}
			if err := o.Down(buf, high); err != nil {
				t.Fatal(err)
			}

			if b < 2 {
				continue
			}
			for i, y := range buf {
				n := float64(b*block+i) - lat
				want := math.Sin(2 * math.Pi * freq * n / sr)
				if math.Abs(y-want) > 5e-3 {
					t.Fatalf("factor %d block %d sample %d: got %v want %v", factor, b, i, y, want)
				}
			}
		}
	}
}

func TestUpsampleRejectsImages(t *testing.T) {
	const (
		sr    = 48000.0
		tone  = 5000.0
		image = sr - tone
		n     = 4800
	)

	o, _ := NewOversampler(n)
	in := make([]float64, n)
	for i := range in {
		in[i] = math.Sin(2 * math.Pi * tone * float64(i) / sr)
	}
	high, err := o.Up(in)
	if err != nil {
		t.Fatal(err)
	}

	// Skip 10 ms of settling; the rest spans whole cycles of both tones.
	seg := high[4*480:]
	mag := func(f float64) float64 {
		var re, im float64
		for i, x := range seg {
			ph := 2 * math.Pi * f * float64(i) / (4 * sr)
			re += x * math.Cos(ph)
			im += x * math.Sin(ph)
		}
		return math.Hypot(re, im)
	}

	ratio := 20 * math.Log10(mag(image)/mag(tone))
	if ratio > -50 {
		t.Fatalf("image at %v Hz only %v dB below the tone", image, ratio)
	}
}

func TestBlockTooLarge(t *testing.T) {
	o, _ := NewOversampler(8)
	if _, err := o.Up(make([]float64, 9)); !errors.Is(err, ErrBlockTooLarge) {
		t.Fatalf("Up error = %v", err)
	}
	if err := o.Down(make([]float64, 9), make([]float64, 36)); !errors.Is(err, ErrBlockTooLarge) {
		t.Fatalf("Down error = %v", err)
	}
	if err := o.Down(make([]float64, 4), make([]float64, 3)); err == nil {
		t.Fatal("expected short high-rate error")
	}
}

func TestResetClearsHistory(t *testing.T) {
	o, _ := NewOversampler(16)
	buf := make([]float64, 16)
	for i := range buf {
		buf[i] = 1
	}
	high, _ := o.Up(buf)
	_ = o.Down(buf, high)

	o.Reset()
	zero := make([]float64, 16)
	high, _ = o.Up(zero)
	_ = o.Down(zero, high)
	for i, y := range zero {
		if y != 0 {
			t.Fatalf("sample %d = %v after reset, want 0", i, y)
		}
	}
}
