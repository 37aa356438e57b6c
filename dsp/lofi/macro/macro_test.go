package macro

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-lofi/dsp/lofi/host"
)

func TestCurvesAtZero(t *testing.T) {
	s := Curves(0)
	want := State{
		WobbleDepthGain:   1,
		WobbleFlutterGain: 1,
		MagneticCompGain:  1,
		MagneticSatGain:   1,
		DigitalBitsFloor:  16,
		DigitalSRFloorHz:  44100,
		SpaceMixCap:       0.1,
		NoiseAgeGain:      1,
	}
	if s != want {
		t.Fatalf("Curves(0) = %+v, want %+v", s, want)
	}
}

func TestCurvesAtOne(t *testing.T) {
	s := Curves(1)
	tests := []struct {
		name      string
		got, want float64
	}{
		{"wobbleDepthGain", s.WobbleDepthGain, 2},
		{"wobbleFlutterGain", s.WobbleFlutterGain, 2.5},
		{"magneticCompGain", s.MagneticCompGain, 2},
		{"magneticSatGain", s.MagneticSatGain, 1.8},
		{"distortDriveAddDB", s.DistortDriveAddDB, 12},
		{"digitalBitsFloor", s.DigitalBitsFloor, 6},
		{"digitalSRFloorHz", s.DigitalSRFloorHz, 16000},
		{"spaceMixCap", s.SpaceMixCap, 0.25},
		{"noiseLevelAddDB", s.NoiseLevelAddDB, 6},
		{"noiseAgeGain", s.NoiseAgeGain, 1.3},
	}
	for _, tt := range tests {
		if math.Abs(tt.got-tt.want) > 1e-12 {
			t.Fatalf("%s = %g, want %g", tt.name, tt.got, tt.want)
		}
	}
}

func TestCurvesMonotone(t *testing.T) {
	prev := Curves(0)
	for i := 1; i <= 1000; i++ {
		s := Curves(float64(i) / 1000)
		rising := []struct {
			name      string
			now, last float64
		}{
			{"wobbleDepthGain", s.WobbleDepthGain, prev.WobbleDepthGain},
			{"wobbleFlutterGain", s.WobbleFlutterGain, prev.WobbleFlutterGain},
			{"magneticCompGain", s.MagneticCompGain, prev.MagneticCompGain},
			{"magneticSatGain", s.MagneticSatGain, prev.MagneticSatGain},
			{"distortDriveAddDB", s.DistortDriveAddDB, prev.DistortDriveAddDB},
			{"spaceMixCap", s.SpaceMixCap, prev.SpaceMixCap},
			{"noiseLevelAddDB", s.NoiseLevelAddDB, prev.NoiseLevelAddDB},
			{"noiseAgeGain", s.NoiseAgeGain, prev.NoiseAgeGain},
		}
		for _, r := range rising {
			if r.now < r.last {
				t.Fatalf("%s decreased at m=%g: %g < %g", r.name, s.Smoothed, r.now, r.last)
			}
		}
		if s.DigitalBitsFloor > prev.DigitalBitsFloor {
			t.Fatalf("digitalBitsFloor increased at m=%g", s.Smoothed)
		}
		if s.DigitalSRFloorHz > prev.DigitalSRFloorHz {
			t.Fatalf("digitalSRFloorHz increased at m=%g", s.Smoothed)
		}
		prev = s
	}
}

func TestCurvesClampInput(t *testing.T) {
	if Curves(-1) != Curves(0) || Curves(3) != Curves(1) {
		t.Fatal("out-of-range macro values should clamp")
	}
	if Curves(math.NaN()) != Curves(0) {
		t.Fatal("NaN macro should map to 0")
	}
}

func TestControllerPrepareValidation(t *testing.T) {
	c := NewController()
	if err := c.Prepare(0, 512); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if err := c.Prepare(48000, 0); err == nil {
		t.Fatal("expected error for zero block size")
	}
	if err := c.Prepare(math.Inf(1), 64); err == nil {
		t.Fatal("expected error for infinite sample rate")
	}
}

func TestControllerResetDefault(t *testing.T) {
	c := NewController()
	if err := c.Prepare(48000, 256); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	p := host.Defaults()
	p.Set(host.Macro, 1)
	for range 100 {
		c.Tick(&p, 256)
	}
	c.Reset()
	if got := c.State().Smoothed; got != DefaultMacro {
		t.Fatalf("smoothed after reset = %g, want %g", got, DefaultMacro)
	}
}

func TestControllerSmoothingConverges(t *testing.T) {
	c := NewController()
	if err := c.Prepare(48000, 480); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	p := host.Defaults()
	p.Set(host.Macro, 1)

	first := c.Tick(&p, 480)
	// One 10 ms block covers half a time constant.
	want := 1 - (1-DefaultMacro)*math.Exp(-0.5)
	if math.Abs(first.Smoothed-want) > 1e-9 {
		t.Fatalf("after one block smoothed = %g, want %g", first.Smoothed, want)
	}
	last := first.Smoothed
	for range 200 {
		s := c.Tick(&p, 480)
		if s.Smoothed < last {
			t.Fatalf("smoothed decreased: %g < %g", s.Smoothed, last)
		}
		last = s.Smoothed
	}
	if last != 1 {
		t.Fatalf("smoothed = %g, want exactly 1", last)
	}
}

func TestMacroSweepBitsFloor(t *testing.T) {
	c := NewController()
	if err := c.Prepare(44100, 128); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	c.Reset()
	p := host.Defaults()
	p.Set(host.Macro, 0)
	for range 400 {
		c.Tick(&p, 128)
	}

	const steps = 2000
	for i := 0; i <= steps; i++ {
		p.Set(host.Macro, float64(i)/steps)
		s := c.Tick(&p, 128)
		if s.Smoothed <= 0.6 && s.DigitalBitsFloor != 16 {
			t.Fatalf("bits floor = %g at m=%g, want 16", s.DigitalBitsFloor, s.Smoothed)
		}
		if s.DigitalBitsFloor < 6 || s.DigitalBitsFloor > 16 {
			t.Fatalf("bits floor %g out of range", s.DigitalBitsFloor)
		}
	}
	var s State
	for range 400 {
		s = c.Tick(&p, 128)
	}
	if s.Smoothed != 1 || s.DigitalBitsFloor != 6 {
		t.Fatalf("at the end of the sweep m=%g bits floor=%g, want 1 and 6", s.Smoothed, s.DigitalBitsFloor)
	}
}

func TestTickWithoutPrepareJumps(t *testing.T) {
	c := NewController()
	p := host.Defaults()
	p.Set(host.Macro, 0.8)
	if got := c.Tick(&p, 64).Smoothed; got != 0.8 {
		t.Fatalf("unprepared tick = %g, want 0.8", got)
	}
}
