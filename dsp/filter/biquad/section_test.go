package biquad

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-lofi/dsp/filter/biquad/internal/arch/generic"
	"github.com/cwbudde/algo-lofi/dsp/filter/biquad/internal/arch/registry"
)

const eps = 1e-12

func TestProcessSampleHandTraced(t *testing.T) {
	s := NewSection(Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04})

	want := []float64{0.25, 0.55, 0.35, 0.048, -0.0044, -0.0028}
	for i, w := range want {
		x := 0.0
		if i == 0 {
			x = 1
		}
		if got := s.ProcessSample(x); math.Abs(got-w) > eps {
			t.Fatalf("y[%d] = %v, want %v", i, got, w)
		}
	}
}

func TestProcessBlockMatchesSample(t *testing.T) {
	c := Coefficients{B0: 0.1, B1: 0.2, B2: 0.1, A1: -1.1, A2: 0.4}
	a := NewSection(c)
	b := NewSection(c)

	buf := make([]float64, 257)
	want := make([]float64, len(buf))
	for i := range buf {
		buf[i] = math.Sin(float64(i) * 0.13)
		want[i] = a.ProcessSample(buf[i])
	}
	b.ProcessBlock(buf)

	for i := range buf {
		if math.Abs(buf[i]-want[i]) > eps {
			t.Fatalf("sample %d: block=%v sample=%v", i, buf[i], want[i])
		}
	}
	if a.State() != b.State() {
		t.Fatalf("state mismatch %v vs %v", a.State(), b.State())
	}
}

func TestSelectedKernelMatchesGeneric(t *testing.T) {
	if KernelName() == "" {
		t.Fatal("no kernel selected")
	}

	c := registry.Coefficients{B0: 0.3, B1: -0.1, B2: 0.05, A1: -0.5, A2: 0.1}
	ref := make([]float64, 100)
	for i := range ref {
		ref[i] = float64(i%7) - 3
	}
	got := append([]float64(nil), ref...)

	generic.ProcessBlock(c, 0, 0, ref)
	s := NewSection(Coefficients{B0: c.B0, B1: c.B1, B2: c.B2, A1: c.A1, A2: c.A2})
	s.ProcessBlock(got)

	for i := range ref {
		if math.Abs(ref[i]-got[i]) > eps {
			t.Fatalf("%s kernel sample %d: %v vs %v", KernelName(), i, got[i], ref[i])
		}
	}
}

func TestSetCoefficientsKeepsState(t *testing.T) {
	s := NewSection(Coefficients{B0: 0.5, B1: 0.5})
	s.ProcessSample(1)
	before := s.State()

	s.SetCoefficients(Coefficients{B0: 1})
	if s.State() != before {
		t.Fatal("SetCoefficients must not clear state")
	}

	s.SetCoefficients(Coefficients{})
	if s.B0 != 1 {
		t.Fatal("zero coefficients should be ignored")
	}
}

func TestZeroCoefficientsLeaveFreshSectionTransparent(t *testing.T) {
	var s Section
	s.SetCoefficients(Coefficients{})
	if s.Coefficients != Identity() {
		t.Fatalf("coefficients = %+v, want identity", s.Coefficients)
	}
	if y := s.ProcessSample(0.25); y != 0.25 {
		t.Fatalf("ProcessSample = %g, want 0.25", y)
	}
}

func TestResetAndState(t *testing.T) {
	s := NewSection(Coefficients{B0: 1, B1: 1, B2: 1})
	s.ProcessSample(1)
	s.SetState([2]float64{0.5, 0.25})
	if s.State() != [2]float64{0.5, 0.25} {
		t.Fatalf("SetState not applied: %v", s.State())
	}
	s.Reset()
	if s.State() != [2]float64{} {
		t.Fatalf("Reset left state %v", s.State())
	}
}

func TestResponseHelpers(t *testing.T) {
	id := Identity()
	if db := id.MagnitudeDB(1000, 48000); math.Abs(db) > 1e-12 {
		t.Fatalf("identity magnitude = %v dB, want 0", db)
	}
	if g := id.DCGain(); g != 1 {
		t.Fatalf("identity DC gain = %v", g)
	}

	avg := Coefficients{B0: 0.5, B1: 0.5}
	if db := avg.MagnitudeDB(24000, 48000); db > -100 {
		t.Fatalf("two-tap average should null Nyquist, got %v dB", db)
	}
	if !avg.IsStable() {
		t.Fatal("FIR section must be stable")
	}
	if (Coefficients{B0: 1, A1: -2.5, A2: 1.2}).IsStable() {
		t.Fatal("poles outside the unit circle reported stable")
	}
}
