package distort

import (
	"math"
	"testing"
)

func TestShapersAreIdentityNearZero(t *testing.T) {
	for _, s := range []Shape{Diode, Fold} {
		for _, x := range []float64{-0.3, -0.1, 0, 0.1, 0.3} {
			if got := s.apply(x); got != x {
				t.Fatalf("%s(%g) = %g, want linear", s, x, got)
			}
		}
	}
	if shapeTape(0) != 0 {
		t.Fatalf("tape(0) = %g", shapeTape(0))
	}
}

func TestTapeIsAsymmetric(t *testing.T) {
	pos := shapeTape(0.8)
	neg := shapeTape(-0.8)
	if math.Abs(pos+neg) < 1e-3 {
		t.Fatalf("tape should be asymmetric: %g vs %g", pos, neg)
	}
	if pos <= 0 || neg >= 0 {
		t.Fatalf("tape should keep polarity: %g, %g", pos, neg)
	}
}

func TestDiodeKnees(t *testing.T) {
	tests := []struct {
		x    float64
		want float64
	}{
		{0.5, 0.5},
		{-0.4, -0.4},
		{0.45, 0.45},
		{-0.35, -0.35},
	}
	for _, tt := range tests {
		if got := shapeDiode(tt.x); math.Abs(got-tt.want) > 1e-12 {
			t.Fatalf("diode(%g) = %g, want %g", tt.x, got, tt.want)
		}
	}
	// tanh rounds to exactly 1 for large arguments, so the rails are
	// inclusive.
	for _, x := range []float64{1, 2, 10, 100} {
		if y := shapeDiode(x); y > 1 || y <= diodeKnee {
			t.Fatalf("diode(%g) = %g outside (0.5, 1]", x, y)
		}
		if y := shapeDiode(-x); y < -1 || y >= -diodeNegKnee {
			t.Fatalf("diode(%g) = %g outside [-1, -0.4)", -x, y)
		}
	}

}

func TestFold(t *testing.T) {
	if got := shapeFold(1.0); math.Abs(got-0.896) > 1e-12 {
		t.Fatalf("fold(1) = %g, want 0.896", got)
	}
	if got := shapeFold(-1.0); math.Abs(got+0.896) > 1e-12 {
		t.Fatalf("fold(-1) = %g, want -0.896", got)
	}
	// Far above threshold the folded part sits on its floor.
	if got, want := shapeFold(5), 5*0.4+foldFloor*0.6; math.Abs(got-want) > 1e-12 {
		t.Fatalf("fold(5) = %g, want %g", got, want)
	}
}

func TestShapeString(t *testing.T) {
	if Tape.String() != "tape" || Diode.String() != "diode" || Fold.String() != "fold" {
		t.Fatal("unexpected shape names")
	}
	if Shape(7).String() != "Shape(7)" {
		t.Fatalf("got %q", Shape(7).String())
	}
}
