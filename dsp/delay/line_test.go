package delay

import (
	"math"
	"testing"
)

func TestNewValidation(t *testing.T) {
	for _, size := range []int{0, -1} {
		if _, err := New(size); err == nil {
			t.Fatalf("expected error for size=%d", size)
		}
	}
}

func TestReadIntegerDelay(t *testing.T) {
	d, err := New(8)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= 5; i++ {
		d.Write(float64(i))
	}

	tests := []struct {
		delay int
		want  float64
	}{
		{delay: 0, want: 5},
		{delay: 1, want: 4},
		{delay: 4, want: 1},
		{delay: 5, want: 0},
		{delay: -3, want: 5},
		{delay: 99, want: 0},
	}
	for _, tt := range tests {
		if got := d.Read(tt.delay); got != tt.want {
			t.Fatalf("Read(%d) = %v, want %v", tt.delay, got, tt.want)
		}
	}
}

func TestWrapAround(t *testing.T) {
	d, _ := New(4)
	for i := 1; i <= 10; i++ {
		d.Write(float64(i))
	}
	if d.Read(0) != 10 || d.Read(3) != 7 {
		t.Fatalf("after wrap: Read(0)=%v Read(3)=%v", d.Read(0), d.Read(3))
	}
}

func TestFractionalReads(t *testing.T) {
	d, _ := New(32)
	for i := 0; i < 32; i++ {
		d.Write(float64(i))
	}
	// Newest is 31, so delay k reads 31-k on a ramp.
	if got := d.ReadLinear(2.5); math.Abs(got-28.5) > 1e-12 {
		t.Fatalf("ReadLinear(2.5) = %v, want 28.5", got)
	}
	if got := d.ReadHermite(10.25); math.Abs(got-20.75) > 1e-12 {
		t.Fatalf("ReadHermite(10.25) = %v, want 20.75", got)
	}
	if got := d.ReadHermite(math.NaN()); got != 31 {
		t.Fatalf("ReadHermite(NaN) = %v, want newest sample", got)
	}
	if got := d.ReadHermite(1e9); got != d.Read(29) {
		t.Fatalf("ReadHermite(huge) = %v, want clamped read", got)
	}
}

func TestZeroValueAndReset(t *testing.T) {
	var z Line
	z.Write(1)
	if z.Read(0) != 0 || z.ReadHermite(3) != 0 || z.Len() != 0 {
		t.Fatal("zero Line must read silence")
	}

	d, _ := New(8)
	d.Write(1)
	d.Reset()
	for i := 0; i < 8; i++ {
		if d.Read(i) != 0 {
			t.Fatalf("Read(%d) after reset = %v", i, d.Read(i))
		}
	}
}
