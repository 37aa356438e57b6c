package core

import (
	"math"
	"testing"
)

func TestSmootherConvergesMonotonically(t *testing.T) {
	s := NewSmoother(48000, 0.02, 0)
	s.SetTarget(1)

	prev := s.Current()
	for i := 0; i < 48000; i++ {
		v := s.Next()
		if v < prev || v > 1 {
			t.Fatalf("step %d: %v after %v is not monotonic toward 1", i, v, prev)
		}
		prev = v
	}
	if s.IsSmoothing() || s.Current() != 1 {
		t.Fatalf("current = %v, want snapped to 1", s.Current())
	}
}

func TestSmootherSkipMatchesNext(t *testing.T) {
	a := NewSmoother(44100, 0.03, 0.2)
	b := a
	a.SetTarget(0.9)
	b.SetTarget(0.9)

	for i := 0; i < 64; i++ {
		a.Next()
	}
	b.Skip(64)
	if math.Abs(a.Current()-b.Current()) > 1e-12 {
		t.Fatalf("Skip = %v, Next loop = %v", b.Current(), a.Current())
	}
}

func TestSmootherIgnoresNonFinite(t *testing.T) {
	s := NewSmoother(48000, 0.01, 0.5)
	s.SetTarget(math.NaN())
	s.SetCurrentAndTarget(math.Inf(1))
	if s.Target() != 0.5 || s.Current() != 0.5 {
		t.Fatalf("non-finite input changed smoother: %v %v", s.Current(), s.Target())
	}
}

func TestZeroSmootherPassesThrough(t *testing.T) {
	var s Smoother
	s.SetTarget(0.7)
	if got := s.Next(); got != 0.7 {
		t.Fatalf("Next = %v, want 0.7", got)
	}
}
