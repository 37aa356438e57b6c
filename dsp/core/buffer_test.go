package core

import "testing"

func TestEnsureLenReusesCapacity(t *testing.T) {
	buf := make([]float64, 2, 8)
	got := EnsureLen(buf, 6)
	if len(got) != 6 || &got[0] != &buf[0] {
		t.Fatal("EnsureLen should reuse capacity")
	}
	if got := EnsureLen(buf, 0); len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
}

func TestMultiBufferAndFrames(t *testing.T) {
	buf := NewMultiBuffer(2, 4)
	if len(buf) != 2 || Frames(buf) != 4 {
		t.Fatalf("unexpected shape %d x %d", len(buf), Frames(buf))
	}
	buf[0][3] = 1
	if buf[1][0] != 0 {
		t.Fatal("channels must not alias")
	}
	if Frames(nil) != 0 {
		t.Fatal("Frames(nil) should be 0")
	}
}

func TestInterleaveRoundTrip(t *testing.T) {
	src := [][]float64{{1, 2, 3}, {-1, -2, -3}}
	inter := make([]float64, 6)
	Interleave(inter, src, 3)
	want := []float64{1, -1, 2, -2, 3, -3}
	for i := range want {
		if inter[i] != want[i] {
			t.Fatalf("inter[%d] = %v, want %v", i, inter[i], want[i])
		}
	}

	dst := NewMultiBuffer(2, 3)
	Deinterleave(dst, inter, 3)
	for ch := range src {
		for i := range src[ch] {
			if dst[ch][i] != src[ch][i] {
				t.Fatalf("dst[%d][%d] = %v, want %v", ch, i, dst[ch][i], src[ch][i])
			}
		}
	}
}

func TestCopyChannels(t *testing.T) {
	src := [][]float64{{1, 2}, {3, 4}}
	dst := NewMultiBuffer(2, 2)
	CopyChannels(dst, src, 2)
	if dst[1][1] != 4 || dst[0][0] != 1 {
		t.Fatalf("CopyChannels = %v", dst)
	}
}

func TestForEachBlock(t *testing.T) {
	buf := [][]float64{{0, 1, 2, 3, 4}, {5, 6, 7, 8, 9}}
	var sizes []int
	var firsts []float64
	ForEachBlock(buf, 2, func(win [][]float64) {
		sizes = append(sizes, len(win[0]))
		firsts = append(firsts, win[1][0])
	})
	if len(sizes) != 3 || sizes[0] != 2 || sizes[2] != 1 {
		t.Fatalf("block sizes = %v", sizes)
	}
	if firsts[0] != 5 || firsts[1] != 7 || firsts[2] != 9 {
		t.Fatalf("second channel starts = %v", firsts)
	}
	called := false
	ForEachBlock(nil, 4, func([][]float64) { called = true })
	ForEachBlock(buf, 0, func([][]float64) { called = true })
	if called {
		t.Fatal("empty input or zero block must not call fn")
	}
}
