package wavio

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-lofi/internal/testutil"
)

func TestWriteThenRead(t *testing.T) {
	left := testutil.DeterministicSine(440, 44100, 0.5, 1000)
	right := testutil.DeterministicSine(660, 44100, 0.25, 1000)
	for _, depth := range []int{16, 24} {
		path := filepath.Join(t.TempDir(), "clip.wav")
		if err := WriteFile(path, [][]float64{left, right}, 44100, depth); err != nil {
			t.Fatalf("WriteFile(%d): %v", depth, err)
		}
		clip, err := ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile(%d): %v", depth, err)
		}
		if clip.SampleRate != 44100 || clip.BitDepth != depth || len(clip.Channels) != 2 {
			t.Fatalf("format = %d Hz, %d bits, %d ch", clip.SampleRate, clip.BitDepth, len(clip.Channels))
		}
		eps := 2 / math.Ldexp(1, depth-1)
		testutil.RequireSliceNearlyEqual(t, clip.Channels[0], left, eps)
		testutil.RequireSliceNearlyEqual(t, clip.Channels[1], right, eps)
	}
}

func TestEncodeClips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hot.wav")
	if err := WriteFile(path, [][]float64{{2, -2, math.NaN()}}, 8000, 16); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	clip, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := []float64{32767.0 / 32768, -32767.0 / 32768, 0}
	testutil.RequireSliceNearlyEqual(t, clip.Channels[0], want, 1e-12)
}

func TestEncodeRejectsBadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	if err := WriteFile(path, [][]float64{{0}}, 8000, 12); err == nil {
		t.Fatal("expected bit depth error")
	}
	if err := WriteFile(path, [][]float64{{0, 0}, {0}}, 8000, 16); err == nil {
		t.Fatal("expected length error")
	}
	if err := WriteFile(path, nil, 8000, 16); err == nil {
		t.Fatal("expected channel error")
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode(bytes.NewReader([]byte("definitely not a wav file"))); err == nil {
		t.Fatal("expected error")
	}
}
