package space

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-lofi/dsp/lofi/host"
	"github.com/cwbudde/algo-lofi/dsp/lofi/macro"
	"github.com/cwbudde/algo-lofi/internal/testutil"
)

const (
	sampleRate = 48000.0
	blockSize  = 256
)

func newPrepared(t *testing.T, channels int) *Space {
	t.Helper()
	s := New()
	if err := s.Prepare(sampleRate, blockSize, channels); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	return s
}

func run(s *Space, buf [][]float64, p host.Snapshot, m macro.State) {
	testutil.Blocks(buf, blockSize, func(win [][]float64) {
		s.Process(win, host.Transport{}, p, m)
	})
}

// wetOnly returns parameters and macro state for a fully wet room.
func wetOnly() (host.Values, macro.State) {
	p := host.Defaults()
	p.Set(host.SpaceMix, 1)
	m := macro.Neutral()
	m.SpaceMixCap = 1
	return p, m
}

func energy(x []float64) float64 {
	var e float64
	for _, v := range x {
		e += v * v
	}
	return e
}

func TestPrepareValidation(t *testing.T) {
	s := New()
	if err := s.Prepare(sampleRate, blockSize, 0); err == nil {
		t.Fatal("expected error")
	}
	in := []float64{1, 0, 0.5}
	buf := testutil.Channels(append([]float64(nil), in...))
	p := host.Defaults()
	s.Process(buf, host.Transport{}, &p, macro.Neutral())
	testutil.RequireSliceNearlyEqual(t, buf[0], in, 0)
}

func TestOffPassesThrough(t *testing.T) {
	s := newPrepared(t, 2)
	in := testutil.DeterministicSine(440, sampleRate, 0.5, 2048)
	buf := testutil.Duplicate(in, 2)
	p := host.Defaults()
	p.Set(host.SpaceOn, 0)
	run(s, buf, &p, macro.Neutral())
	testutil.RequireSliceNearlyEqual(t, buf[0], in, 0)
}

func TestSilenceAfterReset(t *testing.T) {
	s := newPrepared(t, 2)
	p := host.Defaults()
	warm := testutil.Duplicate(testutil.DeterministicNoise(5, 0.5, 8192), 2)
	run(s, warm, &p, macro.Neutral())
	s.Reset()
	buf := testutil.Duplicate(make([]float64, 8192), 2)
	run(s, buf, &p, macro.Neutral())
	testutil.RequireSilent(t, buf...)
}

func TestImpulseTailDecays(t *testing.T) {
	s := newPrepared(t, 2)
	p := host.Defaults()
	n := int(5 * sampleRate)
	buf := testutil.Duplicate(testutil.Impulse(n, 0), 2)
	run(s, buf, &p, macro.Neutral())

	testutil.RequireFinite(t, buf...)
	testutil.RequireBounded(t, 1.5, buf...)

	rt, _ := Shape(p.Float(host.SpaceTime))
	first := int(TapTimesMs[0]*0.001*sampleRate) + int(p.Float(host.SpacePreDelay)*0.001*sampleRate)
	late := int(2 * rt * sampleRate)
	win := int(0.1 * sampleRate)
	for ch := range buf {
		early := energy(buf[ch][first : first+win])
		tail := energy(buf[ch][late : late+win])
		if early == 0 {
			t.Fatalf("ch%d: no first reflection", ch)
		}
		if tail >= early {
			t.Fatalf("ch%d: tail energy %g not below first reflection %g", ch, tail, early)
		}
	}
}

func TestFirstReflectionFollowsPreDelay(t *testing.T) {
	s := newPrepared(t, 1)
	p, m := wetOnly()
	p.Set(host.SpacePreDelay, 5)
	n := 4096
	buf := testutil.Channels(testutil.Impulse(n, 0))
	run(s, buf, &p, m)

	want := int(TapTimesMs[0]*0.001*sampleRate) + 240
	got := -1
	for i, v := range buf[0] {
		if v != 0 {
			got = i
			break
		}
	}
	if got != want {
		t.Fatalf("first wet sample at %d, want %d", got, want)
	}
}

func TestSecondChannelIsInverted(t *testing.T) {
	s := newPrepared(t, 2)
	p, m := wetOnly()
	buf := testutil.Duplicate(testutil.DeterministicNoise(9, 0.5, 16384), 2)
	run(s, buf, &p, m)
	want := make([]float64, len(buf[0]))
	for i, v := range buf[0] {
		want[i] = widenGain * v
	}
	testutil.RequireSliceNearlyEqual(t, buf[1], want, 1e-12)
}

func TestFeedbackRange(t *testing.T) {
	tests := []struct {
		rt   float64
		want float64
	}{
		{0, 0.4},
		{1.2, 0.4},
		{3.6, 0.525},
		{6, 0.65},
		{60, 0.65},
	}
	for _, tt := range tests {
		if got := Feedback(tt.rt); math.Abs(got-tt.want) > 1e-12 {
			t.Fatalf("Feedback(%g) = %g, want %g", tt.rt, got, tt.want)
		}
	}
}

func TestMixCap(t *testing.T) {
	p := host.Defaults()
	p.Set(host.SpaceMix, 0.9)
	m := macro.Neutral()
	if got := Mix(&p, m); got != 0.25 {
		t.Fatalf("Mix with low cap = %g, want 0.25", got)
	}
	m.SpaceMixCap = 0.6
	if got := Mix(&p, m); got != 0.6 {
		t.Fatalf("Mix with cap 0.6 = %g", got)
	}
	p.Set(host.SpaceMix, 0.1)
	if got := Mix(&p, m); got != 0.1 {
		t.Fatalf("Mix below cap = %g", got)
	}
}

func TestTilt(t *testing.T) {
	low, high := Tilt(1, sampleRate)
	if db := high.MagnitudeDB(16000, sampleRate); db < 6 {
		t.Fatalf("bright high shelf = %.2f dB", db)
	}
	if db := low.MagnitudeDB(20, sampleRate); db > -1.5 {
		t.Fatalf("bright low shelf = %.2f dB", db)
	}
	low, high = Tilt(-1, sampleRate)
	if db := high.MagnitudeDB(16000, sampleRate); db > -6 {
		t.Fatalf("dark high shelf = %.2f dB", db)
	}
	if db := low.MagnitudeDB(20, sampleRate); db < 1.5 {
		t.Fatalf("dark low shelf = %.2f dB", db)
	}
}

func BenchmarkProcess(b *testing.B) {
	s := New()
	if err := s.Prepare(sampleRate, blockSize, 2); err != nil {
		b.Fatal(err)
	}
	buf := testutil.Duplicate(testutil.DeterministicSine(440, sampleRate, 0.5, blockSize), 2)
	p := host.Defaults()
	m := macro.Neutral()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Process(buf, host.Transport{}, &p, m)
	}
}
