package host

import (
	"math"
	"sync"
	"testing"
)

func TestTableConsistent(t *testing.T) {
	for i, in := range table {
		if in.ID != ParamID(i) {
			t.Fatalf("table[%d] has id %d (%s)", i, in.ID, in.Name)
		}
		if in.Name == "" {
			t.Fatalf("table[%d] has no name", i)
		}
		if in.Default < in.Min || in.Default > in.Max {
			t.Fatalf("%s default %g outside [%g, %g]", in.Name, in.Default, in.Min, in.Max)
		}
		if in.Kind == KindChoice && len(in.Choices) < 2 {
			t.Fatalf("%s is a choice with %d entries", in.Name, len(in.Choices))
		}
		id, ok := Lookup(in.Name)
		if !ok || id != in.ID {
			t.Fatalf("Lookup(%q) = %d, %t", in.Name, id, ok)
		}
	}
}

func TestStoreDefaults(t *testing.T) {
	s := NewStore()
	tests := []struct {
		id   ParamID
		want float64
	}{
		{Macro, 0.3},
		{Mix, 0.5},
		{NoiseLevel, -18},
		{WobbleRate, 1.2},
		{DigitalSR, 24000},
		{SpacePreDelay, 5},
		{MagneticHeadBump, 70},
	}
	for _, tt := range tests {
		if got := s.Float(tt.id); got != tt.want {
			t.Fatalf("%s = %g, want %g", tt.id, got, tt.want)
		}
	}
	if s.Bool(NoiseOn) || s.Bool(DigitalOn) || !s.Bool(WobbleOn) {
		t.Fatal("unexpected default toggles")
	}
	if s.Choice(DistortPrePost) != 1 {
		t.Fatalf("distortPrePost = %d, want post", s.Choice(DistortPrePost))
	}
}

func TestStoreSetClamps(t *testing.T) {
	s := NewStore()
	if err := s.Set(Macro, 2); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := s.Float(Macro); got != 1 {
		t.Fatalf("macro = %g, want 1", got)
	}
	if err := s.Set(NoiseType, 2.7); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := s.Choice(NoiseType); got != 3 {
		t.Fatalf("noiseType = %d, want 3", got)
	}
	if err := s.Set(Mix, math.NaN()); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := s.Float(Mix); got != 0.5 {
		t.Fatalf("NaN should store the default, got %g", got)
	}
	if err := s.Set(NumParams, 1); err == nil {
		t.Fatal("expected error for unknown id")
	}
	if err := s.SetByName("nope", 1); err == nil {
		t.Fatal("expected error for unknown name")
	}
	if err := s.SetByName("DIGITALBITS", 3); err != nil {
		t.Fatalf("SetByName: %v", err)
	}
	if got := s.Float(DigitalBits); got != 4 {
		t.Fatalf("digitalBits = %g, want 4", got)
	}
}

func TestStoreApplyLocks(t *testing.T) {
	s := NewStore()
	err := s.Apply(map[string]float64{
		"noiseLevel":  -30,
		"wobbleDepth": 0.9,
		"mix":         1,
	}, GroupWobble)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if s.Float(NoiseLevel) != -30 || s.Float(Mix) != 1 {
		t.Fatal("unlocked parameters were not applied")
	}
	if s.Float(WobbleDepth) != 0.2 {
		t.Fatalf("locked wobbleDepth changed to %g", s.Float(WobbleDepth))
	}
	if err := s.Apply(map[string]float64{"bogus": 1, "mix": 0.25}); err == nil {
		t.Fatal("expected error for unknown name")
	}
	if s.Float(Mix) != 0.25 {
		t.Fatal("known names should still apply")
	}
}

func TestStoreLoadAndMap(t *testing.T) {
	s := NewStore()
	_ = s.Set(SpaceTone, -0.5)
	var v Values
	s.Load(&v)
	if v.Float(SpaceTone) != -0.5 {
		t.Fatalf("Load: spaceTone = %g", v.Float(SpaceTone))
	}
	m := s.Map()
	if len(m) != int(NumParams) || m["spaceTone"] != -0.5 {
		t.Fatalf("Map returned %d entries, spaceTone=%g", len(m), m["spaceTone"])
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for w := range 4 {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := range 1000 {
				_ = s.Set(Macro, float64((i+w)%100)/100)
			}
		}(w)
	}
	var v Values
	for range 1000 {
		s.Load(&v)
		if m := v.Float(Macro); m < 0 || m > 1 {
			t.Errorf("macro out of range: %g", m)
		}
	}
	wg.Wait()
}

func TestValuesOutOfRangeID(t *testing.T) {
	v := Defaults()
	if v.Float(-1) != 0 || v.Float(NumParams) != 0 {
		t.Fatal("unknown ids should read 0")
	}
	v.Set(NumParams, 5)
	v.Set(SpaceTime, 5)
	if v.Float(SpaceTime) != 0.6 {
		t.Fatalf("spaceTime = %g, want 0.6", v.Float(SpaceTime))
	}
}

func TestGroups(t *testing.T) {
	for _, name := range []string{"noise", "Wobble", "distort", "digital", "space", "magnetic", "global"} {
		if _, err := ParseGroup(name); err != nil {
			t.Fatalf("ParseGroup(%q): %v", name, err)
		}
	}
	if _, err := ParseGroup("reverb"); err == nil {
		t.Fatal("expected error")
	}
}
