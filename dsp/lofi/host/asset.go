package host

import (
	"fmt"
	"math"
	"strings"
)

// NoiseKind selects the ambience character of the noise module.
type NoiseKind int

const (
	NoiseVinyl NoiseKind = iota
	NoiseTape
	NoiseHum
	NoiseFan
	NoiseJazzClub

	NumNoiseKinds
)

var noiseNames = [...]string{"vinyl", "tape", "hum", "fan", "jazzClub"}

func (k NoiseKind) String() string {
	if k >= 0 && k < NumNoiseKinds {
		return noiseNames[k]
	}
	return fmt.Sprintf("NoiseKind(%d)", int(k))
}

// Valid reports whether k names a known noise character.
func (k NoiseKind) Valid() bool { return k >= 0 && k < NumNoiseKinds }

// Procedural reports whether k is always synthesized.
func (k NoiseKind) Procedural() bool { return k == NoiseHum || k == NoiseFan }

// ParseNoiseKind resolves a noise character name.
func ParseNoiseKind(name string) (NoiseKind, error) {
	for i, n := range noiseNames {
		if strings.EqualFold(n, name) {
			return NoiseKind(i), nil
		}
	}
	return 0, fmt.Errorf("host: unknown noise type %q", name)
}

// Asset is decoded PCM for one noise character. It is immutable once
// published.
type Asset struct {
	Name       string
	Kind       NoiseKind
	SampleRate float64
	// Channels holds one slice per channel, all of equal length.
	Channels [][]float64
	// LoopStart and LoopEnd delimit the looped region [LoopStart, LoopEnd).
	LoopStart int
	LoopEnd   int
}

// Frames returns the number of frames per channel.
func (a *Asset) Frames() int {
	if a == nil || len(a.Channels) == 0 {
		return 0
	}
	return len(a.Channels[0])
}

// Playable reports whether the asset can be looped. The sample rate must be
// finite and positive.
func (a *Asset) Playable() bool {
	if a == nil || !(a.SampleRate > 0) || math.IsInf(a.SampleRate, 0) || len(a.Channels) == 0 {
		return false
	}
	n := a.Frames()
	for _, ch := range a.Channels {
		if len(ch) != n {
			return false
		}
	}
	return a.LoopStart >= 0 && a.LoopEnd <= n && a.LoopEnd-a.LoopStart >= 2
}

// AssetProvider hands out noise assets. Both methods are called from the
// audio goroutine and must not block.
type AssetProvider interface {
	AssetForType(kind NoiseKind) (*Asset, bool)
	NeedsProceduralFallback(kind NoiseKind) bool
}

// NoAssets is an AssetProvider without any assets.
type NoAssets struct{}

func (NoAssets) AssetForType(NoiseKind) (*Asset, bool)  { return nil, false }
func (NoAssets) NeedsProceduralFallback(NoiseKind) bool { return true }
