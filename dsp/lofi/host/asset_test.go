package host

import (
	"math"
	"testing"
)

func TestNoiseKind(t *testing.T) {
	for k := NoiseVinyl; k < NumNoiseKinds; k++ {
		got, err := ParseNoiseKind(k.String())
		if err != nil || got != k {
			t.Fatalf("ParseNoiseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if !NoiseHum.Procedural() || !NoiseFan.Procedural() || NoiseVinyl.Procedural() {
		t.Fatal("unexpected procedural flags")
	}
	if NumNoiseKinds.Valid() {
		t.Fatal("NumNoiseKinds should be invalid")
	}
	info, _ := Describe(NoiseType)
	if len(info.Choices) != int(NumNoiseKinds) {
		t.Fatalf("noiseType has %d choices, want %d", len(info.Choices), NumNoiseKinds)
	}
}

func TestAssetPlayable(t *testing.T) {
	ok := &Asset{SampleRate: 48000, Channels: [][]float64{make([]float64, 10), make([]float64, 10)}, LoopStart: 2, LoopEnd: 9}
	if !ok.Playable() || ok.Frames() != 10 {
		t.Fatal("expected playable asset")
	}
	tests := []*Asset{
		nil,
		{SampleRate: 0, Channels: [][]float64{make([]float64, 10)}, LoopEnd: 10},
		{SampleRate: 48000, Channels: [][]float64{make([]float64, 10), make([]float64, 9)}, LoopEnd: 9},
		{SampleRate: 48000, Channels: [][]float64{make([]float64, 10)}, LoopStart: 5, LoopEnd: 6},
		{SampleRate: 48000, Channels: [][]float64{make([]float64, 10)}, LoopEnd: 11},
		{SampleRate: -48000, Channels: [][]float64{make([]float64, 10)}, LoopEnd: 10},
		{SampleRate: math.Inf(1), Channels: [][]float64{make([]float64, 10)}, LoopEnd: 10},
		{SampleRate: math.NaN(), Channels: [][]float64{make([]float64, 10)}, LoopEnd: 10},
	}
	for i, a := range tests {
		if a.Playable() {
			t.Fatalf("case %d should not be playable", i)
		}
	}
}

func TestNoAssets(t *testing.T) {
	var p AssetProvider = NoAssets{}
	if a, ok := p.AssetForType(NoiseVinyl); ok || a != nil {
		t.Fatal("NoAssets returned an asset")
	}
	if !p.NeedsProceduralFallback(NoiseTape) {
		t.Fatal("NoAssets should always fall back")
	}
}
