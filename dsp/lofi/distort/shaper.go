package distort

import (
	"fmt"

	"github.com/cwbudde/algo-lofi/dsp/core"
)

// Shape selects the nonlinearity.
type Shape int

const (
	// Tape is an asymmetric Padé tanh with a touch of even harmonics.
	Tape Shape = iota
	// Diode clips the two polarities at different knees.
	Diode
	// Fold folds peaks above a high threshold back toward zero.
	Fold
)

func (s Shape) String() string {
	switch s {
	case Tape:
		return "tape"
	case Diode:
		return "diode"
	case Fold:
		return "fold"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

const (
	tapeAsymmetry = 0.05
	tapeScale     = 0.7
	tapeEven      = 0.02

	diodeKnee     = 0.5
	diodeSoftness = 0.8
	diodeNegKnee  = diodeKnee * 0.8
	diodeNegSlope = diodeSoftness * 1.2

	foldThreshold = 0.8
	foldAmount    = 0.3
	foldFloor     = foldThreshold * 0.5
	foldMaxBlend  = 0.6
)

func shapeTape(x float64) float64 {
	b := x + tapeAsymmetry*x*x
	v := b * tapeScale
	v2 := v * v
	out := v * (27 + v2) / (27 + 9*v2)
	if x > 0 {
		out += tapeEven * out * out
	} else {
		out -= tapeEven * out * out
	}
	return out
}

func shapeDiode(x float64) float64 {
	if x >= 0 {
		if x < diodeKnee {
			return x
		}
		return diodeKnee + (1-diodeKnee)*core.Tanh((x-diodeKnee)*diodeSoftness)
	}
	if x > -diodeNegKnee {
		return x
	}
	return -diodeNegKnee - (1-diodeNegKnee)*core.Tanh((-x-diodeNegKnee)*diodeNegSlope)
}

func shapeFold(x float64) float64 {
	ax := x
	if ax < 0 {
		ax = -ax
	}
	if ax <= foldThreshold {
		return x
	}
	excess := ax - foldThreshold
	folded := max(foldThreshold-excess*foldAmount, foldFloor)
	if x < 0 {
		folded = -folded
	}
	blend := min(max((ax-foldThreshold)*2, 0), foldMaxBlend)
	return x*(1-blend) + folded*blend
}

func (s Shape) apply(x float64) float64 {
	switch s {
	case Diode:
		return shapeDiode(x)
	case Fold:
		return shapeFold(x)
	default:
		return shapeTape(x)
	}
}
