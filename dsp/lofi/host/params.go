package host

import (
	"fmt"
	"math"
	"strings"
)

// ParamID identifies one control.
type ParamID int

// Parameter identifiers. The order is part of the Values layout.
const (
	InGain ParamID = iota
	OutGain
	Mix
	Macro
	Bypass

	NoiseOn
	NoiseType
	NoiseLevel
	NoiseAge
	NoiseFlutterGate
	NoiseWidth
	NoisePlacement

	WobbleOn
	WobbleDepth
	WobbleRate
	WobbleFlutter
	WobbleDrift
	WobbleJitter
	WobbleStereoLink
	WobbleMono

	DistortOn
	DistortType
	DistortDrive
	DistortTone
	DistortPrePost

	DigitalOn
	DigitalBits
	DigitalSR
	DigitalJitter
	DigitalAA
	DigitalMode

	SpaceOn
	SpaceMix
	SpaceTime
	SpaceTone
	SpacePreDelay

	MagneticOn
	MagneticComp
	MagneticSat
	MagneticHeadBump
	MagneticCrosstalk
	MagneticWear

	NumParams
)

// Kind is the value type of a parameter.
type Kind int

const (
	KindFloat Kind = iota
	KindBool
	KindChoice
)

// Group is the module a parameter belongs to. Presets can lock groups.
type Group int

const (
	GroupGlobal Group = iota
	GroupNoise
	GroupWobble
	GroupDistort
	GroupDigital
	GroupSpace
	GroupMagnetic
)

var groupNames = [...]string{"global", "noise", "wobble", "distort", "digital", "space", "magnetic"}

func (g Group) String() string {
	if g >= 0 && int(g) < len(groupNames) {
		return groupNames[g]
	}
	return fmt.Sprintf("Group(%d)", int(g))
}

// ParseGroup resolves a group name.
func ParseGroup(name string) (Group, error) {
	for i, n := range groupNames {
		if strings.EqualFold(n, name) {
			return Group(i), nil
		}
	}
	return 0, fmt.Errorf("host: unknown parameter group %q", name)
}

// Info describes one parameter.
type Info struct {
	ID      ParamID
	Name    string
	Group   Group
	Kind    Kind
	Min     float64
	Max     float64
	Default float64
	Unit    string
	Choices []string
}

// Clamp limits v to the parameter range, rounding bools and choices.
func (in Info) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return in.Default
	}
	v = math.Max(in.Min, math.Min(in.Max, v))
	if in.Kind != KindFloat {
		v = math.Round(v)
	}
	return v
}

// ChoiceIndex resolves a choice label to its index.
func (in Info) ChoiceIndex(label string) (int, bool) {
	for i, c := range in.Choices {
		if strings.EqualFold(c, label) {
			return i, true
		}
	}
	return 0, false
}

func float(id ParamID, name string, g Group, lo, hi, def float64, unit string) Info {
	return Info{ID: id, Name: name, Group: g, Kind: KindFloat, Min: lo, Max: hi, Default: def, Unit: unit}
}

func toggle(id ParamID, name string, g Group, def bool) Info {
	d := 0.0
	if def {
		d = 1
	}
	return Info{ID: id, Name: name, Group: g, Kind: KindBool, Max: 1, Default: d}
}

func choice(id ParamID, name string, g Group, def int, choices ...string) Info {
	return Info{
		ID: id, Name: name, Group: g, Kind: KindChoice,
		Max: float64(len(choices) - 1), Default: float64(def), Choices: choices,
	}
}

var table = [NumParams]Info{
	float(InGain, "inGain", GroupGlobal, -24, 24, 0, "dB"),
	float(OutGain, "outGain", GroupGlobal, -24, 24, 0, "dB"),
	float(Mix, "mix", GroupGlobal, 0, 1, 0.5, ""),
	float(Macro, "macro", GroupGlobal, 0, 1, 0.3, ""),
	toggle(Bypass, "bypass", GroupGlobal, false),

	toggle(NoiseOn, "noiseOn", GroupNoise, false),
	choice(NoiseType, "noiseType", GroupNoise, 0, "vinyl", "tape", "hum", "fan", "jazzClub"),
	float(NoiseLevel, "noiseLevel", GroupNoise, -60, -6, -18, "dB"),
	float(NoiseAge, "noiseAge", GroupNoise, 0, 1, 0.4, ""),
	float(NoiseFlutterGate, "noiseFlutterGate", GroupNoise, 0, 1, 0.15, ""),
	float(NoiseWidth, "noiseWidth", GroupNoise, 0, 1, 0.8, ""),
	choice(NoisePlacement, "noisePlacement", GroupNoise, 0, "pre", "post"),

	toggle(WobbleOn, "wobbleOn", GroupWobble, true),
	float(WobbleDepth, "wobbleDepth", GroupWobble, 0, 1, 0.2, ""),
	float(WobbleRate, "wobbleRateHz", GroupWobble, 0.1, 12, 1.2, "Hz"),
	float(WobbleFlutter, "wobbleFlutter", GroupWobble, 0, 1, 0.15, ""),
	float(WobbleDrift, "wobbleDrift", GroupWobble, 0, 1, 0.25, ""),
	float(WobbleJitter, "wobbleJitter", GroupWobble, 0, 1, 0.1, ""),
	float(WobbleStereoLink, "wobbleStereoLink", GroupWobble, 0, 1, 0.7, ""),
	toggle(WobbleMono, "wobbleMono", GroupWobble, false),

	toggle(DistortOn, "distortOn", GroupDistort, true),
	choice(DistortType, "distortType", GroupDistort, 0, "tape", "diode", "fold"),
	float(DistortDrive, "distortDrive", GroupDistort, 0, 12, 4, "dB"),
	float(DistortTone, "distortTone", GroupDistort, -1, 1, 0, ""),
	choice(DistortPrePost, "distortPrePost", GroupDistort, 1, "pre", "post"),

	toggle(DigitalOn, "digitalOn", GroupDigital, false),
	float(DigitalBits, "digitalBits", GroupDigital, 4, 16, 12, "bits"),
	float(DigitalSR, "digitalSR", GroupDigital, 6000, 44100, 24000, "Hz"),
	float(DigitalJitter, "digitalJitter", GroupDigital, 0, 1, 0.1, ""),
	toggle(DigitalAA, "digitalAA", GroupDigital, true),
	choice(DigitalMode, "digitalMode", GroupDigital, 0, "character", "textbook"),

	toggle(SpaceOn, "spaceOn", GroupSpace, true),
	float(SpaceMix, "spaceMix", GroupSpace, 0, 1, 0.18, ""),
	float(SpaceTime, "spaceTime", GroupSpace, 0.1, 0.6, 0.25, ""),
	float(SpaceTone, "spaceTone", GroupSpace, -1, 1, 0, ""),
	float(SpacePreDelay, "spacePreDelayMs", GroupSpace, 0, 30, 5, "ms"),

	toggle(MagneticOn, "magOn", GroupMagnetic, true),
	float(MagneticComp, "magComp", GroupMagnetic, 0, 1, 0.3, ""),
	float(MagneticSat, "magSat", GroupMagnetic, 0, 1, 0.25, ""),
	float(MagneticHeadBump, "magHeadBumpHz", GroupMagnetic, 40, 120, 70, "Hz"),
	float(MagneticCrosstalk, "magCrosstalk", GroupMagnetic, 0, 1, 0.2, ""),
	float(MagneticWear, "magWear", GroupMagnetic, 0, 1, 0.2, ""),
}

// Describe returns the descriptor of id.
func Describe(id ParamID) (Info, bool) {
	if id < 0 || id >= NumParams {
		return Info{}, false
	}
	return table[id], true
}

// All returns every parameter descriptor in ID order.
func All() []Info {
	out := make([]Info, NumParams)
	copy(out, table[:])
	return out
}

// Lookup resolves a parameter name (case-insensitive).
func Lookup(name string) (ParamID, bool) {
	for _, in := range table {
		if strings.EqualFold(in.Name, name) {
			return in.ID, true
		}
	}
	return 0, false
}

func (id ParamID) String() string {
	if in, ok := Describe(id); ok {
		return in.Name
	}
	return fmt.Sprintf("ParamID(%d)", int(id))
}
