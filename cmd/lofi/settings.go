package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-lofi/dsp/core"
	"github.com/cwbudde/algo-lofi/dsp/lofi/host"
)

const defaultBlockSize = 512

// Settings is the YAML settings file.
type Settings struct {
	BlockSize    int                `yaml:"blockSize"`
	Assets       string             `yaml:"assets,omitempty"`
	Seed         int64              `yaml:"seed,omitempty"`
	Oversampling int                `yaml:"oversampling"`
	Tail         float64            `yaml:"tail,omitempty"`
	Locked       []string           `yaml:"locked,omitempty,flow"`
	Params       map[string]float64 `yaml:"params,omitempty"`
}

// Preset is a named set of parameter values.
type Preset struct {
	Name   string             `yaml:"name,omitempty"`
	Params map[string]float64 `yaml:"params"`
}

func defaultSettings() Settings {
	return Settings{
		BlockSize:    defaultBlockSize,
		Oversampling: 4,
	}
}

func (s Settings) validate() error {
	if s.BlockSize <= 0 || s.BlockSize > 1<<16 {
		return errors.Errorf("blockSize must be in [1, 65536]: %d", s.BlockSize)
	}
	if s.Oversampling != 2 && s.Oversampling != 4 {
		return errors.Errorf("oversampling must be 2 or 4: %d", s.Oversampling)
	}
	if s.Tail < 0 || !core.IsFinite(s.Tail) || s.Tail > 60 {
		return errors.Errorf("tail must be in [0, 60] seconds: %g", s.Tail)
	}
	for name := range s.Params {
		if _, ok := host.Lookup(name); !ok {
			return errors.Errorf("unknown parameter %q", name)
		}
	}
	_, err := lockedGroups(s.Locked)
	return err
}

// loadSettings reads path over the defaults. An empty path yields the
// defaults.
func loadSettings(path string) (Settings, error) {
	s := defaultSettings()
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return s, errors.Wrap(err, "failed to read settings")
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, errors.Wrapf(err, "failed to parse %s", path)
	}
	return s, errors.Wrapf(s.validate(), "invalid settings in %s", path)
}

func loadPreset(path string) (Preset, error) {
	var p Preset
	data, err := os.ReadFile(path)
	if err != nil {
		return p, errors.Wrap(err, "failed to read preset")
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, errors.Wrapf(err, "failed to parse %s", path)
	}
	return p, nil
}

func writePreset(path string, p Preset) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "failed to encode preset")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "failed to write %s", path)
}

func lockedGroups(names []string) ([]host.Group, error) {
	groups := make([]host.Group, 0, len(names))
	for _, n := range names {
		g, err := host.ParseGroup(strings.TrimSpace(n))
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// parseAssignments parses name=value pairs. Values may be numbers, on/off
// for toggles, or choice labels.
func parseAssignments(list []string) (map[string]float64, error) {
	out := make(map[string]float64, len(list))
	for _, a := range list {
		name, raw, ok := strings.Cut(a, "=")
		if !ok {
			return nil, errors.Errorf("expected name=value: %q", a)
		}
		id, ok := host.Lookup(strings.TrimSpace(name))
		if !ok {
			return nil, errors.Errorf("unknown parameter %q", name)
		}
		info, _ := host.Describe(id)
		v, err := parseValue(info, strings.TrimSpace(raw))
		if err != nil {
			return nil, errors.Wrapf(err, "parameter %s", info.Name)
		}
		out[info.Name] = v
	}
	return out, nil
}

func parseValue(info host.Info, raw string) (float64, error) {
	switch info.Kind {
	case host.KindBool:
		switch strings.ToLower(raw) {
		case "on", "true", "yes":
			return 1, nil
		case "off", "false", "no":
			return 0, nil
		}
	case host.KindChoice:
		if i, ok := info.ChoiceIndex(raw); ok {
			return float64(i), nil
		}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Errorf("invalid value %q", raw)
	}
	return v, nil
}

// buildStore layers the settings, the preset (minus locked groups) and the
// command-line assignments, in that order.
func buildStore(s Settings, preset *Preset, assignments map[string]float64) (*host.Store, error) {
	store := host.NewStore()
	if err := store.Apply(s.Params); err != nil {
		return nil, errors.Wrap(err, "settings")
	}
	if preset != nil {
		locked, err := lockedGroups(s.Locked)
		if err != nil {
			return nil, err
		}
		if err := store.Apply(preset.Params, locked...); err != nil {
			return nil, errors.Wrap(err, "preset")
		}
	}
	if err := store.Apply(assignments); err != nil {
		return nil, errors.Wrap(err, "command line")
	}
	return store, nil
}
