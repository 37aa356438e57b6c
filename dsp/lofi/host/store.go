package host

import (
	"fmt"
	"math"
	"sync/atomic"
)

// Snapshot is the read-only view of the parameters the modules consume.
type Snapshot interface {
	Float(id ParamID) float64
	Bool(id ParamID) bool
	Choice(id ParamID) int
}

// Values holds one value per parameter. The zero value is not useful; start
// from [Defaults].
type Values [NumParams]float64

// Defaults returns the default value of every parameter.
func Defaults() Values {
	var v Values
	for i, in := range table {
		v[i] = in.Default
	}
	return v
}

// Float returns the value of id, or 0 for unknown ids.
func (v *Values) Float(id ParamID) float64 {
	if id < 0 || id >= NumParams {
		return 0
	}
	return v[id]
}

// Bool reports whether id is set.
func (v *Values) Bool(id ParamID) bool {
	return v.Float(id) >= 0.5
}

// Choice returns the choice index of id.
func (v *Values) Choice(id ParamID) int {
	return int(math.Round(v.Float(id)))
}

// Set clamps x into the range of id and stores it.
func (v *Values) Set(id ParamID, x float64) {
	if id < 0 || id >= NumParams {
		return
	}
	v[id] = table[id].Clamp(x)
}

// Store is a concurrent parameter store. Each value is kept as float64 bits
// in an atomic word, so writers never block the audio reader.
type Store struct {
	bits [NumParams]atomic.Uint64
}

// NewStore returns a store initialised to the parameter defaults.
func NewStore() *Store {
	s := &Store{}
	s.ResetDefaults()
	return s
}

// ResetDefaults restores every parameter to its default.
func (s *Store) ResetDefaults() {
	for i, in := range table {
		s.bits[i].Store(math.Float64bits(in.Default))
	}
}

// Set stores x for id after clamping it into range.
func (s *Store) Set(id ParamID, x float64) error {
	in, ok := Describe(id)
	if !ok {
		return fmt.Errorf("host: unknown parameter id %d", int(id))
	}
	s.bits[id].Store(math.Float64bits(in.Clamp(x)))
	return nil
}

// SetByName resolves name and stores x.
func (s *Store) SetByName(name string, x float64) error {
	id, ok := Lookup(name)
	if !ok {
		return fmt.Errorf("host: unknown parameter %q", name)
	}
	return s.Set(id, x)
}

// Float returns the current value of id.
func (s *Store) Float(id ParamID) float64 {
	if id < 0 || id >= NumParams {
		return 0
	}
	return math.Float64frombits(s.bits[id].Load())
}

// Bool reports whether id is set.
func (s *Store) Bool(id ParamID) bool { return s.Float(id) >= 0.5 }

// Choice returns the choice index of id.
func (s *Store) Choice(id ParamID) int { return int(math.Round(s.Float(id))) }

// Load copies every current value into dst.
func (s *Store) Load(dst *Values) {
	for i := range dst {
		dst[i] = math.Float64frombits(s.bits[i].Load())
	}
}

// Apply sets values by name. Parameters whose group is in locked keep their
// current value. Unknown names are reported after every known name has been
// applied.
func (s *Store) Apply(values map[string]float64, locked ...Group) error {
	var unknown []string
	for name, x := range values {
		id, ok := Lookup(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		if isLocked(table[id].Group, locked) {
			continue
		}
		s.bits[id].Store(math.Float64bits(table[id].Clamp(x)))
	}
	if len(unknown) > 0 {
		return fmt.Errorf("host: unknown parameters %v", unknown)
	}
	return nil
}

// Map returns the current values keyed by parameter name.
func (s *Store) Map() map[string]float64 {
	out := make(map[string]float64, NumParams)
	for i, in := range table {
		out[in.Name] = math.Float64frombits(s.bits[i].Load())
	}
	return out
}

func isLocked(g Group, locked []Group) bool {
	for _, l := range locked {
		if g == l {
			return true
		}
	}
	return false
}

var (
	_ Snapshot = (*Store)(nil)
	_ Snapshot = (*Values)(nil)
)
