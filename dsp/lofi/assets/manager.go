// Package assets loads recorded noise loops from a directory of WAV files
// and publishes them to the audio path without locking.
package assets

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-lofi/dsp/lofi/host"
	"github.com/cwbudde/algo-lofi/internal/wavio"
)

// DefaultBudget is the total file size loaded per scan.
const DefaultBudget = 10 << 20

// Option configures a Manager.
type Option func(*Manager) error

// WithBudget caps the summed size of the files loaded by one scan.
func WithBudget(bytes int64) Option {
	return func(m *Manager) error {
		if bytes <= 0 {
			return errors.Errorf("asset budget must be > 0: %d", bytes)
		}
		m.budget = bytes
		return nil
	}
}

// WithLogger routes scan diagnostics to log.
func WithLogger(log logrus.FieldLogger) Option {
	return func(m *Manager) error {
		if log == nil {
			return errors.New("logger must not be nil")
		}
		m.log = log
		return nil
	}
}

type collection struct {
	assets []*host.Asset
	next   atomic.Uint64
}

// library is one scan result. Only the rotation counters change after it
// is published.
type library struct {
	kinds [host.NumNoiseKinds]collection
	bytes int64
}

// Manager implements host.AssetProvider over a directory of WAV files.
// Load may run concurrently with the audio goroutine reading assets.
type Manager struct {
	dir    string
	budget int64
	log    logrus.FieldLogger

	mu      sync.Mutex
	current atomic.Pointer[library]
}

// New returns a Manager for dir. Nothing is loaded until Load.
func New(dir string, opts ...Option) (*Manager, error) {
	m := &Manager{
		dir:    dir,
		budget: DefaultBudget,
		log:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// KindFromFilename maps a file name prefix to its noise character.
func KindFromFilename(name string) (host.NoiseKind, bool) {
	lower := strings.ToLower(filepath.Base(name))
	switch {
	case strings.HasPrefix(lower, "vinyl"):
		return host.NoiseVinyl, true
	case strings.HasPrefix(lower, "tape"):
		return host.NoiseTape, true
	case strings.HasPrefix(lower, "hum"):
		return host.NoiseHum, true
	case strings.HasPrefix(lower, "fan"):
		return host.NoiseFan, true
	case strings.HasPrefix(lower, "jazzclub"), strings.HasPrefix(lower, "jazz"):
		return host.NoiseJazzClub, true
	}
	return 0, false
}

// Load scans the directory and atomically replaces the published assets.
// A missing directory publishes an empty set, so every kind falls back to
// synthesis, and is reported as an error.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	log := m.log.WithFields(logrus.Fields{
		"function": "Manager.Load",
		"dir":      m.dir,
	})

	lib := &library{}
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		m.publish(lib)
		log.WithError(err).Warn("asset directory unavailable, using procedural noise")
		return errors.Wrapf(err, "failed to scan %s", m.dir)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.EqualFold(filepath.Ext(name), ".wav") {
			continue
		}
		kind, ok := KindFromFilename(name)
		if !ok {
			log.WithField("file", name).Debug("skipping file outside the naming scheme")
			continue
		}
		info, err := e.Info()
		if err != nil {
			log.WithField("file", name).WithError(err).Warn("failed to stat asset")
			continue
		}
		if lib.bytes+info.Size() > m.budget {
			log.WithFields(logrus.Fields{
				"file":   name,
				"size":   info.Size(),
				"budget": m.budget,
			}).Warn("skipping asset over budget")
			continue
		}

		a, err := loadAsset(filepath.Join(m.dir, name), kind)
		if err != nil {
			log.WithField("file", name).WithError(err).Warn("failed to load asset")
			continue
		}
		lib.bytes += info.Size()
		lib.kinds[kind].assets = append(lib.kinds[kind].assets, a)
		log.WithFields(logrus.Fields{
			"file":      name,
			"kind":      kind.String(),
			"frames":    a.Frames(),
			"loopStart": a.LoopStart,
			"loopEnd":   a.LoopEnd,
		}).Debug("loaded asset")
	}

	m.carryRotation(lib)
	m.publish(lib)

	fields := logrus.Fields{"bytes": lib.bytes}
	for k := host.NoiseKind(0); k < host.NumNoiseKinds; k++ {
		fields[k.String()] = len(lib.kinds[k].assets)
	}
	log.WithFields(fields).Info("noise assets loaded")
	return nil
}

// carryRotation keeps the round-robin position across reloads.
func (m *Manager) carryRotation(lib *library) {
	old := m.current.Load()
	if old == nil {
		return
	}
	for k := range lib.kinds {
		lib.kinds[k].next.Store(old.kinds[k].next.Load())
	}
}

func (m *Manager) publish(lib *library) {
	m.current.Store(lib)
}

func loadAsset(path string, kind host.NoiseKind) (*host.Asset, error) {
	clip, err := wavio.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if clip.Frames() < 2 {
		return nil, errors.Errorf("asset too short: %d frames", clip.Frames())
	}

	channels := clip.Channels
	if len(channels) == 1 {
		right := append([]float64(nil), channels[0]...)
		channels = [][]float64{channels[0], right}
	}
	start, end := FindLoopPoints(channels)
	return &host.Asset{
		Name:       filepath.Base(path),
		Kind:       kind,
		SampleRate: float64(clip.SampleRate),
		Channels:   channels,
		LoopStart:  start,
		LoopEnd:    end,
	}, nil
}

// AssetForType returns the current asset for kind. It never blocks.
func (m *Manager) AssetForType(kind host.NoiseKind) (*host.Asset, bool) {
	lib := m.current.Load()
	if lib == nil || !kind.Valid() {
		return nil, false
	}
	c := &lib.kinds[kind]
	if len(c.assets) == 0 {
		return nil, false
	}
	return c.assets[c.next.Load()%uint64(len(c.assets))], true
}

// NeedsProceduralFallback reports whether kind must be synthesized.
func (m *Manager) NeedsProceduralFallback(kind host.NoiseKind) bool {
	return kind.Procedural() || m.Count(kind) == 0
}

// Count returns the number of loaded assets for kind.
func (m *Manager) Count(kind host.NoiseKind) int {
	lib := m.current.Load()
	if lib == nil || !kind.Valid() {
		return 0
	}
	return len(lib.kinds[kind].assets)
}

// Rotate selects the next asset of kind and returns it.
func (m *Manager) Rotate(kind host.NoiseKind) (*host.Asset, bool) {
	lib := m.current.Load()
	if lib == nil || !kind.Valid() || len(lib.kinds[kind].assets) == 0 {
		return nil, false
	}
	c := &lib.kinds[kind]
	return c.assets[c.next.Add(1)%uint64(len(c.assets))], true
}

// Bytes returns the summed file size of the published assets.
func (m *Manager) Bytes() int64 {
	if lib := m.current.Load(); lib != nil {
		return lib.bytes
	}
	return 0
}

var _ host.AssetProvider = (*Manager)(nil)
