package main

import (
	"math"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-lofi/dsp/core"
	"github.com/cwbudde/algo-lofi/dsp/filter/biquad"
	"github.com/cwbudde/algo-lofi/dsp/lofi"
	"github.com/cwbudde/algo-lofi/dsp/lofi/assets"
	"github.com/cwbudde/algo-lofi/dsp/lofi/host"
)

// blockStats aggregates chain reports. The hook only touches atomics so it
// can run on the playback goroutine.
type blockStats struct {
	blocks   atomic.Int64
	clipped  atomic.Int64
	peakBits atomic.Uint64
}

func (b *blockStats) observe(r lofi.BlockReport) {
	b.blocks.Add(1)
	b.clipped.Add(int64(r.Clipped))
	for {
		old := b.peakBits.Load()
		if r.PeakOut <= math.Float64frombits(old) {
			return
		}
		if b.peakBits.CompareAndSwap(old, math.Float64bits(r.PeakOut)) {
			return
		}
	}
}

func (b *blockStats) fields() logrus.Fields {
	return logrus.Fields{
		"blocks":  b.blocks.Load(),
		"clipped": b.clipped.Load(),
		"peak":    math.Float64frombits(b.peakBits.Load()),
	}
}

// session wires the parameter store, the asset library and the chain.
type session struct {
	settings Settings
	store    *host.Store
	chain    *lofi.Chain
	assets   *assets.Manager
	stats    *blockStats
	log      *logrus.Entry
}

func newSession(s Settings, store *host.Store, log logrus.FieldLogger) (*session, error) {
	sess := &session{
		settings: s,
		store:    store,
		stats:    &blockStats{},
		log:      log.WithField("function", "session"),
	}

	opts := []lofi.ChainOption{
		lofi.WithOversampling(s.Oversampling),
		lofi.WithDiagnostics(sess.stats.observe),
	}
	if s.Seed != 0 {
		opts = append(opts, lofi.WithSeed(s.Seed))
	}
	if s.Assets != "" {
		m, err := assets.New(s.Assets, assets.WithLogger(log))
		if err != nil {
			return nil, errors.Wrap(err, "failed to create asset manager")
		}
		// A missing directory is not fatal: every noise type can be
		// synthesized.
		if err := m.Load(); err != nil {
			sess.log.WithError(err).Warn("continuing without noise assets")
		}
		sess.assets = m
		opts = append(opts, lofi.WithAssets(m))
	}

	chain, err := lofi.NewChain(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build chain")
	}
	sess.chain = chain
	return sess, nil
}

func (s *session) prepare(sampleRate float64, channels int) error {
	if err := s.chain.Prepare(sampleRate, s.settings.BlockSize, channels); err != nil {
		return errors.Wrap(err, "failed to prepare chain")
	}
	s.log.WithFields(logrus.Fields{
		"sampleRate": sampleRate,
		"channels":   channels,
		"blockSize":  s.settings.BlockSize,
		"latency":    s.chain.LatencySamples(),
		"kernel":     biquad.KernelName(),
	}).Debug("chain prepared")
	return nil
}

// process runs whole buffers through the chain block by block.
func (s *session) process(buf [][]float64) {
	core.ForEachBlock(buf, s.settings.BlockSize, func(win [][]float64) {
		s.chain.Process(win, host.Transport{}, s.store)
	})
}
