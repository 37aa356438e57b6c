package main

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-lofi/dsp/core"
	"github.com/cwbudde/algo-lofi/internal/wavio"
	"github.com/cwbudde/algo-lofi/measure/loudness"
)

// renderClip processes clip and returns the output channels. The output
// holds the input plus tailSeconds of decay, aligned for the chain latency.
func renderClip(s *session, clip *wavio.Clip, tailSeconds float64) ([][]float64, error) {
	if clip.Frames() == 0 {
		return nil, errors.New("input has no audio")
	}
	if err := s.prepare(float64(clip.SampleRate), len(clip.Channels)); err != nil {
		return nil, err
	}

	latency := s.chain.ActiveLatency(s.store)
	tail := int(tailSeconds * float64(clip.SampleRate))
	frames := clip.Frames() + tail
	buf := make([][]float64, len(clip.Channels))
	for ch := range buf {
		buf[ch] = make([]float64, frames+latency)
	}
	core.CopyChannels(buf, clip.Channels, clip.Frames())
	s.process(buf)

	for ch := range buf {
		buf[ch] = buf[ch][latency:]
	}
	return buf, nil
}

func outputDepth(requested, source int) int {
	if requested != 0 {
		return requested
	}
	if source == 16 || source == 24 {
		return source
	}
	return 24
}

func runRender(s *session, in, out string, bits int) error {
	log := s.log.WithFields(logrus.Fields{
		"function": "runRender",
		"in":       in,
		"out":      out,
	})

	clip, err := wavio.ReadFile(in)
	if err != nil {
		return err
	}
	start := time.Now()
	buf, err := renderClip(s, clip, s.settings.Tail)
	if err != nil {
		return errors.Wrapf(err, "failed to render %s", in)
	}
	elapsed := time.Since(start)

	depth := outputDepth(bits, clip.BitDepth)
	if err := wavio.WriteFile(out, buf, clip.SampleRate, depth); err != nil {
		return err
	}

	meter, err := loudness.New(float64(clip.SampleRate), len(buf))
	if err != nil {
		return err
	}
	if err := meter.Process(buf); err != nil {
		return err
	}

	audio := time.Duration(float64(len(buf[0])) / float64(clip.SampleRate) * float64(time.Second))
	log.WithFields(s.stats.fields()).WithFields(logrus.Fields{
		"frames":   len(buf[0]),
		"bits":     depth,
		"lufs":     meter.Integrated(),
		"elapsed":  elapsed.Round(time.Millisecond),
		"realtime": float64(audio) / float64(max(elapsed, time.Microsecond)),
	}).Info("render finished")
	if n := s.chain.Clips(); n > 0 {
		log.WithField("clips", n).Warn("output limiter engaged")
	}
	return nil
}
