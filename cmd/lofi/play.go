package main

import (
	"context"
	"encoding/binary"
	"io"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-lofi/dsp/core"
	"github.com/cwbudde/algo-lofi/dsp/lofi/host"
	"github.com/cwbudde/algo-lofi/internal/wavio"
)

const bytesPerSample = 4

// streamer feeds the chain output to the sound card as float32 frames.
type streamer struct {
	s     *session
	src   [][]float64
	total int
	pos   int
	block [][]float64
	win   [][]float64
	// frames holds one interleaved block.
	frames []float64
}

func newStreamer(s *session, clip *wavio.Clip, tail int) *streamer {
	return &streamer{
		s:     s,
		src:   clip.Channels,
		total: clip.Frames() + tail,
		block: core.NewMultiBuffer(len(clip.Channels), s.settings.BlockSize),
		win:   make([][]float64, len(clip.Channels)),

		frames: make([]float64, len(clip.Channels)*s.settings.BlockSize),
	}
}

// Read implements io.Reader for oto.
func (st *streamer) Read(p []byte) (int, error) {
	nch := len(st.src)
	frameBytes := nch * bytesPerSample
	frames := len(p) / frameBytes
	if st.pos >= st.total {
		return 0, io.EOF
	}

	written := 0
	for written < frames && st.pos < st.total {
		n := min(frames-written, len(st.block[0]), st.total-st.pos)
		win := st.win
		for ch := range win {
			win[ch] = st.block[ch][:n]
			core.Zero(win[ch])
			if st.pos < len(st.src[ch]) {
				copy(win[ch], st.src[ch][st.pos:])
			}
		}
		st.s.chain.Process(win, host.Transport{}, st.s.store)

		core.Interleave(st.frames, win, n)
		out := p[written*frameBytes:]
		for i, v := range st.frames[:n*nch] {
			binary.LittleEndian.PutUint32(out[i*bytesPerSample:], math.Float32bits(float32(v)))
		}
		written += n
		st.pos += n
	}
	return written * frameBytes, nil
}

func runPlay(ctx context.Context, s *session, in string) error {
	log := s.log.WithFields(logrus.Fields{
		"function": "runPlay",
		"in":       in,
	})

	clip, err := wavio.ReadFile(in)
	if err != nil {
		return err
	}
	if len(clip.Channels) > 2 {
		return errors.Errorf("playback supports 1 or 2 channels, got %d", len(clip.Channels))
	}
	if err := s.prepare(float64(clip.SampleRate), len(clip.Channels)); err != nil {
		return err
	}

	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   clip.SampleRate,
		ChannelCount: len(clip.Channels),
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return errors.Wrap(err, "failed to open audio device")
	}
	<-ready

	tail := int(s.settings.Tail * float64(clip.SampleRate))
	player := otoCtx.NewPlayer(newStreamer(s, clip, tail))
	defer player.Close()
	player.Play()
	log.WithField("seconds", float64(clip.Frames()+tail)/float64(clip.SampleRate)).Info("playing")

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			log.Info("playback interrupted")
			return nil
		case <-ticker.C:
		}
	}
	log.WithFields(s.stats.fields()).Info("playback finished")
	return nil
}
