// Package wavio converts between PCM WAV files and planar float64 audio.
package wavio

import (
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"

	"github.com/cwbudde/algo-lofi/dsp/core"
)

const formatFloat = 3

// Clip is decoded audio, one slice per channel.
type Clip struct {
	SampleRate int
	BitDepth   int
	Channels   [][]float64
}

// Frames returns the number of frames per channel.
func (c *Clip) Frames() int {
	if c == nil || len(c.Channels) == 0 {
		return 0
	}
	return len(c.Channels[0])
}

// Decode reads an integer PCM WAV stream. Samples are scaled to [-1, 1).
func Decode(r io.ReadSeeker) (*Clip, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, errors.New("not a valid wav stream")
	}
	if d.WavAudioFormat == formatFloat {
		return nil, errors.New("floating point wav is not supported")
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode pcm")
	}

	nch := buf.Format.NumChannels
	depth := int(d.BitDepth)
	if nch <= 0 || depth == 0 {
		return nil, errors.Errorf("bad wav format: %d channels, %d bits", nch, depth)
	}

	frames := len(buf.Data) / nch
	clip := &Clip{
		SampleRate: buf.Format.SampleRate,
		BitDepth:   depth,
		Channels:   make([][]float64, nch),
	}
	for ch := range clip.Channels {
		clip.Channels[ch] = make([]float64, frames)
	}

	scale := math.Ldexp(1, depth-1)
	offset := 0.0
	if depth == 8 {
		// 8-bit wav is unsigned.
		offset = 128
		scale = 128
	}
	flat := make([]float64, frames*nch)
	for i, v := range buf.Data[:frames*nch] {
		flat[i] = (float64(v) - offset) / scale
	}
	core.Deinterleave(clip.Channels, flat, frames)
	return clip, nil
}

// ReadFile decodes the WAV file at path.
func ReadFile(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	clip, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return clip, nil
}

// Encode writes planar audio as integer PCM with the given bit depth
// (16 or 24). Samples are clipped to [-1, 1].
func Encode(w io.WriteSeeker, channels [][]float64, sampleRate, bitDepth int) error {
	if bitDepth != 16 && bitDepth != 24 {
		return errors.Errorf("unsupported bit depth %d", bitDepth)
	}
	nch := len(channels)
	if nch == 0 {
		return errors.New("no channels to write")
	}
	frames := len(channels[0])
	for _, ch := range channels {
		if len(ch) != frames {
			return errors.New("channels differ in length")
		}
	}

	full := math.Ldexp(1, bitDepth-1) - 1
	flat := make([]float64, frames*nch)
	core.Interleave(flat, channels, frames)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: nch,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, frames*nch),
		SourceBitDepth: bitDepth,
	}
	for i, v := range flat {
		if math.IsNaN(v) {
			v = 0
		}
		v = math.Max(-1, math.Min(1, v))
		buf.Data[i] = int(math.Round(v * full))
	}

	enc := wav.NewEncoder(w, sampleRate, bitDepth, nch, 1)
	if err := enc.Write(buf); err != nil {
		return errors.Wrap(err, "failed to encode pcm")
	}
	return errors.Wrap(enc.Close(), "failed to finish wav")
}

// WriteFile encodes channels into a new WAV file at path.
func WriteFile(path string, channels [][]float64, sampleRate, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	if err := Encode(f, channels, sampleRate, bitDepth); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return errors.Wrapf(f.Close(), "failed to close %s", path)
}
