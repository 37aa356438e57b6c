package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cwbudde/algo-lofi/internal/wavio"
	"github.com/cwbudde/algo-lofi/measure/loudness"
	"github.com/cwbudde/algo-lofi/measure/thd"
	"github.com/cwbudde/algo-lofi/stats/level"
	"github.com/cwbudde/algo-lofi/stats/spectral"
)

func runAnalyze(w io.Writer, path string, fftSize int) error {
	clip, err := wavio.ReadFile(path)
	if err != nil {
		return err
	}
	return analyzeClip(w, clip, fftSize)
}

func analyzeClip(w io.Writer, clip *wavio.Clip, fftSize int) error {
	fmt.Fprintf(w, "%d Hz, %d bit, %d channels, %d frames\n\n",
		clip.SampleRate, clip.BitDepth, len(clip.Channels), clip.Frames())

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "channel\tpeak dBFS\trms dBFS\tcrest dB\tdc\tclipped")
	for ch, data := range clip.Channels {
		s := level.Calculate(data)
		fmt.Fprintf(tw, "%d\t%.2f\t%.2f\t%.2f\t%.5f\t%d\n",
			ch, s.Peak_dB, s.RMS_dB, s.CrestFactor_dB, s.DC, s.Clipped)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	meter, err := loudness.New(float64(clip.SampleRate), len(clip.Channels))
	if err != nil {
		return err
	}
	if err := meter.Process(clip.Channels); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nloudness %.1f LUFS  range %.1f LU  max momentary %.1f LUFS\n",
		meter.Integrated(), meter.Range(), meter.MaxMomentary())

	if clip.Frames() < fftSize {
		fmt.Fprintf(w, "\ntoo short for harmonic analysis (%d < %d frames)\n", clip.Frames(), fftSize)
		return nil
	}
	a, err := thd.NewAnalyzer(thd.Config{SampleRate: float64(clip.SampleRate), FFTSize: fftSize})
	if err != nil {
		return err
	}
	mid := (clip.Frames() - fftSize) / 2
	res, err := a.Analyze(clip.Channels[0][mid:])
	if err != nil {
		return err
	}
	shape, err := spectral.Analyze(clip.Channels[0], float64(clip.SampleRate), fftSize)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\ncentroid %.0f Hz  spread %.0f Hz  rolloff %.0f Hz  flatness %.3f\n",
		shape.Centroid, shape.Spread, shape.Rolloff, shape.Flatness)
	fmt.Fprintf(w, "fundamental %.1f Hz  THD %.3f%%  THD+N %.3f%%  SINAD %.1f dB\n",
		res.FundamentalFreq, 100*res.THD, 100*res.THDN, res.SINAD)
	return nil
}
