package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-lofi/dsp/lofi/host"
	"github.com/cwbudde/algo-lofi/dsp/lofi/macro"
)

func printParams(w io.Writer, store *host.Store) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "name\tgroup\trange\tdefault\tvalue")
	for _, in := range host.All() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			in.Name, in.Group, describeRange(in), formatValue(in, in.Default), formatValue(in, store.Float(in.ID)))
	}
	return tw.Flush()
}

func describeRange(in host.Info) string {
	switch in.Kind {
	case host.KindBool:
		return "off|on"
	case host.KindChoice:
		return strings.Join(in.Choices, "|")
	}
	r := fmt.Sprintf("%g..%g", in.Min, in.Max)
	if in.Unit != "" {
		r += " " + in.Unit
	}
	return r
}

func formatValue(in host.Info, v float64) string {
	switch in.Kind {
	case host.KindBool:
		if v >= 0.5 {
			return "on"
		}
		return "off"
	case host.KindChoice:
		i := int(v)
		if i >= 0 && i < len(in.Choices) {
			return in.Choices[i]
		}
	}
	return fmt.Sprintf("%g", v)
}

func printMacroTable(w io.Writer, steps int) error {
	if steps < 1 {
		steps = 1
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "macro\twobDepth\twobFlutter\tmagComp\tmagSat\tdriveAdd dB\tbitsFloor\tsrFloor Hz\tspaceCap\tnoiseAdd dB\tnoiseAge\t")
	for i := 0; i <= steps; i++ {
		s := macro.Curves(float64(i) / float64(steps))
		fmt.Fprintf(tw, "%.2f\t%.3f\t%.3f\t%.3f\t%.3f\t%.2f\t%.2f\t%.0f\t%.3f\t%.2f\t%.3f\t\n",
			s.Smoothed, s.WobbleDepthGain, s.WobbleFlutterGain, s.MagneticCompGain, s.MagneticSatGain,
			s.DistortDriveAddDB, s.DigitalBitsFloor, s.DigitalSRFloorHz, s.SpaceMixCap,
			s.NoiseLevelAddDB, s.NoiseAgeGain)
	}
	return tw.Flush()
}
