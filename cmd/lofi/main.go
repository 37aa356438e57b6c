// Command lofi runs audio files through the really-cheap lo-fi chain.
//
// Usage:
//
//	lofi render [flags] in.wav out.wav
//	lofi play [flags] in.wav
//	lofi analyze [--fft n] in.wav
//	lofi params [--export preset.yaml]
//	lofi macro [--steps n]
//
// Parameters are layered: the settings file (--config), then a preset
// (--preset, minus the groups named by --lock), then --set name=value.
//
// Examples:
//
//	lofi render --set macro=0.8 --set noiseOn=on --set noiseType=vinyl in.wav out.wav
//	lofi render -c studio.yaml -p tape-deck.yaml --lock space in.wav out.wav
//	lofi params --set mix=1 --export wet.yaml
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/integrii/flaggy"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-lofi/dsp/lofi/host"
)

const (
	appName = "lofi"
	appDesc = "really cheap lo-fi degradation: wobble, distortion, bit crushing, tape, noise and room"
)

var version = "unknown"

type cliFlags struct {
	config  string
	preset  string
	assets  string
	lock    []string
	set     []string
	block   int
	tail    float64
	verbose bool

	in     string
	out    string
	bits   int
	fft    int
	steps  int
	export string
}

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Fatal("lofi failed")
	}
}

func run() error {
	f := cliFlags{tail: -1, fft: 8192, steps: 10}

	parser := flaggy.NewParser(appName)
	parser.Description = appDesc
	parser.Version = version

	parser.String(&f.config, "c", "config", "YAML settings file")
	parser.String(&f.preset, "p", "preset", "YAML preset file")
	parser.String(&f.assets, "a", "assets", "directory of noise loops (vinyl*.wav, tape*.wav, jazz*.wav)")
	parser.StringSlice(&f.lock, "l", "lock", "parameter group the preset must not change")
	parser.StringSlice(&f.set, "s", "set", "parameter assignment name=value")
	parser.Int(&f.block, "b", "block", "processing block size")
	parser.Float64(&f.tail, "t", "tail", "seconds of decay rendered after the input")
	parser.Bool(&f.verbose, "v", "verbose", "debug logging")

	renderCmd := flaggy.NewSubcommand("render")
	renderCmd.Description = "process a WAV file into a new WAV file"
	renderCmd.AddPositionalValue(&f.in, "input", 1, true, "input WAV file")
	renderCmd.AddPositionalValue(&f.out, "output", 2, true, "output WAV file")
	renderCmd.Int(&f.bits, "", "bits", "output bit depth, 16 or 24 (default: input depth)")
	parser.AttachSubcommand(renderCmd, 1)

	playCmd := flaggy.NewSubcommand("play")
	playCmd.Description = "process a WAV file to the default sound device"
	playCmd.AddPositionalValue(&f.in, "input", 1, true, "input WAV file")
	parser.AttachSubcommand(playCmd, 1)

	analyzeCmd := flaggy.NewSubcommand("analyze")
	analyzeCmd.Description = "print level and harmonic statistics of a WAV file"
	analyzeCmd.AddPositionalValue(&f.in, "input", 1, true, "input WAV file")
	analyzeCmd.Int(&f.fft, "", "fft", "FFT size of the harmonic analysis")
	parser.AttachSubcommand(analyzeCmd, 1)

	paramsCmd := flaggy.NewSubcommand("params")
	paramsCmd.Description = "list parameters with their effective values"
	paramsCmd.String(&f.export, "e", "export", "write the effective values as a preset")
	parser.AttachSubcommand(paramsCmd, 1)

	macroCmd := flaggy.NewSubcommand("macro")
	macroCmd.Description = "print the macro modulation curves"
	macroCmd.Int(&f.steps, "", "steps", "number of macro steps")
	parser.AttachSubcommand(macroCmd, 1)

	if err := parser.Parse(); err != nil {
		return errors.Wrap(err, "failed to parse arguments")
	}

	log := logrus.StandardLogger()
	if f.verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	switch {
	case macroCmd.Used:
		return printMacroTable(os.Stdout, f.steps)
	case analyzeCmd.Used:
		return runAnalyze(os.Stdout, f.in, f.fft)
	}

	settings, store, err := configure(f)
	if err != nil {
		return err
	}

	switch {
	case paramsCmd.Used:
		if f.export != "" {
			if err := writePreset(f.export, Preset{Params: store.Map()}); err != nil {
				return err
			}
			log.WithField("path", f.export).Info("preset written")
		}
		return printParams(os.Stdout, store)
	case renderCmd.Used, playCmd.Used:
		s, err := newSession(settings, store, log)
		if err != nil {
			return err
		}
		if renderCmd.Used {
			return runRender(s, f.in, f.out, f.bits)
		}
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()
		return runPlay(ctx, s, f.in)
	}

	parser.ShowHelp()
	return nil
}

// configure merges the settings file, the preset and the flags.
func configure(f cliFlags) (Settings, *host.Store, error) {
	settings, err := loadSettings(f.config)
	if err != nil {
		return settings, nil, err
	}
	if f.assets != "" {
		settings.Assets = f.assets
	}
	if f.block > 0 {
		settings.BlockSize = f.block
	}
	if f.tail >= 0 {
		settings.Tail = f.tail
	}
	settings.Locked = append(settings.Locked, f.lock...)
	if err := settings.validate(); err != nil {
		return settings, nil, err
	}

	var preset *Preset
	if f.preset != "" {
		p, err := loadPreset(f.preset)
		if err != nil {
			return settings, nil, err
		}
		preset = &p
	}
	assignments, err := parseAssignments(f.set)
	if err != nil {
		return settings, nil, err
	}
	store, err := buildStore(settings, preset, assignments)
	return settings, store, err
}
