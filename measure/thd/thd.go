// Package thd measures harmonic distortion of a steady sine with an
// FFT-based analyzer.
package thd

import (
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"

	"github.com/cwbudde/algo-lofi/dsp/window"
)

const (
	defaultFFTSize      = 8192
	defaultRangeLowerHz = 20.0
	defaultRangeUpperHz = 20000.0
)

// Config holds analyzer parameters. Zero fields take defaults.
type Config struct {
	SampleRate float64
	FFTSize    int
	// FundamentalFreq pins the fundamental. Zero searches for the
	// strongest bin inside the range.
	FundamentalFreq float64
	RangeLowerFreq  float64
	RangeUpperFreq  float64
	MaxHarmonics    int
	Window          window.Type
}

// Result holds one measurement. Ratios are amplitude ratios relative to
// the fundamental.
//
//nolint:revive
type Result struct {
	FundamentalFreq  float64
	FundamentalLevel float64
	THD              float64
	THDN             float64
	THD_dB           float64
	THDN_dB          float64
	OddHD            float64
	EvenHD           float64
	Noise            float64
	Harmonics        []float64
	SINAD            float64
}

// Analyzer owns the FFT plan and scratch buffers for one configuration.
// It is not safe for concurrent use.
type Analyzer struct {
	cfg     Config
	forward func(dst, src []complex128) error
	win     []float64
	winPow  float64
	in      []complex128
	out     []complex128
	power   []float64
}

// NewAnalyzer validates cfg and builds the FFT plan.
func NewAnalyzer(cfg Config) (*Analyzer, error) {
	if !(cfg.SampleRate > 0) || math.IsInf(cfg.SampleRate, 0) {
		return nil, fmt.Errorf("thd: sample rate must be > 0: %f", cfg.SampleRate)
	}
	if cfg.FFTSize == 0 {
		cfg.FFTSize = defaultFFTSize
	}
	if cfg.FFTSize < 64 || cfg.FFTSize&(cfg.FFTSize-1) != 0 {
		return nil, fmt.Errorf("thd: FFT size must be a power of two >= 64: %d", cfg.FFTSize)
	}
	if cfg.RangeLowerFreq <= 0 {
		cfg.RangeLowerFreq = defaultRangeLowerHz
	}
	if cfg.RangeUpperFreq <= 0 {
		cfg.RangeUpperFreq = math.Min(defaultRangeUpperHz, 0.5*cfg.SampleRate)
	}
	if cfg.RangeUpperFreq < cfg.RangeLowerFreq {
		return nil, fmt.Errorf("thd: range [%g, %g] Hz is empty", cfg.RangeLowerFreq, cfg.RangeUpperFreq)
	}
	if cfg.MaxHarmonics < 0 {
		return nil, fmt.Errorf("thd: max harmonics must be >= 0: %d", cfg.MaxHarmonics)
	}

	plan, err := algofft.NewPlan64(cfg.FFTSize)
	if err != nil {
		return nil, fmt.Errorf("thd: %w", err)
	}

	win := window.Periodic(cfg.Window, cfg.FFTSize)
	var winPow float64
	for _, w := range win {
		winPow += w * w
	}
	return &Analyzer{
		cfg:     cfg,
		forward: plan.Forward,
		win:     win,
		winPow:  winPow,
		in:      make([]complex128, cfg.FFTSize),
		out:     make([]complex128, cfg.FFTSize),
		power:   make([]float64, cfg.FFTSize/2+1),
	}, nil
}

// Config returns the effective configuration.
func (a *Analyzer) Config() Config { return a.cfg }

// Analyze measures the first FFTSize samples of signal.
func (a *Analyzer) Analyze(signal []float64) (Result, error) {
	n := a.cfg.FFTSize
	if len(signal) < n {
		return Result{}, fmt.Errorf("thd: need %d samples, got %d", n, len(signal))
	}
	for i, x := range signal[:n] {
		a.in[i] = complex(x*a.win[i], 0)
	}
	if err := a.forward(a.out, a.in); err != nil {
		return Result{}, fmt.Errorf("thd: %w", err)
	}
	for i := range a.power {
		x := a.out[i]
		a.power[i] = real(x)*real(x) + imag(x)*imag(x)
	}
	return a.fromPower(), nil
}

// fromPower evaluates the metrics on the one-sided power spectrum.
func (a *Analyzer) fromPower() Result {
	cfg := a.cfg
	maxBin := len(a.power) - 1
	binHz := cfg.SampleRate / float64(cfg.FFTSize)
	lobe := cfg.Window.MainLobeBins()

	lower := clampInt(int(math.Round(cfg.RangeLowerFreq/binHz)), lobe+1, maxBin)
	upper := clampInt(int(math.Round(cfg.RangeUpperFreq/binHz)), lower, maxBin)

	fund := a.findFundamental(lower, upper, binHz)
	pf := a.band(fund, lobe)
	res := Result{FundamentalFreq: float64(fund) * binHz}
	if pf <= 0 {
		return res
	}
	// A sine of amplitude A puts N·A²·Σw²/4 into its positive-frequency
	// main lobe.
	res.FundamentalLevel = math.Sqrt(4 * pf / (float64(cfg.FFTSize) * a.winPow))

	var ph, odd, even float64
	for k := 2; ; k++ {
		if cfg.MaxHarmonics > 0 && k-1 > cfg.MaxHarmonics {
			break
		}
		bin := k * fund
		if bin > upper {
			break
		}
		p := a.band(bin, lobe)
		ph += p
		if k%2 == 0 {
			even += p
		} else {
			odd += p
		}
		res.Harmonics = append(res.Harmonics, math.Sqrt(p/pf))
	}

	var total float64
	for _, p := range a.power[lower : upper+1] {
		total += p
	}
	rest := math.Max(0, total-pf)

	res.THD = math.Sqrt(ph / pf)
	res.THDN = math.Sqrt(rest / pf)
	res.OddHD = math.Sqrt(odd / pf)
	res.EvenHD = math.Sqrt(even / pf)
	res.Noise = math.Sqrt(math.Max(0, rest-ph) / pf)
	res.THD_dB = ratioToDB(res.THD)
	res.THDN_dB = ratioToDB(res.THDN)
	res.SINAD = math.Inf(1)
	if res.THDN > 0 {
		res.SINAD = -res.THDN_dB
	}
	return res
}

func (a *Analyzer) findFundamental(lower, upper int, binHz float64) int {
	if a.cfg.FundamentalFreq > 0 {
		return clampInt(int(math.Round(a.cfg.FundamentalFreq/binHz)), lower, upper)
	}
	best := lower
	for i := lower; i <= upper; i++ {
		if a.power[i] > a.power[best] {
			best = i
		}
	}
	return best
}

// band sums the power within lobe bins of bin.
func (a *Analyzer) band(bin, lobe int) float64 {
	lo := max(bin-lobe, 0)
	hi := min(bin+lobe, len(a.power)-1)
	var sum float64
	for _, p := range a.power[lo : hi+1] {
		sum += p
	}
	return sum
}

// AnalyzeSignal is a one-shot measurement. Short signals are zero-padded
// to the FFT size.
func AnalyzeSignal(signal []float64, cfg Config) (Result, error) {
	a, err := NewAnalyzer(cfg)
	if err != nil {
		return Result{}, err
	}
	if len(signal) < a.cfg.FFTSize {
		padded := make([]float64, a.cfg.FFTSize)
		copy(padded, signal)
		signal = padded
	}
	return a.Analyze(signal)
}

func ratioToDB(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(v)
}

func clampInt(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
