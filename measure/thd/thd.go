// Package thd measures the harmonic distortion a clipper adds to a sine.
package thd

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-sidedist/dsp/window"
)

const defaultMaxHarmonics = 10

// Config holds THD analysis parameters.
type Config struct {
	SampleRate      float64
	FundamentalFreq float64 // 0 selects the strongest bin
	MaxHarmonics    int     // harmonics 2..MaxHarmonics+1; 0 selects 10
	CaptureBins     int     // bins summed either side of a peak; 0 follows the window
	Window          window.Type
}

// Result holds THD measurement results. Harmonic figures are amplitude
// ratios relative to the fundamental.
//
//nolint:revive
type Result struct {
	FundamentalFreq  float64
	FundamentalLevel float64
	Harmonics        []float64 // index 0 is the 2nd harmonic
	THD              float64
	THD_dB           float64
	OddHD            float64
	EvenHD           float64
}

// Analyzer reuses FFT plans and scratch across calls of the same length.
type Analyzer struct {
	cfg  Config
	size int
	plan *algofft.Plan[complex128]

	win  []float64
	work []float64
	in   []complex128
	out  []complex128
	re   []float64
	im   []float64
	pow  []float64
}

// NewAnalyzer validates cfg and returns an analyzer.
func NewAnalyzer(cfg Config) (*Analyzer, error) {
	if cfg.SampleRate <= 0 || math.IsNaN(cfg.SampleRate) || math.IsInf(cfg.SampleRate, 0) {
		return nil, fmt.Errorf("thd sample rate must be positive: %f", cfg.SampleRate)
	}

	if cfg.FundamentalFreq < 0 || cfg.FundamentalFreq >= cfg.SampleRate/2 {
		return nil, fmt.Errorf("thd fundamental must be in [0, %g): %f", cfg.SampleRate/2, cfg.FundamentalFreq)
	}

	if cfg.MaxHarmonics <= 0 {
		cfg.MaxHarmonics = defaultMaxHarmonics
	}

	if cfg.CaptureBins <= 0 {
		cfg.CaptureBins = window.Info(cfg.Window).MainLobeBins
		if cfg.CaptureBins <= 0 {
			return nil, fmt.Errorf("thd window %v is not supported", cfg.Window)
		}
	}

	return &Analyzer{cfg: cfg}, nil
}

// Analyze is a one-shot THD analysis of a time-domain signal.
func Analyze(signal []float64, cfg Config) (Result, error) {
	a, err := NewAnalyzer(cfg)
	if err != nil {
		return Result{}, err
	}

	return a.Analyze(signal)
}

// Analyze windows signal (Hann unless configured), zero-pads it to the next power
// of two, and evaluates the harmonic series of the fundamental.
func (a *Analyzer) Analyze(signal []float64) (Result, error) {
	if len(signal) < 4 {
		return Result{}, errors.New("thd signal must have at least 4 samples")
	}

	if err := a.prepare(len(signal)); err != nil {
		return Result{}, err
	}

	copy(a.work, signal)
	vecmath.MulBlockInPlace(a.work, a.win)

	clear(a.in)
	for i, v := range a.work {
		a.in[i] = complex(v, 0)
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return Result{}, fmt.Errorf("thd fft: %w", err)
	}

	bins := a.size/2 + 1
	for i := 0; i < bins; i++ {
		a.re[i] = real(a.out[i])
		a.im[i] = imag(a.out[i])
	}
	vecmath.Power(a.pow, a.re, a.im)

	return a.evaluate(), nil
}

func (a *Analyzer) prepare(n int) error {
	size := nextPowerOf2(n)
	if a.plan == nil || a.size != size {
		plan, err := algofft.NewPlan64(size)
		if err != nil {
			return fmt.Errorf("thd fft plan: %w", err)
		}

		bins := size/2 + 1
		a.plan = plan
		a.size = size
		a.in = make([]complex128, size)
		a.out = make([]complex128, size)
		a.re = make([]float64, bins)
		a.im = make([]float64, bins)
		a.pow = make([]float64, bins)
	}

	if len(a.win) != n {
		a.win = window.Generate(a.cfg.Window, n, window.WithPeriodic())
		a.work = make([]float64, n)
	}

	return nil
}

func (a *Analyzer) evaluate() Result {
	binHz := a.cfg.SampleRate / float64(a.size)
	maxBin := len(a.pow) - 1
	capture := a.cfg.CaptureBins

	fundBin := a.fundamentalBin(binHz)
	if fundBin <= capture || fundBin > maxBin {
		return Result{}
	}

	fundPower := a.bandPower(fundBin, capture)
	res := Result{FundamentalFreq: float64(fundBin) * binHz}
	if fundPower <= 0 {
		return res
	}

	res.FundamentalLevel = math.Sqrt(fundPower)

	var total, odd, even float64
	for k := 2; k <= a.cfg.MaxHarmonics+1; k++ {
		bin := k * fundBin
		if bin+capture > maxBin {
			break
		}

		p := a.bandPower(bin, capture) / fundPower
		res.Harmonics = append(res.Harmonics, math.Sqrt(p))

		total += p
		if k%2 == 0 {
			even += p
		} else {
			odd += p
		}
	}

	res.THD = math.Sqrt(total)
	res.OddHD = math.Sqrt(odd)
	res.EvenHD = math.Sqrt(even)
	res.THD_dB = ratioToDB(res.THD)

	return res
}

func (a *Analyzer) fundamentalBin(binHz float64) int {
	if a.cfg.FundamentalFreq > 0 {
		return int(math.Round(a.cfg.FundamentalFreq / binHz))
	}

	best, bestVal := 1, -1.0
	for i := 1; i < len(a.pow); i++ {
		if a.pow[i] > bestVal {
			best, bestVal = i, a.pow[i]
		}
	}

	return best
}

func (a *Analyzer) bandPower(bin, capture int) float64 {
	lo := max(bin-capture, 0)
	hi := min(bin+capture, len(a.pow)-1)

	var sum float64
	for i := lo; i <= hi; i++ {
		sum += a.pow[i]
	}

	return sum
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}

func ratioToDB(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(v)
}
