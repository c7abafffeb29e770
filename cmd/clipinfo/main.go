// Command clipinfo prints how the SideDist clipper shapes a test sine.
//
// Usage:
//
//	clipinfo [flags] [threshold ...]
//
// Without arguments it renders thresholds 1.0 0.75 0.5 0.25.
//
// Examples:
//
//	clipinfo
//	clipinfo -sidechain 0.5 1 0.5
//	clipinfo -sidechain 0.3 -sidechain-freq 5 -gain 0.4 0.8
//	clipinfo -freq 440 -amp 0.9 0.6 0.3
//	clipinfo -window flat-top -freq 997
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-sidedist/dsp/core"
	"github.com/cwbudde/algo-sidedist/dsp/sidedist"
	"github.com/cwbudde/algo-sidedist/dsp/signal"
	"github.com/cwbudde/algo-sidedist/dsp/window"
	"github.com/cwbudde/algo-sidedist/measure/thd"
	timestats "github.com/cwbudde/algo-sidedist/stats/time"
)

var defaultThresholds = []float64{1.0, 0.75, 0.5, 0.25}

type settings struct {
	rate        float64
	size        int
	freq        float64
	amp         float64
	sidechain   float64
	sidechainHz float64
	gain        float64
	window      window.Type
}

type row struct {
	threshold  float64
	upperMin   float64
	lowerMax   float64
	level      timestats.Stats
	clipRatio  float64
	distortion thd.Result
}

func main() {
	var s settings
	flag.Float64Var(&s.rate, "rate", 48000, "sample rate in Hz")
	flag.IntVar(&s.size, "size", 8192, "rendered length in samples")
	flag.Float64Var(&s.freq, "freq", 1000, "program sine frequency in Hz")
	flag.Float64Var(&s.amp, "amp", 1, "program sine amplitude")
	flag.Float64Var(&s.sidechain, "sidechain", 0, "sidechain amplitude")
	flag.Float64Var(&s.sidechainHz, "sidechain-freq", 0, "sidechain sine frequency in Hz (0 for DC)")
	flag.Float64Var(&s.gain, "gain", float64(sidedist.SidechainGainDefault), "sidechain gain parameter (0.2 is unity)")
	windowName := flag.String("window", window.TypeHann.String(), "analysis window: "+strings.Join(window.Names(), ", "))
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: clipinfo [flags] [threshold ...]\n\n")
		fmt.Fprintf(os.Stderr, "Renders a sine through the sidechain clipper and prints level and distortion figures.\n")
		fmt.Fprintf(os.Stderr, "Without arguments, thresholds 1.0 0.75 0.5 0.25 are rendered.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  clipinfo\n")
		fmt.Fprintf(os.Stderr, "  clipinfo -sidechain 0.5 1 0.5\n")
		fmt.Fprintf(os.Stderr, "  clipinfo -sidechain 0.3 -sidechain-freq 5 -gain 0.4 0.8\n")
		fmt.Fprintf(os.Stderr, "  clipinfo -window flat-top -freq 997\n")
	}
	flag.Parse()

	var err error
	if s.window, err = window.ParseType(*windowName); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	thresholds, err := parseThresholds(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	rows, err := render(s, thresholds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	printRows(s, rows)
}

func parseThresholds(args []string) ([]float64, error) {
	if len(args) == 0 {
		return defaultThresholds, nil
	}

	thresholds := make([]float64, 0, len(args))
	for _, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid threshold %q: %w", arg, err)
		}
		if v < 0 || v > 1 {
			return nil, fmt.Errorf("threshold %v outside [0, 1]", v)
		}
		thresholds = append(thresholds, v)
	}

	return thresholds, nil
}

func render(s settings, thresholds []float64) ([]row, error) {
	gen := signal.NewGenerator([]core.ProcessorOption{core.WithSampleRate(s.rate)})

	program, err := gen.Sine(s.freq, s.amp, s.size)
	if err != nil {
		return nil, fmt.Errorf("program: %w", err)
	}

	var sidechain []float64
	if s.sidechainHz > 0 {
		sidechain, err = gen.Sine(s.sidechainHz, s.sidechain, s.size)
	} else {
		sidechain, err = gen.DC(s.sidechain, s.size)
	}
	if err != nil {
		return nil, fmt.Errorf("sidechain: %w", err)
	}

	analyzer, err := thd.NewAnalyzer(thd.Config{
		SampleRate:      s.rate,
		FundamentalFreq: s.freq,
		Window:          s.window,
	})
	if err != nil {
		return nil, err
	}

	params := sidedist.NewParameters()
	params.SetSidechainGain(float32(s.gain))
	proc := sidedist.NewProcessor(params)

	out := make([]float64, s.size)
	rows := make([]row, 0, len(thresholds))

	for _, threshold := range thresholds {
		params.SetThreshold(float32(threshold))

		copy(out, program)
		proc.ProcessInPlace64(out, sidechain)

		res, err := analyzer.Analyze(out)
		if err != nil {
			return nil, fmt.Errorf("threshold %.2f: %w", threshold, err)
		}

		upper, lower := proc.LastEnvelope()
		rows = append(rows, row{
			threshold:  threshold,
			upperMin:   minOf(upper),
			lowerMax:   maxOf(lower),
			level:      timestats.Calculate(out),
			clipRatio:  timestats.ClipRatio(program, out),
			distortion: res,
		})
	}

	return rows, nil
}

func minOf(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	m := x[0]
	for _, v := range x[1:] {
		m = min(m, v)
	}

	return m
}

func maxOf(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	m := x[0]
	for _, v := range x[1:] {
		m = max(m, v)
	}

	return m
}

func printRows(s settings, rows []row) {
	fmt.Printf("program %.1f Hz amp %.3f, sidechain %.3f", s.freq, s.amp, s.sidechain)
	if s.sidechainHz > 0 {
		fmt.Printf(" @ %.1f Hz", s.sidechainHz)
	}
	fmt.Printf(", gain %.2f (x%.2f), %d samples @ %.0f Hz, %s window\n\n",
		s.gain, s.gain/float64(sidedist.SidechainGainDefault), s.size, s.rate, s.window)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Threshold\tUpper Min\tLower Max\tPeak [dB]\tRMS [dB]\tCrest [dB]\tClipped [%%]\tTHD [%%]\tTHD [dB]\tOdd [%%]\tEven [%%]\n"); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output header: %v\n", err)
		return
	}
	if _, err := fmt.Fprintf(tw, "---------\t---------\t---------\t---------\t--------\t----------\t-----------\t-------\t--------\t-------\t--------\n"); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output header: %v\n", err)
		return
	}

	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%.2f\t%.3f\t%.3f\t%.2f\t%.2f\t%.2f\t%.2f\t%.3f\t%.1f\t%.3f\t%.3f\n",
			r.threshold,
			r.upperMin,
			r.lowerMax,
			r.level.Peak_dB,
			r.level.RMS_dB,
			r.level.CrestFactor_dB,
			100*r.clipRatio,
			100*r.distortion.THD,
			r.distortion.THD_dB,
			100*r.distortion.OddHD,
			100*r.distortion.EvenHD,
		); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output row: %v\n", err)
			return
		}
	}
	if err := tw.Flush(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}
