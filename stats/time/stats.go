package time

import (
	"math"
	"sync/atomic"
)

// Stats holds level statistics of a rendered signal.
//
//nolint:revive
type Stats struct {
	Length         int
	RMS            float64
	RMS_dB         float64
	Peak           float64 // max |x|
	Peak_dB        float64
	CrestFactor    float64 // peak / RMS (linear)
	CrestFactor_dB float64
}

// ampTodB converts an amplitude value to decibels: 20 * log10(|value|).
// Returns -Inf for zero values.
func ampTodB(value float64) float64 {
	a := math.Abs(value)
	if a == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(a)
}

// Calculate computes level statistics in a single pass.
func Calculate(signal []float64) Stats {
	n := len(signal)
	if n == 0 {
		return Stats{
			RMS_dB:         math.Inf(-1),
			Peak_dB:        math.Inf(-1),
			CrestFactor_dB: math.Inf(-1),
		}
	}

	var sumSq, peak float64
	for _, x := range signal {
		sumSq += x * x
		if a := math.Abs(x); a > peak {
			peak = a
		}
	}

	rms := math.Sqrt(sumSq / float64(n))

	var crest float64
	if rms > 0 {
		crest = peak / rms
	}

	return Stats{
		Length:         n,
		RMS:            rms,
		RMS_dB:         ampTodB(rms),
		Peak:           peak,
		Peak_dB:        ampTodB(peak),
		CrestFactor:    crest,
		CrestFactor_dB: ampTodB(crest),
	}
}

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	var sumSq float64
	for _, x := range signal {
		sumSq += x * x
	}

	return math.Sqrt(sumSq / float64(len(signal)))
}

// Peak returns the peak absolute amplitude of the signal.
func Peak(signal []float64) float64 {
	var peak float64
	for _, x := range signal {
		if a := math.Abs(x); a > peak {
			peak = a
		}
	}

	return peak
}

// Peak32 is Peak for float32 samples. It does not allocate.
func Peak32(signal []float32) float32 {
	var peak float32
	for _, x := range signal {
		if x < 0 {
			x = -x
		}
		if x > peak {
			peak = x
		}
	}

	return peak
}

// CrestFactor returns the crest factor (peak / RMS) of the signal.
// Returns 0 if RMS is zero.
func CrestFactor(signal []float64) float64 {
	r := RMS(signal)
	if r == 0 {
		return 0
	}

	return Peak(signal) / r
}

// ClipRatio returns the fraction of samples a processor changed, comparing
// in and out sample by sample over their common prefix.
func ClipRatio(in, out []float64) float64 {
	n := min(len(in), len(out))
	if n == 0 {
		return 0
	}

	var clipped int
	for i := range n {
		if in[i] != out[i] {
			clipped++
		}
	}

	return float64(clipped) / float64(n)
}

// PeakMeter publishes the peak of the most recent audio block from the audio
// thread to a reader on another goroutine. It is lock-free and never
// allocates; readers see some recently stored value.
type PeakMeter struct {
	bits atomic.Uint32
}

// Update stores the peak across all channels of a block.
func (m *PeakMeter) Update(channels [][]float32) {
	var peak float32
	for _, ch := range channels {
		peak = max(peak, Peak32(ch))
	}
	m.bits.Store(math.Float32bits(peak))
}

// Peak returns the last stored peak.
func (m *PeakMeter) Peak() float32 {
	return math.Float32frombits(m.bits.Load())
}
