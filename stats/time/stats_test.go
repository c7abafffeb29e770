package time

import (
	"math"
	"testing"
)

const tolerance = 1e-10

// generateSine creates a sine wave with exactly numCycles full cycles.
func generateSine(amplitude, freq, sampleRate float64, numCycles int) []float64 {
	samplesPerCycle := int(sampleRate / freq)
	n := samplesPerCycle * numCycles
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
	}
	return out
}

func TestCalculateSine(t *testing.T) {
	s := Calculate(generateSine(1, 100, 48000, 10))

	if math.Abs(s.RMS-1/math.Sqrt2) > 1e-6 {
		t.Fatalf("RMS = %v, want 1/sqrt(2)", s.RMS)
	}
	if math.Abs(s.Peak-1) > 1e-6 {
		t.Fatalf("Peak = %v, want 1", s.Peak)
	}
	if math.Abs(s.CrestFactor-math.Sqrt2) > 1e-5 {
		t.Fatalf("CrestFactor = %v, want sqrt(2)", s.CrestFactor)
	}
	if math.Abs(s.Peak_dB) > 1e-5 {
		t.Fatalf("Peak_dB = %v, want 0", s.Peak_dB)
	}
}

func TestCalculateEmpty(t *testing.T) {
	s := Calculate(nil)
	if s.Length != 0 || !math.IsInf(s.RMS_dB, -1) || !math.IsInf(s.Peak_dB, -1) {
		t.Fatalf("Calculate(nil) = %+v", s)
	}
}

func TestCalculateSquareHasUnitCrest(t *testing.T) {
	s := Calculate([]float64{0.5, -0.5, 0.5, -0.5})
	if math.Abs(s.CrestFactor-1) > tolerance || math.Abs(s.CrestFactor_dB) > tolerance {
		t.Fatalf("crest = %v (%v dB), want 1 (0 dB)", s.CrestFactor, s.CrestFactor_dB)
	}
}

func TestPeakAndRMS(t *testing.T) {
	x := []float64{0.1, -0.8, 0.3}
	if Peak(x) != 0.8 {
		t.Fatalf("Peak = %v, want 0.8", Peak(x))
	}
	if Peak(nil) != 0 || RMS(nil) != 0 || CrestFactor(nil) != 0 {
		t.Fatal("empty input should yield zeros")
	}
	if got := Peak32([]float32{0.25, -0.75}); got != 0.75 {
		t.Fatalf("Peak32 = %v, want 0.75", got)
	}
}

func TestClipRatio(t *testing.T) {
	in := []float64{1, 0.2, -1, 0.4}
	out := []float64{0.5, 0.2, -0.5, 0.4}

	if got := ClipRatio(in, out); got != 0.5 {
		t.Fatalf("ClipRatio = %v, want 0.5", got)
	}
	if got := ClipRatio(nil, out); got != 0 {
		t.Fatalf("ClipRatio(nil) = %v, want 0", got)
	}
}

func TestPeakMeter(t *testing.T) {
	var m PeakMeter
	if m.Peak() != 0 {
		t.Fatalf("zero meter = %v", m.Peak())
	}

	m.Update([][]float32{{0.1, -0.3}, {0.2, 0.25}})
	if m.Peak() != 0.3 {
		t.Fatalf("Peak() = %v, want 0.3", m.Peak())
	}

	block := [][]float32{{0.5}}
	allocs := testing.AllocsPerRun(50, func() {
		m.Update(block)
	})
	if allocs != 0 {
		t.Fatalf("Update allocated %v times per run", allocs)
	}
}
