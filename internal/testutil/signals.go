package testutil

import (
	"math"
	"math/rand"
	"strconv"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicSine32 is DeterministicSine rounded to float32 samples.
func DeterministicSine32(freqHz, sampleRate, amplitude float64, length int) []float32 {
	src := DeterministicSine(freqHz, sampleRate, amplitude, length)
	out := make([]float32, length)
	for i, v := range src {
		out[i] = float32(v)
	}
	return out
}

// DeterministicNoise32 generates float32 white noise with a fixed seed.
func DeterministicNoise32(seed int64, amplitude float32, length int) []float32 {
	out := make([]float32, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float32()*2 - 1) * amplitude
	}
	return out
}

// DC32 generates a constant-valued float32 signal.
func DC32(value float32, length int) []float32 {
	out := make([]float32, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// SizeName formats a block size for sub-benchmark names.
func SizeName(n int) string {
	return "n=" + strconv.Itoa(n)
}
