package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-sidedist/dsp/core"
)

// Generator creates deterministic program and sidechain test signals.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// SampleRate returns the generator sample rate.
func (g *Generator) SampleRate() float64 {
	return g.cfg.SampleRate
}

// Sine generates a sine wave starting at phase 0.
// freqHz must lie in (0, Nyquist).
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	if freqHz <= 0 || freqHz >= g.cfg.SampleRate/2 {
		return nil, fmt.Errorf("sine frequency must be in (0, %g): %f", g.cfg.SampleRate/2, freqHz)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
// Every call restarts from the configured seed.
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// DC generates a constant signal, e.g. a static sidechain offset.
func (g *Generator) DC(value float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("dc samples must be > 0: %d", samples)
	}
	out := make([]float64, samples)
	for i := range out {
		out[i] = value
	}
	return out, nil
}
