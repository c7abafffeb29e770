package core

import (
	"fmt"
	"math"
)

const (
	defaultSampleRate = 48000
	defaultBlockSize  = 512
	maxBlockSize      = 1 << 16
)

// ProcessorConfig defines common DSP processing settings shared by the
// offline renderers and the live device host.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns 48 kHz with a 512-frame block.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: defaultSampleRate,
		BlockSize:  defaultBlockSize,
	}
}

// WithSampleRate sets the processing sample rate. Non-positive values are ignored.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the maximum number of frames handed to a processor per call.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// Validate reports whether the config can drive a processor.
func (c ProcessorConfig) Validate() error {
	if c.SampleRate <= 0 || math.IsNaN(c.SampleRate) || math.IsInf(c.SampleRate, 0) {
		return fmt.Errorf("sample rate must be positive and finite: %f", c.SampleRate)
	}

	if c.BlockSize <= 0 || c.BlockSize > maxBlockSize {
		return fmt.Errorf("block size must be in [1, %d]: %d", maxBlockSize, c.BlockSize)
	}

	return nil
}
