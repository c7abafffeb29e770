package sidedist

import (
	"fmt"
	"math"
	"sync/atomic"
)

// Parameter indices as exposed to hosts.
const (
	ParamThreshold = iota
	ParamSidechainGain

	paramCount
)

const (
	// ThresholdDefault is the initial clip threshold.
	ThresholdDefault float32 = 1.0
	// SidechainGainDefault is the initial sidechain gain and the divisor that
	// turns the stored gain into the effective ducking multiplier.
	SidechainGainDefault float32 = 0.2
)

var paramNames = [paramCount]string{
	ParamThreshold:     "Threshold",
	ParamSidechainGain: "Sidechain Gain",
}

// atomicFloat32 is a float32 cell backed by its IEEE-754 bits.
type atomicFloat32 struct {
	bits atomic.Uint32
}

func (a *atomicFloat32) Load() float32 {
	return math.Float32frombits(a.bits.Load())
}

func (a *atomicFloat32) Store(v float32) {
	a.bits.Store(math.Float32bits(v))
}

// Parameters holds the threshold and sidechain gain controls.
//
// Each cell is read and written atomically and independently; there is no
// consistency guarantee across the pair. All methods are safe for concurrent
// use and never block. The zero value reads 0 for both cells, use
// NewParameters for the defaults.
type Parameters struct {
	threshold     atomicFloat32
	sidechainGain atomicFloat32
}

// NewParameters returns a store initialized to the default values.
func NewParameters() *Parameters {
	p := &Parameters{}
	p.Reset()

	return p
}

// Reset restores both cells to their defaults.
func (p *Parameters) Reset() {
	p.threshold.Store(ThresholdDefault)
	p.sidechainGain.Store(SidechainGainDefault)
}

// Count returns the number of exposed parameters.
func (p *Parameters) Count() int { return paramCount }

// Threshold returns the current threshold.
func (p *Parameters) Threshold() float32 { return p.threshold.Load() }

// SetThreshold stores a new threshold.
func (p *Parameters) SetThreshold(v float32) { p.threshold.Store(v) }

// SidechainGain returns the raw stored sidechain gain.
func (p *Parameters) SidechainGain() float32 { return p.sidechainGain.Load() }

// SetSidechainGain stores a new raw sidechain gain.
func (p *Parameters) SetSidechainGain(v float32) { p.sidechainGain.Store(v) }

// NormalizedGain returns the effective ducking multiplier,
// SidechainGain()/SidechainGainDefault.
func (p *Parameters) NormalizedGain() float32 {
	return p.sidechainGain.Load() / SidechainGainDefault
}

// Value returns the value of the parameter at index, or 0 for unknown indices.
func (p *Parameters) Value(index int) float32 {
	switch index {
	case ParamThreshold:
		return p.threshold.Load()
	case ParamSidechainGain:
		return p.sidechainGain.Load()
	default:
		return 0
	}
}

// SetValue stores v into the parameter at index. Unknown indices are ignored.
// Values are expected in [0, 1] but not enforced.
func (p *Parameters) SetValue(index int, v float32) {
	switch index {
	case ParamThreshold:
		p.threshold.Store(v)
	case ParamSidechainGain:
		p.sidechainGain.Store(v)
	}
}

// Text formats the parameter for display with two decimals. The sidechain
// gain is shown as its effective multiplier. Unknown indices yield "".
func (p *Parameters) Text(index int) string {
	switch index {
	case ParamThreshold:
		return fmt.Sprintf("%.2f", p.Threshold())
	case ParamSidechainGain:
		return fmt.Sprintf("%.2f", p.NormalizedGain())
	default:
		return ""
	}
}

// Name returns the display name of the parameter, or "" for unknown indices.
func (p *Parameters) Name(index int) string {
	if index < 0 || index >= paramCount {
		return ""
	}

	return paramNames[index]
}
