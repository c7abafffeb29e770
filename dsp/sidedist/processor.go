package sidedist

import "github.com/cwbudde/algo-sidedist/dsp/core"

// Channel layout of a processed block.
const (
	// MainChannels is the width of the primary pair and of the output.
	MainChannels = 2
	// SidechainOffset is the input index of the left sidechain channel.
	SidechainOffset = 2
	// InputChannels is the number of input channels a block must carry.
	InputChannels = MainChannels + 2
	// OutputChannels is the number of output channels a block must carry.
	OutputChannels = MainChannels
)

// Processor applies the sidechain clipper to audio blocks.
type Processor struct {
	params *Parameters

	// offline scratch, see ProcessInPlace64
	upper []float64
	lower []float64
}

// NewProcessor returns a processor reading from params. A nil params gets a
// private store at defaults.
func NewProcessor(params *Parameters) *Processor {
	if params == nil {
		params = NewParameters()
	}

	return &Processor{params: params}
}

// Parameters returns the shared parameter store.
func (p *Processor) Parameters() *Parameters {
	return p.params
}

// ProcessBlock clips inputs[0:2] against the envelope derived from
// inputs[2:4] and writes the result to outputs[0:2].
//
// inputs must hold at least InputChannels and outputs at least
// OutputChannels slices; this is not checked. Parameters are read once per
// call. The call never allocates, locks, or fails.
func (p *Processor) ProcessBlock(inputs, outputs [][]float32) {
	threshold := p.params.Threshold()
	gain := p.params.NormalizedGain()

	for c := 0; c < MainChannels; c++ {
		ProcessChannel(threshold, gain, inputs[c], inputs[c+SidechainOffset], outputs[c])
	}
}

// ProcessChannel runs the clipper over one channel. It processes
// min(len(program), len(sidechain), len(out)) frames. out may alias program.
func ProcessChannel(threshold, normalizedGain float32, program, sidechain, out []float32) {
	n := min(len(program), len(sidechain), len(out))
	program, sidechain, out = program[:n], sidechain[:n], out[:n]

	for i, x := range program {
		upper, lower := Envelope(threshold, sidechain[i], normalizedGain)
		out[i] = Clip(x, upper, lower)
	}
}

// ProcessInPlace64 clips program in place against sidechain using the current
// parameters, in float64. The per-frame envelope is kept and can be read back
// through LastEnvelope until the next call.
//
// This is the offline analysis path. It reuses internal scratch and only
// allocates when called with a longer buffer than before.
func (p *Processor) ProcessInPlace64(program, sidechain []float64) {
	threshold := float64(p.params.Threshold())
	gain := float64(p.params.NormalizedGain())

	n := min(len(program), len(sidechain))
	p.upper = core.EnsureLen(p.upper, n)
	p.lower = core.EnsureLen(p.lower, n)

	for i := range n {
		p.upper[i], p.lower[i] = Envelope(threshold, sidechain[i], gain)
	}

	for i := range n {
		program[i] = Clip(program[i], p.upper[i], p.lower[i])
	}
}

// LastEnvelope returns the bounds computed by the most recent
// ProcessInPlace64 call. The slices are owned by the processor.
func (p *Processor) LastEnvelope() (upper, lower []float64) {
	return p.upper, p.lower
}
