package plugin

import "github.com/cwbudde/algo-sidedist/dsp/sidedist"

// ParameterSet exposes indexed, normalized parameters to a host.
// Unknown indices read as 0 or "" and writes to them are ignored.
type ParameterSet interface {
	Count() int
	Value(index int) float32
	SetValue(index int, value float32)
	Text(index int) string
	Name(index int) string
}

// Plugin is an effect as seen by a host.
//
// Process is called from the audio thread and must not block or allocate.
// The ParameterSet may be used concurrently from any other goroutine.
type Plugin interface {
	Info() Info
	CanDo(c CanDo) Supported
	Parameters() ParameterSet
	Process(inputs, outputs [][]float32)
}

// SideDist identity.
const (
	SideDistName     = "SideDist"
	SideDistUniqueID = 20210808
)

// Bus names of the SideDist layout.
const (
	BusMainIn    = "Main In"
	BusSidechain = "Sidechain In"
	BusMainOut   = "Main Out"
)

// SideDist is the sidechain clipper plugin. The processor and the host share
// one parameter store.
type SideDist struct {
	params *sidedist.Parameters
	proc   *sidedist.Processor
}

var _ Plugin = (*SideDist)(nil)

// New returns a SideDist with parameters at their defaults.
func New() *SideDist {
	params := sidedist.NewParameters()

	return &SideDist{
		params: params,
		proc:   sidedist.NewProcessor(params),
	}
}

// Info implements Plugin.
func (s *SideDist) Info() Info {
	return Info{
		Name:       SideDistName,
		Vendor:     "algo-sidedist",
		Version:    "0.1.0",
		Category:   CategoryEffect,
		UniqueID:   SideDistUniqueID,
		Inputs:     sidedist.InputChannels,
		Outputs:    sidedist.OutputChannels,
		Parameters: s.params.Count(),
		Buses: []Bus{
			{Name: BusMainIn, Direction: DirectionInput, Channels: sidedist.MainChannels},
			{Name: BusSidechain, Direction: DirectionInput, Channels: sidedist.InputChannels - sidedist.SidechainOffset, Aux: true},
			{Name: BusMainOut, Direction: DirectionOutput, Channels: sidedist.OutputChannels},
		},
	}
}

// CanDo implements Plugin. MIDI input is refused; every other capability is
// answered with Maybe.
func (s *SideDist) CanDo(c CanDo) Supported {
	if c == CanDoReceiveMidiEvent {
		return No
	}

	return Maybe
}

// Parameters implements Plugin.
func (s *SideDist) Parameters() ParameterSet {
	return s.params
}

// Store returns the concrete parameter store.
func (s *SideDist) Store() *sidedist.Parameters {
	return s.params
}

// Process implements Plugin.
func (s *SideDist) Process(inputs, outputs [][]float32) {
	s.proc.ProcessBlock(inputs, outputs)
}
