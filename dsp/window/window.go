// Package window generates the analysis windows used to measure clipper
// distortion.
//
// All windows are sums of cosines over a normalized position x in [0, 1].
// The periodic form (WithPeriodic) is the one to use for FFT framing.
package window

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Type identifies a window function.
type Type int

const (
	TypeHann Type = iota
	TypeHamming
	TypeBlackmanHarris4Term
	TypeFlatTop
	TypeRectangular
)

// Metadata holds spectral properties of a window type.
type Metadata struct {
	Name         string
	ENBW         float64 // equivalent noise bandwidth in bins
	CoherentGain float64
	// MainLobeBins is the distance from the main-lobe peak to its first null,
	// i.e. how many bins either side of a tone carry its energy.
	MainLobeBins int
}

var (
	hannCoeffs            = []float64{0.5, -0.5}
	hammingCoeffs         = []float64{0.54, -0.46}
	blackmanHarris4Coeffs = []float64{0.35875, -0.48829, 0.14128, -0.01168}
	flatTopCoeffs         = []float64{0.21557895, -0.41663158, 0.277263158, -0.083578947, 0.006947368}
)

var metadataByType = map[Type]Metadata{
	TypeHann:                {Name: "hann", ENBW: 1.5, CoherentGain: 0.5, MainLobeBins: 2},
	TypeHamming:             {Name: "hamming", ENBW: 1.3628, CoherentGain: 0.54, MainLobeBins: 2},
	TypeBlackmanHarris4Term: {Name: "blackman-harris", ENBW: 2.0044, CoherentGain: 0.35875, MainLobeBins: 4},
	TypeFlatTop:             {Name: "flat-top", ENBW: 3.7702, CoherentGain: 0.21557895, MainLobeBins: 5},
	TypeRectangular:         {Name: "rectangular", ENBW: 1, CoherentGain: 1, MainLobeBins: 1},
}

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic configures periodic form (FFT framing) instead of symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns window coefficients of the given length.
// Unknown types generate a rectangular window.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	for i := range out {
		out[i] = evalWindow(t, samplePosition(i, length, cfg.periodic))
	}

	return out
}

// Info returns static metadata for a window type.
func Info(t Type) Metadata {
	if m, ok := metadataByType[t]; ok {
		return m
	}

	return Metadata{}
}

func (t Type) String() string {
	if m, ok := metadataByType[t]; ok {
		return m.Name
	}

	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType looks a window up by its metadata name, case-insensitively.
func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, m := range metadataByType {
		if m.Name == name {
			return t, nil
		}
	}

	return 0, fmt.Errorf("unknown window %q (known: %s)", name, strings.Join(Names(), ", "))
}

// Names returns the known window names in sorted order.
func Names() []string {
	names := make([]string, 0, len(metadataByType))
	for _, m := range metadataByType {
		names = append(names, m.Name)
	}
	sort.Strings(names)

	return names
}

func evalWindow(t Type, x float64) float64 {
	switch t {
	case TypeHann:
		return cosineFromCoeffs(x, hannCoeffs)
	case TypeHamming:
		return cosineFromCoeffs(x, hammingCoeffs)
	case TypeBlackmanHarris4Term:
		return cosineFromCoeffs(x, blackmanHarris4Coeffs)
	case TypeFlatTop:
		return cosineFromCoeffs(x, flatTopCoeffs)
	default:
		return 1
	}
}

func cosineFromCoeffs(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}

	return sum
}

func samplePosition(n, size int, periodic bool) float64 {
	if size <= 1 {
		return 0
	}

	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}

	return float64(n) / den
}
