package sidedist

import "github.com/cwbudde/algo-sidedist/dsp/core"

// Clip hard-limits x to [lower, upper]. The comparisons are strict, so a
// sample equal to either bound is returned unchanged.
func Clip[T core.Float](x, upper, lower T) T {
	if upper < x {
		return upper
	}

	if x < lower {
		return lower
	}

	return x
}

// Envelope returns the clip bounds for one sidechain sample.
// upper is never negative and lower is never positive. A NaN sidechain
// yields upper 0 and a NaN lower bound, so negative samples pass unclipped.
func Envelope[T core.Float](threshold, sidechain, normalizedGain T) (upper, lower T) {
	duck := sidechain * normalizedGain

	upper = threshold - duck
	if !(0 < upper) {
		upper = 0
	}

	lower = -threshold - duck
	if 0 < lower {
		lower = 0
	}

	return upper, lower
}
