// Package sidedist implements a sidechain-driven symmetric clipper.
//
// The processor reads a four-channel block: a primary stereo pair on inputs
// 0 and 1 and a sidechain stereo pair on inputs 2 and 3. For every frame the
// sidechain sample shifts the clip envelope
//
//	upper = max(0,  threshold - sidechain*g)
//	lower = min(0, -threshold - sidechain*g)
//
// where g is the sidechain gain parameter divided by SidechainGainDefault,
// and the primary sample is hard-clipped into [lower, upper]. A sample equal
// to a bound passes unchanged.
//
// Parameters live in a lock-free store shared between the audio thread and
// any control thread. ProcessBlock snapshots both values once per block and
// never allocates or blocks.
package sidedist
