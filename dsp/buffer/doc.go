// Package buffer provides the multi-channel float32 Block exchanged between
// device hosts and processors, plus allocation-free conversion from and to
// interleaved device frames.
//
// A Block owns one contiguous allocation sized for its capacity. Resizing
// within that capacity and all interleave/deinterleave calls never allocate,
// so a Block can be prepared once and reused inside an audio callback.
package buffer
