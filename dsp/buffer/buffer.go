package buffer

import (
	"encoding/binary"
	"math"
)

const bytesPerSample = 4

// Block is a set of equal-length float32 channels.
type Block struct {
	data     []float32
	views    [][]float32
	channels int
	frames   int
	capacity int
}

// NewBlock returns a zero-filled block with the given channel count and a
// frame capacity of frames. Negative arguments are treated as zero.
func NewBlock(channels, frames int) *Block {
	channels = max(channels, 0)
	frames = max(frames, 0)

	b := &Block{
		data:     make([]float32, channels*frames),
		views:    make([][]float32, channels),
		channels: channels,
		capacity: frames,
	}
	b.Resize(frames)

	return b
}

// Channels returns the channel count.
func (b *Block) Channels() int { return b.channels }

// Frames returns the current frame count.
func (b *Block) Frames() int { return b.frames }

// Capacity returns the largest frame count reachable without reallocating.
func (b *Block) Capacity() int { return b.capacity }

// Channel returns the samples of channel c.
func (b *Block) Channel(c int) []float32 { return b.views[c] }

// Views returns one slice per channel, each Frames() long. The outer slice is
// owned by the block and updated in place by Resize.
func (b *Block) Views() [][]float32 { return b.views }

// Resize sets the frame count. Growing past Capacity reallocates and keeps
// existing samples; anything else only re-slices.
func (b *Block) Resize(frames int) {
	frames = max(frames, 0)

	if frames > b.capacity {
		grown := make([]float32, b.channels*frames)
		for c := 0; c < b.channels; c++ {
			copy(grown[c*frames:], b.data[c*b.capacity:c*b.capacity+b.frames])
		}
		b.data = grown
		b.capacity = frames
	}

	b.frames = frames
	for c := range b.views {
		start := c * b.capacity
		b.views[c] = b.data[start : start+frames : start+frames]
	}
}

// Zero clears the current frames of every channel.
func (b *Block) Zero() {
	for _, ch := range b.views {
		clear(ch)
	}
}

// Deinterleave copies frames from an interleaved slice into the block and
// returns the number of frames copied, min(len(src)/Channels(), Frames()).
func (b *Block) Deinterleave(src []float32) int {
	if b.channels == 0 {
		return 0
	}

	n := min(len(src)/b.channels, b.frames)
	for c, ch := range b.views {
		for i := 0; i < n; i++ {
			ch[i] = src[i*b.channels+c]
		}
	}

	return n
}

// Interleave writes the block's frames into dst and returns the number of
// frames written, min(len(dst)/Channels(), Frames()).
func (b *Block) Interleave(dst []float32) int {
	if b.channels == 0 {
		return 0
	}

	n := min(len(dst)/b.channels, b.frames)
	for c, ch := range b.views {
		for i := 0; i < n; i++ {
			dst[i*b.channels+c] = ch[i]
		}
	}

	return n
}

// DeinterleaveBytes is Deinterleave for little-endian float32 device frames.
func (b *Block) DeinterleaveBytes(src []byte) int {
	if b.channels == 0 {
		return 0
	}

	stride := b.channels * bytesPerSample
	n := min(len(src)/stride, b.frames)
	for c, ch := range b.views {
		off := c * bytesPerSample
		for i := 0; i < n; i++ {
			ch[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*stride+off:]))
		}
	}

	return n
}

// InterleaveBytes is Interleave for little-endian float32 device frames.
func (b *Block) InterleaveBytes(dst []byte) int {
	if b.channels == 0 {
		return 0
	}

	stride := b.channels * bytesPerSample
	n := min(len(dst)/stride, b.frames)
	for c, ch := range b.views {
		off := c * bytesPerSample
		for i := 0; i < n; i++ {
			binary.LittleEndian.PutUint32(dst[i*stride+off:], math.Float32bits(ch[i]))
		}
	}

	return n
}

// FrameBytes returns the byte size of one interleaved frame.
func (b *Block) FrameBytes() int {
	return b.channels * bytesPerSample
}
