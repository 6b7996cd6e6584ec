// Package dsp implements the realtime audio transformation graph: echo
// cancellation, voice activity gating, granular resynthesis, and the
// tone/space effects chain. Every type here is driven from a single
// audio callback thread and must not allocate after construction.
package dsp

import "math"

// CircularBuffer is a fixed-capacity ring of samples written at an
// integer position and read at a real-valued position via linear
// interpolation. Allocated once; never resized.
type CircularBuffer struct {
	data     []float32
	writePos int
}

// NewCircularBuffer allocates a buffer of the given capacity in samples.
func NewCircularBuffer(capacity int) *CircularBuffer {
	if capacity <= 0 {
		panic("dsp: circular buffer capacity must be positive")
	}
	return &CircularBuffer{data: make([]float32, capacity)}
}

// Capacity returns the buffer's fixed sample capacity.
func (b *CircularBuffer) Capacity() int {
	return len(b.data)
}

// WritePos returns the current write index.
func (b *CircularBuffer) WritePos() int {
	return b.writePos
}

// Write appends one sample, advancing the write index modulo capacity.
func (b *CircularBuffer) Write(sample float32) {
	b.data[b.writePos] = sample
	b.writePos = (b.writePos + 1) % len(b.data)
}

// Read returns the linearly-interpolated sample at a real-valued
// position, wrapped modulo capacity (including negative positions).
func (b *CircularBuffer) Read(position float32) float32 {
	n := float32(len(b.data))
	pos := modf32(position, n)
	idx := int(pos)
	frac := pos - float32(idx)

	s1 := b.data[idx]
	s2 := b.data[(idx+1)%len(b.data)]
	return s1 + (s2-s1)*frac
}

// modf32 is Euclidean modulo for float32: result always in [0, m).
func modf32(x, m float32) float32 {
	r := float32(math.Mod(float64(x), float64(m)))
	if r < 0 {
		r += m
	}
	return r
}
