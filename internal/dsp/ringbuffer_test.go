package dsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCircularBufferReadInteger(t *testing.T) {
	buf := NewCircularBuffer(8)
	for i := 0; i < 8; i++ {
		buf.Write(float32(i))
	}

	for k := 0; k < 8; k++ {
		assert.Equal(t, float32(k), buf.Read(float32(k)))
	}
}

func TestCircularBufferReadHalfway(t *testing.T) {
	buf := NewCircularBuffer(8)
	for i := 0; i < 8; i++ {
		buf.Write(float32(i))
	}

	// read(k+0.5) is the linear average of neighbors k and k+1.
	got := buf.Read(2.5)
	assert.InDelta(t, 2.5, got, 1e-5)
}

func TestCircularBufferWrapsWriteIndex(t *testing.T) {
	buf := NewCircularBuffer(4)
	for i := 0; i < 4; i++ {
		buf.Write(float32(i))
	}
	assert.Equal(t, 0, buf.WritePos())

	buf.Write(42)
	assert.Equal(t, float32(42), buf.Read(0))
	assert.Equal(t, 1, buf.WritePos())
}

func TestCircularBufferReadNegativePosition(t *testing.T) {
	buf := NewCircularBuffer(4)
	for i := 0; i < 4; i++ {
		buf.Write(float32(i))
	}
	// -1 mod 4 == 3
	assert.InDelta(t, 3.0, buf.Read(-1), 1e-5)
}
