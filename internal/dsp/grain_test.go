package dsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Property 6: grain windowing — Hann envelope is zero at the endpoints
// and peaks at the midpoint.
func TestGrainHannWindowShape(t *testing.T) {
	const length = 100
	g := newGrain(0, length, 1.0)

	assert.InDelta(t, 0.0, g.window(), 1e-4, "window should start at zero")

	g.currentPos = length / 2
	mid := g.window()
	assert.InDelta(t, 1.0, mid, 0.02, "window should peak near 1.0 at the midpoint")

	g.currentPos = length - 1
	nearEnd := g.window()
	assert.Less(t, nearEnd, float32(0.2), "window should approach zero near the end")

	g.currentPos = length
	assert.Equal(t, float32(0), g.window(), "window is zero once phase reaches 1")
}

func TestGrainDeactivatesPastLength(t *testing.T) {
	buf := NewCircularBuffer(16)
	g := newGrain(0, 4, 1.0)

	for i := 0; i < 4; i++ {
		assert.True(t, g.active)
		g.process(buf)
	}

	assert.False(t, g.active)
	assert.Equal(t, float32(0), g.process(buf))
}
