package dsp

import "math"

// Grain is a short windowed fragment of audio read from a
// CircularBuffer at a chosen position and playback rate. Grains are
// owned by value inside GranularEngine's live-grain slice, never
// heap-shared.
type Grain struct {
	startPos   float32
	currentPos float32
	length     int
	pitch      float32
	amplitude  float32
	active     bool
}

// newGrain creates an active grain at the given read start position,
// length in samples, and pitch ratio.
func newGrain(startPos float32, length int, pitch float32) Grain {
	return Grain{
		startPos:  startPos,
		length:    length,
		pitch:     pitch,
		amplitude: 1.0,
		active:    true,
	}
}

// window returns the Hann envelope at the grain's current phase, or 0
// once the phase reaches 1. Deactivation itself happens in process.
func (g *Grain) window() float32 {
	if !g.active {
		return 0
	}
	phase := g.currentPos / float32(g.length)
	if phase >= 1 {
		return 0
	}
	return 0.5 * (1 - float32(math.Cos(2*math.Pi*float64(phase))))
}

// process renders one sample from buf, advances the grain's read
// position, and deactivates it once it has played past its length.
func (g *Grain) process(buf *CircularBuffer) float32 {
	if !g.active {
		return 0
	}

	w := g.window()
	readPos := g.startPos + g.currentPos*g.pitch
	sample := buf.Read(readPos) * w * g.amplitude

	g.currentPos++
	if g.currentPos >= float32(g.length) {
		g.active = false
	}

	return sample
}
