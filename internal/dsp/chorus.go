package dsp

import "math"

const chorusLFOFreqHz = 0.5

// Chorus is a modulated-delay chorus effect. Its LFO offset is
// literally expressed in samples (1000-3000), not the milliseconds the
// original source's comment claims. That mismatch is intentionally
// preserved rather than "fixed" — see DESIGN.md.
type Chorus struct {
	delay []float32
	pos   int
	phase float32

	sampleRate float32
}

// NewChorus allocates a delay line sized to comfortably hold the
// 1000-3000 sample LFO excursion at the given sample rate (~100ms,
// 4410 samples at 44.1kHz).
func NewChorus(sampleRate float32) *Chorus {
	length := int(sampleRate * 0.1)
	if length < 3001 {
		length = 3001
	}
	return &Chorus{
		delay:      make([]float32, length),
		sampleRate: sampleRate,
	}
}

// Process advances the LFO phase, computes the literal sample-offset
// read position, writes the input, and mixes 70% dry with 30% of the
// modulated delay tap.
func (c *Chorus) Process(input float32) float32 {
	c.phase += 2 * math.Pi * chorusLFOFreqHz / c.sampleRate
	twoPi := float32(2 * math.Pi)
	if c.phase > twoPi {
		c.phase -= twoPi
	}

	lfo := float32(math.Sin(float64(c.phase)))
	offset := int(lfo*1000 + 2000)

	n := len(c.delay)
	delayedPos := ((c.pos+n-offset)%n + n) % n
	delayed := c.delay[delayedPos]

	c.delay[c.pos] = input
	c.pos = (c.pos + 1) % n

	return 0.7*input + 0.3*delayed
}
