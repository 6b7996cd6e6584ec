package dsp

import "math"

// OnePole is a single-state one-pole low-pass filter.
type OnePole struct {
	state float32
	coeff float32
}

// NewOnePole builds a one-pole low-pass with cutoff f_c at sample rate R.
func NewOnePole(sampleRate, cutoffHz float32) *OnePole {
	return &OnePole{coeff: onePoleCoeff(sampleRate, cutoffHz)}
}

func onePoleCoeff(sampleRate, cutoffHz float32) float32 {
	omega := 2 * math.Pi * float64(cutoffHz) / float64(sampleRate)
	return float32(omega / (1 + omega))
}

// Process advances the filter by one sample: y += c*(x - y).
func (p *OnePole) Process(x float32) float32 {
	p.state += p.coeff * (x - p.state)
	return p.state
}

// SetCutoff recomputes the coefficient without resetting state.
func (p *OnePole) SetCutoff(sampleRate, cutoffHz float32) {
	p.coeff = onePoleCoeff(sampleRate, cutoffHz)
}

// AllPass is a Schroeder all-pass diffuser: unit magnitude response,
// nonzero phase delay.
type AllPass struct {
	buffer   []float32
	pos      int
	feedback float32 // g
}

// NewAllPass allocates a delay line of the given length with feedback g.
func NewAllPass(delaySamples int, feedback float32) *AllPass {
	if delaySamples <= 0 {
		panic("dsp: all-pass delay length must be positive")
	}
	return &AllPass{
		buffer:   make([]float32, delaySamples),
		feedback: feedback,
	}
}

// Process runs the classic Schroeder all-pass difference equation.
func (a *AllPass) Process(input float32) float32 {
	delayed := a.buffer[a.pos]
	out := -input + delayed
	a.buffer[a.pos] = input + delayed*a.feedback
	a.pos = (a.pos + 1) % len(a.buffer)
	return out
}

// Comb is a feedback comb filter with a one-pole lowpass on the
// feedback tap, darkening the tail over time.
type Comb struct {
	buffer     []float32
	pos        int
	feedback   float32 // g
	damping    float32 // d
	filterState float32
}

// NewComb allocates a delay line of the given length with feedback g
// and damping d.
func NewComb(delaySamples int, feedback, damping float32) *Comb {
	if delaySamples <= 0 {
		panic("dsp: comb delay length must be positive")
	}
	return &Comb{
		buffer:   make([]float32, delaySamples),
		feedback: feedback,
		damping:  damping,
	}
}

// Process runs the damped comb difference equation.
func (c *Comb) Process(input float32) float32 {
	delayed := c.buffer[c.pos]
	c.filterState = delayed*(1-c.damping) + c.filterState*c.damping
	c.buffer[c.pos] = input + c.filterState*c.feedback
	c.pos = (c.pos + 1) % len(c.buffer)
	return delayed
}
