package dsp

// Canonical Schroeder delay lengths in samples at 44.1kHz, chosen to be
// mutually prime to suppress metallic resonances from coincident
// recirculation periods.
var reverbCombDelays = [8]int{1557, 1617, 1491, 1422, 1277, 1356, 1188, 1116}
var reverbAllPassDelays = [4]int{225, 556, 441, 341}

const (
	reverbCombFeedback    = 0.84
	reverbCombDamping     = 0.2
	reverbAllPassFeedback = 0.5
)

// Reverb is a Schroeder reverberator: 8 parallel damped combs feeding
// 4 serial all-passes, then a dry/wet mix.
type Reverb struct {
	combs      [8]*Comb
	allpasses  [4]*AllPass
	wet, dry   float32
}

// NewReverb scales the canonical 44.1kHz delay lengths by
// sampleRate/44100 (truncated to int) and builds the comb/all-pass
// network with the standard Schroeder coefficients.
func NewReverb(sampleRate, wet, dry float32) *Reverb {
	scale := sampleRate / 44100.0

	r := &Reverb{wet: wet, dry: dry}
	for i, d := range reverbCombDelays {
		scaled := int(float32(d) * scale)
		if scaled < 1 {
			scaled = 1
		}
		r.combs[i] = NewComb(scaled, reverbCombFeedback, reverbCombDamping)
	}
	for i, d := range reverbAllPassDelays {
		scaled := int(float32(d) * scale)
		if scaled < 1 {
			scaled = 1
		}
		r.allpasses[i] = NewAllPass(scaled, reverbAllPassFeedback)
	}
	return r
}

// Process sums the parallel combs, chains the all-passes in series,
// and mixes dry/wet.
func (r *Reverb) Process(input float32) float32 {
	var combSum float32
	for _, c := range r.combs {
		combSum += c.Process(input)
	}
	combSum /= float32(len(r.combs))

	y := combSum
	for _, ap := range r.allpasses {
		y = ap.Process(y)
	}

	return r.dry*input + r.wet*y
}

// SetMix replaces the wet/dry coefficients.
func (r *Reverb) SetMix(wet, dry float32) {
	r.wet = wet
	r.dry = dry
}
