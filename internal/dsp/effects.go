package dsp

// EffectsChainConfig parameterizes the tone/space effects chain.
type EffectsChainConfig struct {
	SampleRate    float32
	LowpassCutoff float32
	ReverbWet     float32
	ReverbDry     float32
}

// EffectsChain is the dreamy-preset tone/space chain: one-pole
// low-pass into chorus into Schroeder reverb.
type EffectsChain struct {
	lowpass *OnePole
	chorus  *Chorus
	reverb  *Reverb
}

// NewEffectsChain builds the chain from the given configuration.
func NewEffectsChain(cfg EffectsChainConfig) *EffectsChain {
	return &EffectsChain{
		lowpass: NewOnePole(cfg.SampleRate, cfg.LowpassCutoff),
		chorus:  NewChorus(cfg.SampleRate),
		reverb:  NewReverb(cfg.SampleRate, cfg.ReverbWet, cfg.ReverbDry),
	}
}

// Process runs x through low-pass, chorus, then reverb, in order.
func (e *EffectsChain) Process(x float32) float32 {
	y := e.lowpass.Process(x)
	y = e.chorus.Process(y)
	y = e.reverb.Process(y)
	return y
}

// SetReverbMix forwards to the underlying reverb's SetMix.
func (e *EffectsChain) SetReverbMix(wet, dry float32) {
	e.reverb.SetMix(wet, dry)
}

// SetLowpassCutoff forwards to the underlying one-pole's SetCutoff.
func (e *EffectsChain) SetLowpassCutoff(sampleRate, cutoffHz float32) {
	e.lowpass.SetCutoff(sampleRate, cutoffHz)
}
