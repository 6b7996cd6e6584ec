package dsp

import "math"

// VADConfig contains configuration for the voice activity detector.
type VADConfig struct {
	SampleRate float32 // R, used to derive attack/release coefficients
	Threshold  float32 // τ, energy threshold
}

// DefaultVADConfig returns the canonical default configuration.
func DefaultVADConfig() VADConfig {
	return VADConfig{
		SampleRate: 44100,
		Threshold:  1e-4,
	}
}

const (
	vadAttackTimeSeconds  = 0.010
	vadReleaseTimeSeconds = 0.100
)

// VoiceActivityDetector smooths instantaneous energy with asymmetric
// attack/release coefficients and thresholds it. It gates AEC
// adaptation: NLMS should only adapt while the reference carries
// far-end energy.
type VoiceActivityDetector struct {
	energy    float32 // e
	attack    float32 // α_a
	release   float32 // α_r
	threshold float32 // τ
}

// NewVoiceActivityDetector derives α_a and α_r from the sample rate and
// fixed 10ms/100ms time constants: α = exp(-1/(R·t)).
func NewVoiceActivityDetector(cfg VADConfig) *VoiceActivityDetector {
	return &VoiceActivityDetector{
		attack:    float32(math.Exp(-1.0 / (float64(cfg.SampleRate) * vadAttackTimeSeconds))),
		release:   float32(math.Exp(-1.0 / (float64(cfg.SampleRate) * vadReleaseTimeSeconds))),
		threshold: cfg.Threshold,
	}
}

// Process updates the smoothed energy estimate from one sample and
// returns whether it exceeds the threshold.
//
// Both coefficients come from the literal α = exp(-1/(R·t)) formula
// (see DESIGN.md). At 44.1kHz α_a ≈ 0.99774 and α_r ≈ 0.99977, so the
// energy rises with a ~10ms time constant and falls with a ~100ms one.
func (v *VoiceActivityDetector) Process(sample float32) bool {
	instant := sample * sample
	if instant > v.energy {
		v.energy = v.attack*v.energy + (1-v.attack)*instant
	} else {
		v.energy = v.release*v.energy + (1-v.release)*instant
	}
	return v.energy > v.threshold
}

// SetThreshold adjusts τ.
func (v *VoiceActivityDetector) SetThreshold(threshold float32) {
	v.threshold = threshold
}

// Energy returns the current smoothed energy estimate, for diagnostics.
func (v *VoiceActivityDetector) Energy() float32 {
	return v.energy
}
