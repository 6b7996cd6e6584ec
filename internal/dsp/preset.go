package dsp

// ApplyDreamyPreset configures a GranularEngine for the dreamy/
// melancholic character: larger grains, medium density, a slight pitch
// drop, generous pitch shimmer, and high time randomness for a cloudy
// texture.
func ApplyDreamyPreset(e *GranularEngine) {
	e.GrainSizeMs = 120
	e.GrainDensity = 15
	e.PitchShift = 0.92
	e.PitchRandomness = 0.12
	e.TimeRandomness = 0.6
}

// ApplySparsePreset configures short, widely-spaced grains with little
// pitch variation: a thin, glassy texture rather than a cloud.
func ApplySparsePreset(e *GranularEngine) {
	e.GrainSizeMs = 40
	e.GrainDensity = 4
	e.PitchShift = 1.0
	e.PitchRandomness = 0.03
	e.TimeRandomness = 0.2
}

// ApplyDensePreset configures many overlapping grains with an upward
// pitch shift and heavy shimmer: a thick, shimmering wash.
func ApplyDensePreset(e *GranularEngine) {
	e.GrainSizeMs = 90
	e.GrainDensity = 35
	e.PitchShift = 1.08
	e.PitchRandomness = 0.2
	e.TimeRandomness = 0.8
}

// Presets maps a preset name to the GranularEngine configurator that
// implements it, for lookup by the control surface's set-preset command.
var Presets = map[string]func(*GranularEngine){
	"dreamy": ApplyDreamyPreset,
	"sparse": ApplySparsePreset,
	"dense":  ApplyDensePreset,
}

// NewDreamyEffectsChain builds the effects chain for the dreamy preset:
// a 4kHz one-pole low-pass into the chorus into a reverb mixed 40% wet.
func NewDreamyEffectsChain(sampleRate float32) *EffectsChain {
	return NewEffectsChain(EffectsChainConfig{
		SampleRate:    sampleRate,
		LowpassCutoff: 4000,
		ReverbWet:     0.4,
		ReverbDry:     0.6,
	})
}
