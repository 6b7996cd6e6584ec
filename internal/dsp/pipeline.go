package dsp

// PipelineConfig bundles the per-stage configuration needed to build a
// complete dreamy-mode pipeline at a given sample rate.
type PipelineConfig struct {
	SampleRate float32
	AEC        AECConfig
	VAD        VADConfig
	Granular   GranularConfig
	Effects    EffectsChainConfig
}

// DefaultPipelineConfig returns sensible defaults for all stages at the
// given sample rate, ready to have the dreamy preset applied.
func DefaultPipelineConfig(sampleRate float32) PipelineConfig {
	granular := DefaultGranularConfig()
	granular.SampleRate = sampleRate

	return PipelineConfig{
		SampleRate: sampleRate,
		AEC:        DefaultAECConfig(),
		VAD:        VADConfig{SampleRate: sampleRate, Threshold: 1e-4},
		Granular:   granular,
		Effects: EffectsChainConfig{
			SampleRate:    sampleRate,
			LowpassCutoff: 4000,
			ReverbWet:     0.4,
			ReverbDry:     0.6,
		},
	}
}

// Pipeline wires the echo canceller, voice activity detector, granular
// engine, and effects chain into the per-sample contract described by
// the system's signal flow: AEC -> (buffer write) -> Granular ->
// Effects, with the AEC's echo reference lagging one sample behind the
// pipeline's own output.
//
// All state here is owned exclusively by the thread that calls
// Process; nothing is safe to call concurrently.
type Pipeline struct {
	aec      *EchoCanceller
	vad      *VoiceActivityDetector
	granular *GranularEngine
	effects  *EffectsChain

	previousOutput float32
	voiceActive    bool

	aecEnabled       bool
	vadGatingEnabled bool
}

// NewPipeline builds a pipeline from the given configuration with the
// dreamy granular preset applied to the engine.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	granular := NewGranularEngine(cfg.Granular)
	ApplyDreamyPreset(granular)

	return &Pipeline{
		aec:      NewEchoCanceller(cfg.AEC),
		vad:      NewVoiceActivityDetector(cfg.VAD),
		granular: granular,
		effects:  NewEffectsChain(cfg.Effects),

		aecEnabled:       true,
		vadGatingEnabled: true,
	}
}

// SetAECEnabled toggles whether the echo canceller runs at all. When
// disabled, Process passes the mic signal straight through to the
// granular engine untouched by the AEC stage.
func (p *Pipeline) SetAECEnabled(enabled bool) {
	p.aecEnabled = enabled
}

// SetVADGatingEnabled toggles whether AEC adaptation is gated by voice
// activity. When disabled, the AEC adapts on every sample regardless
// of the VAD's verdict.
func (p *Pipeline) SetVADGatingEnabled(enabled bool) {
	p.vadGatingEnabled = enabled
}

// Process advances every stage by exactly one sample and returns the
// fully processed output.
//
// The echo reference for this sample is the pipeline's own processed
// output from the previous call — the documented fix for the dangling
// reference-plumbing bug in the source this was distilled from (see
// DESIGN.md's Open Question decisions).
func (p *Pipeline) Process(mic float32) float32 {
	reference := p.previousOutput

	p.voiceActive = p.vad.Process(reference)

	adapting := p.voiceActive
	if !p.vadGatingEnabled {
		adapting = true
	}
	p.aec.SetAdaptationEnabled(adapting)

	cleaned := mic
	if p.aecEnabled {
		cleaned = p.aec.Process(mic, reference)
	}

	p.granular.WriteInput(cleaned)
	granularOut := p.granular.Process()

	out := p.effects.Process(granularOut)

	p.previousOutput = out
	return out
}

// ResetEchoCanceller zeroes the AEC's learned filter and reference
// buffer — the recovery primitive for pathological adaptation.
func (p *Pipeline) ResetEchoCanceller() {
	p.aec.Reset()
}

// AECWeights returns a copy of the echo canceller's current adaptive
// filter coefficients, for diagnostics and tests.
func (p *Pipeline) AECWeights() []float32 {
	return p.aec.Weights()
}

// VoiceActive reports whether the most recent Process call found the
// echo reference carrying voice/far-end energy. With VAD gating enabled
// this decides whether the AEC adapted on that sample; with gating
// disabled the AEC adapts regardless.
func (p *Pipeline) VoiceActive() bool {
	return p.voiceActive
}

// VADEnergy returns the VAD's current smoothed energy estimate, for
// diagnostics.
func (p *Pipeline) VADEnergy() float32 {
	return p.vad.Energy()
}

// LiveGrainCount reports the number of grains currently playing.
func (p *Pipeline) LiveGrainCount() int {
	return p.granular.LiveGrainCount()
}

// ApplyPreset re-applies a granular parameter preset to the live
// engine (buffer and grains are untouched, only the spawn parameters).
func (p *Pipeline) ApplyPreset(preset func(*GranularEngine)) {
	preset(p.granular)
}
