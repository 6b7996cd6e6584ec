package dsp

import (
	"math"
	"math/rand"
)

// GranularConfig parameterizes a GranularEngine at construction time.
type GranularConfig struct {
	SampleRate  float32
	BufferMs    float32 // circular buffer capacity, in milliseconds
	MaxGrains   int
	Seed        int64
}

// DefaultGranularConfig returns a reasonable default configuration; the
// granular parameters themselves default to the values NewGranularEngine
// sets and are typically overwritten by a preset such as ApplyDreamyPreset.
func DefaultGranularConfig() GranularConfig {
	return GranularConfig{
		SampleRate: 44100,
		BufferMs:   2000,
		MaxGrains:  32,
		Seed:       1,
	}
}

// GranularEngine owns the circular recording buffer, the live grain
// cloud, and the spawn scheduler. It never allocates in steady state:
// the grain slice is pre-reserved to MaxGrains at construction.
type GranularEngine struct {
	buffer    *CircularBuffer
	grains    []Grain
	maxGrains int
	sampleRate float32
	rng       *rand.Rand

	GrainSizeMs      float32
	GrainDensity     float32 // grains per second
	PitchShift       float32
	PitchRandomness  float32
	TimeRandomness   float32

	timeUntilNextGrain float32
}

// NewGranularEngine allocates the circular buffer and grain slice once.
func NewGranularEngine(cfg GranularConfig) *GranularEngine {
	if cfg.MaxGrains <= 0 {
		panic("dsp: granular engine max grains must be positive")
	}
	bufferSamples := int(cfg.BufferMs * cfg.SampleRate / 1000.0)
	return &GranularEngine{
		buffer:          NewCircularBuffer(bufferSamples),
		grains:          make([]Grain, 0, cfg.MaxGrains),
		maxGrains:       cfg.MaxGrains,
		sampleRate:      cfg.SampleRate,
		rng:             rand.New(rand.NewSource(cfg.Seed)),
		GrainSizeMs:     100,
		GrainDensity:    20,
		PitchShift:      1,
		PitchRandomness: 0.05,
		TimeRandomness:  0.3,
	}
}

// LiveGrainCount reports the number of currently active grains.
func (e *GranularEngine) LiveGrainCount() int {
	return len(e.grains)
}

// WriteInput appends a cleaned input sample to the circular buffer.
func (e *GranularEngine) WriteInput(sample float32) {
	e.buffer.Write(sample)
}

// Process advances the grain spawn scheduler by one sample, renders
// all live grains, normalizes by the square root of the active count,
// and compacts the grain slice in place.
func (e *GranularEngine) Process() float32 {
	e.timeUntilNextGrain--

	if e.timeUntilNextGrain <= 0 && len(e.grains) < e.maxGrains {
		e.spawnGrain()
		interval := e.sampleRate / e.GrainDensity
		spread := interval * e.TimeRandomness
		e.timeUntilNextGrain = interval + e.uniform(-spread, spread)
	}

	var output float32
	activeCount := 0

	for i := range e.grains {
		if e.grains[i].active {
			output += e.grains[i].process(e.buffer)
			activeCount++
		}
	}

	e.grains = compactActive(e.grains)

	if activeCount > 0 {
		return output / sqrtf32(float32(activeCount))
	}
	return output
}

func (e *GranularEngine) spawnGrain() {
	grainSamples := int(e.GrainSizeMs * e.sampleRate / 1000.0)
	if grainSamples < 1 {
		grainSamples = 1
	}

	lookback := e.uniform(0, 0.5)
	startPos := float32(e.buffer.WritePos()) - lookback*float32(e.buffer.Capacity())

	pitchVariation := e.uniform(-e.PitchRandomness, e.PitchRandomness)
	pitch := e.PitchShift * (1 + pitchVariation)

	e.grains = append(e.grains, newGrain(startPos, grainSamples, pitch))
}

// uniform draws an unbiased float32 in the half-open interval [lo, hi).
func (e *GranularEngine) uniform(lo, hi float32) float32 {
	return lo + e.rng.Float32()*(hi-lo)
}

// compactActive removes inactive grains in place, preserving capacity.
func compactActive(grains []Grain) []Grain {
	kept := grains[:0]
	for _, g := range grains {
		if g.active {
			kept = append(kept, g)
		}
	}
	return kept
}

func sqrtf32(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}
