package dsp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipelineProcessIsBoundedAndStable(t *testing.T) {
	p := NewPipeline(DefaultPipelineConfig(44100))

	for i := 0; i < 44100; i++ {
		x := float32(math.Sin(float64(i) * 0.05))
		out := p.Process(x)
		assert.False(t, math.IsNaN(float64(out)))
		assert.False(t, math.IsInf(float64(out), 0))
		assert.LessOrEqual(t, abs32(out), float32(8.0))
	}
}

func TestPipelineResetEchoCanceller(t *testing.T) {
	p := NewPipeline(DefaultPipelineConfig(44100))

	for i := 0; i < 1000; i++ {
		p.Process(float32(math.Sin(float64(i) * 0.3)))
	}

	p.ResetEchoCanceller()

	for _, w := range p.aec.weights {
		assert.Equal(t, float32(0), w)
	}
}

func TestPipelineApplyPreset(t *testing.T) {
	p := NewPipeline(DefaultPipelineConfig(48000))
	p.ApplyPreset(func(e *GranularEngine) {
		e.GrainDensity = 999
	})
	assert.Equal(t, float32(999), p.granular.GrainDensity)
}
