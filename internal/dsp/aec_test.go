package dsp

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// Property 1: AEC pass-through with zero reference.
func TestAECPassThroughZeroReference(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		aec := NewEchoCanceller(AECConfig{FilterLength: 16, StepSize: 0.5})

		n := rapid.IntRange(1, 200).Draw(rt, "n")
		for i := 0; i < n; i++ {
			mic := rapid.Float32Range(-1, 1).Draw(rt, "mic")
			out := aec.Process(mic, 0)
			assert.Equal(rt, mic, out)
		}

		for _, w := range aec.weights {
			assert.Equal(rt, float32(0), w)
		}
	})
}

// Property 2: AEC convergence on a synthetic echo path.
func TestAECConvergence(t *testing.T) {
	const filterLen = 8
	rng := rand.New(rand.NewSource(42))

	// Random FIR "room" impulse response of length <= filterLen.
	h := make([]float32, filterLen)
	for i := range h {
		h[i] = float32(rng.Float64()*0.6 - 0.3)
	}

	aec := NewEchoCanceller(AECConfig{FilterLength: filterLen, StepSize: 0.5})

	const n = 20000
	refHistory := make([]float32, 0, filterLen)

	var micVarianceSum, residualSumSq float64
	var lastResidualSamples []float64

	for i := 0; i < n; i++ {
		ref := float32(rng.Float64()*2 - 1)
		refHistory = append([]float32{ref}, refHistory...)
		if len(refHistory) > filterLen {
			refHistory = refHistory[:filterLen]
		}

		var mic float32
		for j, coeff := range h {
			if j < len(refHistory) {
				mic += coeff * refHistory[j]
			}
		}

		errSignal := aec.Process(mic, ref)
		micVarianceSum += float64(mic) * float64(mic)

		if i >= n-n/10 {
			residualSumSq += float64(errSignal) * float64(errSignal)
			lastResidualSamples = append(lastResidualSamples, float64(errSignal))
		}
	}

	micVariance := micVarianceSum / float64(n)
	residualMS := residualSumSq / float64(len(lastResidualSamples))

	assert.Lessf(t, residualMS, 0.05*micVariance,
		"residual mean-square %.6g should fall below 5%% of mic variance %.6g", residualMS, micVariance)
}

// Property 3: AEC reset.
func TestAECReset(t *testing.T) {
	aec := NewEchoCanceller(AECConfig{FilterLength: 16, StepSize: 0.5})
	for i := 0; i < 500; i++ {
		aec.Process(float32(math.Sin(float64(i)*0.1)), float32(math.Cos(float64(i)*0.1)))
	}

	aec.Reset()

	for _, w := range aec.weights {
		assert.Equal(t, float32(0), w)
	}
	for _, r := range aec.refBuf {
		assert.Equal(t, float32(0), r)
	}

	out := aec.Process(0.37, 0.91)
	assert.Equal(t, float32(0.37), out)
}

// Scenario S1: AEC(L=4, mu=0.5); periodic 2-sample echo at half amplitude.
func TestAECScenarioS1PeriodicEcho(t *testing.T) {
	aec := NewEchoCanceller(AECConfig{FilterLength: 4, StepSize: 0.5})

	ref := []float32{1, 0, 0, 0}
	mic := []float32{0, 0, 0.5, 0}

	for iter := 0; iter < 2000; iter++ {
		for i := 0; i < 4; i++ {
			aec.Process(mic[i], ref[i])
		}
	}

	assert.InDelta(t, 0.5, aec.weights[2], 0.05)
	assert.InDelta(t, 0.0, aec.weights[0], 0.05)
	assert.InDelta(t, 0.0, aec.weights[1], 0.05)
	assert.InDelta(t, 0.0, aec.weights[3], 0.05)
}
