package dsp

import "sync"

// AECConfig contains configuration for the adaptive echo canceller.
type AECConfig struct {
	FilterLength int     // number of taps in the adaptive FIR filter
	StepSize     float32 // NLMS learning rate, clamped to [0, 1]
}

// DefaultAECConfig returns the canonical default configuration.
func DefaultAECConfig() AECConfig {
	return AECConfig{
		FilterLength: 512,
		StepSize:     0.5,
	}
}

// EchoCanceller implements acoustic echo cancellation via Normalized
// Least Mean Squares (NLMS). It advances exactly one sample per call to
// Process and never allocates after construction.
type EchoCanceller struct {
	mu sync.Mutex

	weights []float32 // adaptive filter coefficients W
	refBuf  []float32 // reference ring buffer R
	bufPos  int        // write index b

	stepSize float32 // µ
	adapt    bool
}

// NewEchoCanceller creates an echo canceller with zeroed state.
func NewEchoCanceller(cfg AECConfig) *EchoCanceller {
	if cfg.FilterLength <= 0 {
		panic("dsp: AEC filter length must be positive")
	}
	return &EchoCanceller{
		weights:  make([]float32, cfg.FilterLength),
		refBuf:   make([]float32, cfg.FilterLength),
		stepSize: clamp01(cfg.StepSize),
		adapt:    true,
	}
}

const aecEpsilon float32 = 1e-6

// Process advances the canceller by one sample: store the reference,
// compute the echo estimate, subtract it from mic, optionally adapt,
// advance the ring index, and return the error signal.
func (a *EchoCanceller) Process(mic, ref float32) float32 {
	a.mu.Lock()
	defer a.mu.Unlock()

	l := len(a.weights)
	a.refBuf[a.bufPos] = ref

	var estimate float32
	for i := 0; i < l; i++ {
		idx := (a.bufPos + l - i) % l
		estimate += a.weights[i] * a.refBuf[idx]
	}

	errSignal := mic - estimate

	if a.adapt {
		var power float32
		for i := 0; i < l; i++ {
			idx := (a.bufPos + l - i) % l
			s := a.refBuf[idx]
			power += s * s
		}
		normalizedStep := a.stepSize / (power + aecEpsilon)
		for i := 0; i < l; i++ {
			idx := (a.bufPos + l - i) % l
			a.weights[i] += normalizedStep * errSignal * a.refBuf[idx]
		}
	}

	a.bufPos = (a.bufPos + 1) % l
	return errSignal
}

// SetAdaptationEnabled gates whether Process mutates the filter weights.
func (a *EchoCanceller) SetAdaptationEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.adapt = enabled
}

// SetStepSize adjusts the NLMS learning rate, clamped to [0, 1].
func (a *EchoCanceller) SetStepSize(step float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stepSize = clamp01(step)
}

// Weights returns a copy of the current adaptive filter coefficients,
// for diagnostics and tests.
func (a *EchoCanceller) Weights() []float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]float32, len(a.weights))
	copy(out, a.weights)
	return out
}

// Reset zeroes the filter weights and reference buffer (the
// "forget learned model" recovery primitive).
func (a *EchoCanceller) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.weights {
		a.weights[i] = 0
	}
	for i := range a.refBuf {
		a.refBuf[i] = 0
	}
	a.bufPos = 0
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
