package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mwilder/dreamysound/internal/dsp"
)

// Config represents the dreamy pipeline's configuration
type Config struct {
	AudioDevice *string `json:"audio_device"` // nil = default input device
	SampleRate  int     `json:"sample_rate"`
	SocketPath  string  `json:"socket_path"`
	Preset      string  `json:"preset"` // dreamy, sparse, or dense

	// Echo Cancellation settings
	EchoCancellation bool    `json:"echo_cancellation"` // Enable acoustic echo cancellation
	AECFilterLength  int     `json:"aec_filter_length"` // AEC filter length (taps)
	AECStepSize      float64 `json:"aec_step_size"`     // AEC adaptation step size

	// Voice Activity Detection settings
	VoiceActivityDetection bool    `json:"voice_activity_detection"` // Enable VAD-gated adaptation
	VADThreshold           float64 `json:"vad_threshold"`            // Energy threshold for voice presence

	// Granular engine settings
	GrainSizeMs     float64 `json:"grain_size_ms"`
	GrainDensity    float64 `json:"grain_density"` // grains/sec
	PitchShift      float64 `json:"pitch_shift"`
	PitchRandomness float64 `json:"pitch_randomness"`
	TimeRandomness  float64 `json:"time_randomness"`

	// Effects chain settings
	LowpassCutoffHz float64 `json:"lowpass_cutoff_hz"`
	ReverbWet       float64 `json:"reverb_wet"`
	ReverbDry       float64 `json:"reverb_dry"`
}

// Default returns default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	socketPath := filepath.Join(homeDir, ".config", "dreamysound", "dreamysound.sock")

	return &Config{
		AudioDevice: nil, // default device
		SampleRate:  44100,
		SocketPath:  socketPath,
		Preset:      "dreamy",

		EchoCancellation: true,
		AECFilterLength:  1024,
		AECStepSize:      0.05,

		VoiceActivityDetection: true,
		VADThreshold:           0.01,

		GrainSizeMs:     120,
		GrainDensity:    15,
		PitchShift:      0.92,
		PitchRandomness: 0.12,
		TimeRandomness:  0.6,

		LowpassCutoffHz: 4000,
		ReverbWet:       0.4,
		ReverbDry:       0.6,
	}
}

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves configuration to file
func (c *Config) Save(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// PipelineConfig translates the JSON configuration into the DSP
// package's pipeline configuration at the configured sample rate.
func (c *Config) PipelineConfig() dsp.PipelineConfig {
	sampleRate := float32(c.SampleRate)
	pc := dsp.DefaultPipelineConfig(sampleRate)

	pc.AEC.FilterLength = c.AECFilterLength
	pc.AEC.StepSize = float32(c.AECStepSize)

	pc.VAD.Threshold = float32(c.VADThreshold)

	pc.Granular.SampleRate = sampleRate

	pc.Effects.LowpassCutoff = float32(c.LowpassCutoffHz)
	pc.Effects.ReverbWet = float32(c.ReverbWet)
	pc.Effects.ReverbDry = float32(c.ReverbDry)

	return pc
}

// Preset resolves the configured preset name to its GranularEngine
// configurator, falling back to the dreamy preset if unrecognized.
func (c *Config) Preset() func(*dsp.GranularEngine) {
	if preset, ok := dsp.Presets[c.Preset]; ok {
		return preset
	}
	return dsp.ApplyDreamyPreset
}

// GetConfigPath returns the default config path
func GetConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "dreamysound", "config.json")
}

// Watcher watches for config file changes
type Watcher struct {
	configPath string
	watcher    *fsnotify.Watcher
	callback   func(*Config)
	mu         sync.RWMutex
	running    bool
	stopChan   chan struct{}
}

// NewWatcher creates a new config watcher
func NewWatcher(configPath string, callback func(*Config)) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		configPath: configPath,
		watcher:    watcher,
		callback:   callback,
		stopChan:   make(chan struct{}),
	}, nil
}

// Start starts watching the config file
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	if err := w.watcher.Add(w.configPath); err != nil {
		return err
	}

	dir := filepath.Dir(w.configPath)
	if err := w.watcher.Add(dir); err != nil {
		return err
	}

	w.running = true
	go w.watchLoop()

	return nil
}

// Stop stops watching the config file
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}

	close(w.stopChan)
	w.watcher.Close()
	w.running = false
}

// watchLoop is the main watching loop
func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Name == w.configPath && (event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create) {
				w.reloadConfig()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if err != nil {
				continue
			}

		case <-w.stopChan:
			return
		}
	}
}

// reloadConfig reloads the config and calls the callback
func (w *Watcher) reloadConfig() {
	// Debounce rapid successive writes from editors that save in multiple steps.
	time.Sleep(100 * time.Millisecond)

	cfg, err := Load(w.configPath)
	if err != nil {
		return
	}

	if w.callback != nil {
		w.callback(cfg)
	}
}
