package audio

import (
	"fmt"
	"strings"
	"sync"
	"unsafe"

	"github.com/gen2brain/malgo"
)

// Recorder captures microphone input continuously and pushes mono
// samples into a SampleQueue. Multi-channel frames are downmixed to
// mono by arithmetic mean before being enqueued.
type Recorder struct {
	ctx        *malgo.AllocatedContext
	device     *malgo.Device
	deviceName *string
	sampleRate uint32
	channels   uint32

	mu        sync.Mutex
	recording bool
	queue     *SampleQueue
}

// NewRecorder creates a new audio recorder.
// deviceName: optional device name filter (e.g. "USB Mic", or nil for default).
// queue: destination for captured mono samples; the capture callback
// never blocks on it, and drops samples if it is full.
func NewRecorder(sampleRate int, deviceName *string, queue *SampleQueue) (*Recorder, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}

	if err := listAvailableDevices(ctx); err != nil {
		fmt.Printf("[WARN] Failed to list audio devices: %v\n", err)
	}

	return &Recorder{
		ctx:        ctx,
		deviceName: deviceName,
		sampleRate: uint32(sampleRate),
		channels:   2, // request stereo; downmixed to mono on receipt
		queue:      queue,
	}, nil
}

// listAvailableDevices prints all available capture devices
func listAvailableDevices(ctx *malgo.AllocatedContext) error {
	devices, err := ctx.Devices(malgo.Capture)
	if err != nil {
		return err
	}

	fmt.Println("[audio] Available capture devices:")
	for i, device := range devices {
		deviceType := "🎤 MICROPHONE"
		if strings.Contains(strings.ToLower(device.Name()), "monitor") {
			deviceType = "🔊 SYSTEM AUDIO (avoid this)"
		}
		fmt.Printf("  [%d] %s - %s\n", i, device.Name(), deviceType)
	}
	return nil
}

// Start starts recording audio into the queue.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recording {
		return fmt.Errorf("already recording")
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatF32
	deviceConfig.Capture.Channels = r.channels
	deviceConfig.SampleRate = r.sampleRate
	deviceConfig.Alsa.NoMMap = 1

	// Select specific device if deviceName is provided
	if r.deviceName != nil && *r.deviceName != "" {
		devices, err := r.ctx.Devices(malgo.Capture)
		if err != nil {
			return fmt.Errorf("failed to list devices: %w", err)
		}

		deviceFound := false
		for _, dev := range devices {
			if containsIgnoreCase(dev.Name(), *r.deviceName) {
				deviceConfig.Capture.DeviceID = dev.ID.Pointer()

				if strings.Contains(strings.ToLower(dev.Name()), "monitor") {
					fmt.Printf("⚠️  WARNING: Selected device '%s' is a MONITOR (system audio)\n", dev.Name())
					fmt.Printf("⚠️  This will capture playing audio, not your microphone!\n")
				} else {
					fmt.Printf("✅ Using microphone: %s\n", dev.Name())
				}

				deviceFound = true
				break
			}
		}

		if !deviceFound {
			fmt.Printf("[WARN] Device '%s' not found, using default device\n", *r.deviceName)
			fmt.Println("[WARN] Check available devices list above")
		}
	} else {
		fmt.Println("[audio] Using default capture device")
	}

	channels := r.channels
	queue := r.queue

	// Callback to receive audio data. Runs on the capture thread: no
	// allocation, no locking beyond the recording-flag check, no
	// blocking — samples are downmixed to mono and dropped into the
	// queue non-blockingly.
	onRecvFrames := func(_, pSample []byte, framecount uint32) {
		r.mu.Lock()
		recording := r.recording
		r.mu.Unlock()

		if !recording {
			return
		}

		const bytesPerSample = 4
		bytesPerFrame := bytesPerSample * channels

		for i := uint32(0); i < framecount; i++ {
			base := i * bytesPerFrame

			var sum float32
			for c := uint32(0); c < channels; c++ {
				idx := base + c*bytesPerSample
				if idx+bytesPerSample > uint32(len(pSample)) {
					continue
				}
				sum += bytesToFloat32(pSample[idx : idx+bytesPerSample])
			}

			queue.TryPush(sum / float32(channels))
		}
	}

	var err error
	r.device, err = malgo.InitDevice(r.ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: onRecvFrames,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize device: %w", err)
	}

	if err := r.device.Start(); err != nil {
		return fmt.Errorf("failed to start device: %w", err)
	}

	r.recording = true
	fmt.Println("🎤 Recording started")
	return nil
}

// Stop stops recording. Samples already pushed remain queued for the
// playback/core thread to drain.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording {
		return fmt.Errorf("not recording")
	}

	r.recording = false

	if r.device != nil {
		r.device.Stop()
		r.device.Uninit()
		r.device = nil
	}

	fmt.Println("🛑 Recording stopped")
	return nil
}

// IsRecording returns true if currently recording
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Close closes the recorder and releases resources
func (r *Recorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.device != nil {
		r.device.Uninit()
		r.device = nil
	}

	if r.ctx != nil {
		_ = r.ctx.Uninit()
		r.ctx.Free()
		r.ctx = nil
	}
}

func bytesToFloat32(b []byte) float32 {
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return *(*float32)(unsafe.Pointer(&bits))
}

// containsIgnoreCase checks if haystack contains needle (case-insensitive)
func containsIgnoreCase(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
