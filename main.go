package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/mwilder/dreamysound/internal/audio"
	"github.com/mwilder/dreamysound/internal/config"
	"github.com/mwilder/dreamysound/internal/control"
	"github.com/mwilder/dreamysound/internal/dsp"
)

// App owns every long-lived collaborator wired together for the
// continuous capture -> pipeline -> playback stream.
type App struct {
	cfg           *config.Config
	controlServer *control.Server
	recorder      *audio.Recorder
	player        *audio.Player
	pipeline      *dsp.Pipeline
	configWatcher *config.Watcher
	sampleQueue   *audio.SampleQueue
}

func main() {
	device := pflag.String("device", "", "capture device name substring (default: system default)")
	preset := pflag.String("preset", "", "granular preset to start with: dreamy, sparse, dense (default: from config)")
	listDevices := pflag.Bool("list-devices", false, "list available capture devices and exit")
	pflag.Parse()

	args := pflag.Args()
	if len(args) > 0 {
		switch args[0] {
		case "stats":
			runStats()
			return
		case "reset-aec":
			runResetAEC()
			return
		case "set-preset":
			if len(args) < 2 {
				fmt.Fprintln(os.Stderr, "Usage: dreamysound set-preset <name>")
				os.Exit(1)
			}
			runSetPreset(args[1])
			return
		case "help", "-h", "--help":
			printUsage()
			return
		case "version", "-v", "--version":
			printVersion()
			return
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
			printUsage()
			os.Exit(1)
		}
	}

	if *listDevices {
		runListDevices()
		return
	}

	runDaemon(device, preset)
}

func printUsage() {
	fmt.Println("dreamysound - realtime granular dream-pedal for your microphone")
	fmt.Println("")
	fmt.Println("Usage:")
	fmt.Println("  dreamysound [flags]           Start the daemon (default)")
	fmt.Println("  dreamysound stats             Report live pipeline diagnostics")
	fmt.Println("  dreamysound reset-aec         Reset the echo canceller's adaptive filter")
	fmt.Println("  dreamysound set-preset <name> Switch the granular preset (dreamy, sparse, dense)")
	fmt.Println("")
	fmt.Println("Flags:")
	pflag.PrintDefaults()
	fmt.Println("")
	fmt.Println("Modes:")
	fmt.Println("  dreamy mode is the only mode this build implements; reactive and")
	fmt.Println("  hybrid trigger modes are explicitly out of scope for this build.")
}

func printVersion() {
	fmt.Println("dreamysound v0.1.0")
	fmt.Println("Continuous granular-synthesis audio effects pipeline")
}

func controlClient() *control.Client {
	cfgPath := config.GetConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	return control.NewClient(cfg.SocketPath)
}

func runStats() {
	stats, err := controlClient().Stats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("voice_active=%t grains=%d vad_energy=%.6f\n",
		stats.VoiceActive, stats.GrainCount, stats.VADEnergy)
}

func runResetAEC() {
	if err := controlClient().ResetAEC(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("OK: echo canceller reset")
}

func runSetPreset(name string) {
	if err := controlClient().SetPreset(name); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK: preset %q applied\n", name)
}

func runListDevices() {
	queue := audio.NewSampleQueue(2)
	rec, err := audio.NewRecorder(44100, nil, queue)
	if err != nil {
		log.Fatalf("Failed to initialize audio context: %v", err)
	}
	rec.Close()
}

func runDaemon(device *string, presetFlag *string) {
	fmt.Println("🌙 DREAMYSOUND STARTING UP!")
	fmt.Println(strings.Repeat("=", 50))

	cfgPath := config.GetConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *device != "" {
		cfg.AudioDevice = device
	}
	if *presetFlag != "" {
		cfg.Preset = *presetFlag
	}

	app := &App{cfg: cfg}

	if err := app.initialize(); err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	if err := app.controlServer.Start(); err != nil {
		log.Fatalf("Failed to start control server: %v", err)
	}

	if err := app.recorder.Start(); err != nil {
		log.Fatalf("Failed to start capture: %v", err)
	}

	if err := app.player.Start(); err != nil {
		log.Fatalf("Failed to start playback: %v", err)
	}

	fmt.Println("✅ dreamysound initialized successfully")
	fmt.Println("🎧 Streaming continuously — speak into the microphone to hear the dreamy effect")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\n🛑 Shutting down dreamysound...")
	app.cleanup()
}

func (app *App) initialize() error {
	app.sampleQueue = audio.NewSampleQueue(app.cfg.SampleRate / 2)

	pipelineCfg := app.cfg.PipelineConfig()
	app.pipeline = dsp.NewPipeline(pipelineCfg)
	app.pipeline.ApplyPreset(app.cfg.Preset())
	app.pipeline.SetAECEnabled(app.cfg.EchoCancellation)
	app.pipeline.SetVADGatingEnabled(app.cfg.VoiceActivityDetection)

	var err error
	app.recorder, err = audio.NewRecorder(app.cfg.SampleRate, app.cfg.AudioDevice, app.sampleQueue)
	if err != nil {
		return fmt.Errorf("failed to initialize audio recorder: %w", err)
	}

	app.player, err = audio.NewPlayer(app.cfg.SampleRate, app.sampleQueue, app.pipeline)
	if err != nil {
		return fmt.Errorf("failed to initialize audio player: %w", err)
	}

	app.controlServer = control.NewServer(app.cfg.SocketPath, app.pipeline)

	app.configWatcher, err = config.NewWatcher(cfgPath(), app.onConfigReload)
	if err != nil {
		fmt.Printf("⚠️  Config hot-reload disabled: %v\n", err)
	} else if err := app.configWatcher.Start(); err != nil {
		fmt.Printf("⚠️  Config hot-reload disabled: %v\n", err)
	}

	return nil
}

func cfgPath() string {
	return config.GetConfigPath()
}

// onConfigReload applies the parts of a reloaded config that are safe
// to change on a live pipeline: preset and AEC/VAD gating. Effects, AEC
// and VAD parameters, sample rate, and device selection are not
// reapplied; they take effect on the next start.
func (app *App) onConfigReload(cfg *config.Config) {
	fmt.Println("🔄 Config changed, reapplying preset and gating")
	app.cfg = cfg
	app.pipeline.ApplyPreset(cfg.Preset())
	app.pipeline.SetAECEnabled(cfg.EchoCancellation)
	app.pipeline.SetVADGatingEnabled(cfg.VoiceActivityDetection)
}

func (app *App) cleanup() {
	if app.configWatcher != nil {
		app.configWatcher.Stop()
	}
	if app.controlServer != nil {
		app.controlServer.Stop()
	}
	if app.player != nil {
		app.player.Close()
	}
	if app.recorder != nil {
		app.recorder.Close()
	}
	fmt.Println("✅ Cleanup completed")
}
