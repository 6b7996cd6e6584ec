package audio

import (
	"fmt"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/mwilder/dreamysound/internal/dsp"
)

var speakerInitialized = false

// PipelineStreamer is a beep.Streamer that pulls raw mic samples from
// a SampleQueue, runs the DSP pipeline once per sample, and fans the
// mono result out to both output channels. Stream runs on beep's
// playback goroutine; it never allocates and never blocks beyond the
// queue's non-blocking pop.
type PipelineStreamer struct {
	queue    *SampleQueue
	pipeline *dsp.Pipeline
}

// NewPipelineStreamer builds a streamer around queue and pipeline.
func NewPipelineStreamer(queue *SampleQueue, pipeline *dsp.Pipeline) *PipelineStreamer {
	return &PipelineStreamer{queue: queue, pipeline: pipeline}
}

// Stream fills samples with the pipeline's output. It never returns
// ok=false: an empty queue substitutes silence into the pipeline
// rather than stalling playback.
func (s *PipelineStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		in, _ := s.queue.TryPop() // zero value substitutes silence on underflow
		out := s.pipeline.Process(in)

		v := float64(out)
		samples[i][0] = v
		samples[i][1] = v
	}
	return len(samples), true
}

// Err always returns nil: the pipeline has no recoverable error state.
func (s *PipelineStreamer) Err() error {
	return nil
}

// Player drives continuous playback of the dreamy pipeline's output
// through the system speaker.
type Player struct {
	sampleRate int
	streamer   *PipelineStreamer
	running    bool
}

// NewPlayer builds a player that will stream pipeline's output, fed by
// samples popped from queue, at sampleRate.
func NewPlayer(sampleRate int, queue *SampleQueue, pipeline *dsp.Pipeline) (*Player, error) {
	return &Player{
		sampleRate: sampleRate,
		streamer:   NewPipelineStreamer(queue, pipeline),
	}, nil
}

// Start initializes the speaker (once per process) and begins
// continuous playback of the pipeline's output.
func (p *Player) Start() error {
	if p.running {
		return fmt.Errorf("already playing")
	}

	if !speakerInitialized {
		format := beep.SampleRate(p.sampleRate)
		if err := speaker.Init(format, format.N(format.D(1)/10)); err != nil {
			return fmt.Errorf("failed to initialize audio speaker: %w", err)
		}
		speakerInitialized = true
	}

	speaker.Play(p.streamer)
	p.running = true
	fmt.Println("🔊 Dreamy playback started")
	return nil
}

// Stop halts playback. The speaker remains initialized for reuse.
func (p *Player) Stop() {
	if !p.running {
		return
	}
	speaker.Clear()
	p.running = false
	fmt.Println("🛑 Dreamy playback stopped")
}

// Close releases the player. Currently no cleanup beyond Stop.
func (p *Player) Close() {
	p.Stop()
}
