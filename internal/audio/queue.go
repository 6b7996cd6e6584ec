// Package audio wires the capture and playback device collaborators to
// the DSP core in internal/dsp. Nothing in this package performs
// per-sample math; it owns devices, buffering, and the single SPSC
// queue that bridges the capture thread to the playback/core thread.
package audio

import "sync/atomic"

// SampleQueue is a bounded, lossy, single-producer single-consumer ring
// buffer of float32 samples. The producer (capture callback) pushes
// non-blockingly and drops samples on overflow; the consumer (playback
// callback, which also drives the DSP core) pops non-blockingly and
// substitutes silence on underflow. No lock is used — head and tail
// are independent atomics; a general mutex/MPMC primitive would be
// overkill for one writer and one reader.
type SampleQueue struct {
	buf  []float32
	head atomic.Uint32 // next slot the consumer will read
	tail atomic.Uint32 // next slot the producer will write
}

// NewSampleQueue allocates a ring of capacity slots. One slot is always
// kept empty to distinguish full from empty, so at most capacity-1
// samples are queued at once.
func NewSampleQueue(capacity int) *SampleQueue {
	if capacity < 2 {
		capacity = 2
	}
	return &SampleQueue{buf: make([]float32, capacity)}
}

// TryPush attempts to enqueue one sample. It returns false, dropping
// the sample, if the queue is full.
func (q *SampleQueue) TryPush(sample float32) bool {
	tail := q.tail.Load()
	next := (tail + 1) % uint32(len(q.buf))
	if next == q.head.Load() {
		return false // full
	}
	q.buf[tail] = sample
	q.tail.Store(next)
	return true
}

// TryPop attempts to dequeue one sample. It returns (0, false) if the
// queue is empty; callers on the audio thread should substitute 0.0.
func (q *SampleQueue) TryPop() (float32, bool) {
	head := q.head.Load()
	if head == q.tail.Load() {
		return 0, false // empty
	}
	sample := q.buf[head]
	q.head.Store((head + 1) % uint32(len(q.buf)))
	return sample, true
}

// Len reports the approximate number of queued samples; useful only
// for diagnostics, since producer/consumer may race with the read.
func (q *SampleQueue) Len() int {
	tail := q.tail.Load()
	head := q.head.Load()
	if tail >= head {
		return int(tail - head)
	}
	return int(uint32(len(q.buf)) - head + tail)
}
