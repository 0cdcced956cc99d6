package smfio

import (
	"sync"

	"gitlab.com/gomidi/midi/v2"
	"golang.org/x/exp/slices"
)

// Recorder collects events from a running processor for writing later. It is
// safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record stores a copy of msg at sample. Samples must not decrease between calls.
func (r *Recorder) Record(sample int64, msg midi.Message) {
	r.mu.Lock()
	r.events = append(r.events, Event{Sample: sample, Message: slices.Clone(msg)})
	r.mu.Unlock()
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// WriteFile writes everything recorded so far to path.
func (r *Recorder) WriteFile(path string, sampleRate, bpm float64) error {
	return WriteFile(path, r.Events(), sampleRate, bpm)
}
