// Package paclock paces the live engine with a PortAudio output stream, so
// blocks follow the sound card's clock instead of the system timer.
package paclock

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// Clock opens a silent mono output stream and calls tick from its callback.
type Clock struct {
	sampleRate float64
	blockSize  int

	mu     sync.Mutex
	stream *portaudio.Stream
}

// New returns a clock for the default output device.
func New(sampleRate float64, blockSize int) *Clock {
	return &Clock{sampleRate: sampleRate, blockSize: blockSize}
}

// SampleRate returns the stream's sample rate.
func (c *Clock) SampleRate() float64 { return c.sampleRate }

// BlockSize returns the frames per buffer requested from PortAudio.
func (c *Clock) BlockSize() int { return c.blockSize }

// Start initializes PortAudio and starts the stream.
func (c *Clock) Start(tick func(numSamples int)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream != nil {
		return fmt.Errorf("portaudio clock already running")
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio initialize: %w", err)
	}
	s, err := portaudio.OpenDefaultStream(0, 1, c.sampleRate, c.blockSize, func(out []float32) {
		for i := range out {
			out[i] = 0
		}
		tick(len(out))
	})
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("portaudio open stream: %w", err)
	}
	if err := s.Start(); err != nil {
		s.Close()
		portaudio.Terminate()
		return fmt.Errorf("portaudio start: %w", err)
	}
	c.stream = s
	return nil
}

// Stop stops and closes the stream and terminates PortAudio.
func (c *Clock) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stream == nil {
		return nil
	}
	defer portaudio.Terminate()
	s := c.stream
	c.stream = nil
	if err := s.Stop(); err != nil {
		s.Close()
		return err
	}
	return s.Close()
}
