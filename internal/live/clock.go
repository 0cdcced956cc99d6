package live

import (
	"errors"
	"sync"
	"time"
)

// ErrClockRunning is returned by Start on a clock that was already started.
var ErrClockRunning = errors.New("clock already running")

// Clock drives the engine. Start calls tick once per block, always from the
// same goroutine, until Stop returns.
type Clock interface {
	Start(tick func(numSamples int)) error
	Stop() error
	SampleRate() float64
	BlockSize() int
}

// TickerClock is a Clock paced by a time.Ticker. Use it when no audio device
// should be opened.
type TickerClock struct {
	sampleRate float64
	blockSize  int

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewTickerClock returns a clock that ticks every blockSize/sampleRate seconds.
func NewTickerClock(sampleRate float64, blockSize int) *TickerClock {
	return &TickerClock{sampleRate: sampleRate, blockSize: blockSize}
}

// SampleRate returns the rate the clock was created with.
func (c *TickerClock) SampleRate() float64 { return c.sampleRate }

// BlockSize returns the number of samples passed to each tick.
func (c *TickerClock) BlockSize() int { return c.blockSize }

// Start begins ticking on a new goroutine.
func (c *TickerClock) Start(tick func(numSamples int)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop != nil {
		return ErrClockRunning
	}
	c.stop = make(chan struct{})
	c.done = make(chan struct{})

	period := time.Duration(float64(c.blockSize) / c.sampleRate * float64(time.Second))
	go func(stop, done chan struct{}) {
		defer close(done)
		t := time.NewTicker(period)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				tick(c.blockSize)
			}
		}
	}(c.stop, c.done)
	return nil
}

// Stop ends ticking and waits for a tick in progress.
func (c *TickerClock) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop == nil {
		return nil
	}
	close(c.stop)
	<-c.done
	c.stop, c.done = nil, nil
	return nil
}
