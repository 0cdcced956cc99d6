// Package live runs a processor against captured MIDI in real time.
package live

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/leandrodaf/chordpattern/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
)

// Default queue sizes.
const (
	DefaultInputQueue  = 1024
	DefaultOutputQueue = 4096
)

// Settings configure an Engine.
type Settings struct {
	BPM         float64 // Tempo reported to the processor; zero leaves it unknown.
	InputQueue  int     // Capacity of the capture channel.
	OutputQueue int     // Capacity of the hand-off to sinks.
	Sinks       []Sink
}

// outEvent is a processor output copied out of the block buffer without allocating.
type outEvent struct {
	sample int64
	n      uint8
	data   [3]byte
}

// Engine places captured messages into blocks, runs them through a processor
// on the clock's goroutine, and forwards the output to sinks.
type Engine struct {
	proc     contracts.Processor
	clock    Clock
	log      contracts.Logger
	settings Settings

	input   chan contracts.MIDI
	out     chan outEvent
	playing atomic.Bool
	ticked  chan struct{}
	dropped atomic.Uint64

	// Owned by the clock goroutine.
	buf      contracts.MIDIBuffer
	prevTick time.Time
	samples  int64
	now      func() time.Time

	sinksDone sync.WaitGroup
}

// NewEngine returns an engine with transport playing.
func NewEngine(proc contracts.Processor, clock Clock, log contracts.Logger, settings Settings) *Engine {
	if settings.InputQueue <= 0 {
		settings.InputQueue = DefaultInputQueue
	}
	if settings.OutputQueue <= 0 {
		settings.OutputQueue = DefaultOutputQueue
	}
	e := &Engine{
		proc:     proc,
		clock:    clock,
		log:      log,
		settings: settings,
		input:    make(chan contracts.MIDI, settings.InputQueue),
		out:      make(chan outEvent, settings.OutputQueue),
		ticked:   make(chan struct{}, 1),
		buf:      contracts.MIDIBuffer{Events: make([]contracts.TimedEvent, 0, clock.BlockSize())},
		now:      time.Now,
	}
	e.playing.Store(true)
	return e
}

// Input is the channel a capture client sends to.
func (e *Engine) Input() chan contracts.MIDI {
	return e.input
}

// SetPlaying starts or stops the transport from the next block. Stopping
// releases every sounding note.
func (e *Engine) SetPlaying(playing bool) {
	e.playing.Store(playing)
}

// Status returns the processor status.
func (e *Engine) Status() contracts.Status {
	return e.proc.Status()
}

// Configure hands a new configuration to the processor.
func (e *Engine) Configure(cfg contracts.Config) error {
	return e.proc.Configure(cfg)
}

// Dropped returns how many output events were lost because the sinks fell behind.
func (e *Engine) Dropped() uint64 {
	return e.dropped.Load()
}

// Run processes blocks until ctx is done. It then stops the transport, waits
// for the flush block, stops the clock and drains the sinks.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.proc.Prepare(e.clock.SampleRate(), e.clock.BlockSize()); err != nil {
		return err
	}

	e.sinksDone.Add(1)
	go e.forward()
	defer func() {
		close(e.out)
		e.sinksDone.Wait()
	}()

	e.prevTick = e.now()
	if err := e.clock.Start(e.tick); err != nil {
		return err
	}
	e.log.Info("Live engine started",
		e.log.Field().Float64("sample_rate", e.clock.SampleRate()),
		e.log.Field().Int("block_size", e.clock.BlockSize()),
		e.log.Field().Float64("bpm", e.settings.BPM))

	<-ctx.Done()

	e.SetPlaying(false)
	e.awaitBlocks(2)
	if err := e.clock.Stop(); err != nil {
		return err
	}

	e.log.Info("Live engine stopped",
		e.log.Field().Int64("samples", e.samples),
		e.log.Field().Uint64("dropped_output", e.dropped.Load()))
	return nil
}

// awaitBlocks waits for n more blocks, or for a few block periods if the
// clock has stalled. The first block may have started before the caller's change.
func (e *Engine) awaitBlocks(n int) {
	period := time.Duration(float64(e.clock.BlockSize()) / e.clock.SampleRate() * float64(time.Second))
	timeout := time.After(4*time.Duration(n)*period + 100*time.Millisecond)
	select {
	case <-e.ticked:
	default:
	}
	for i := 0; i < n; i++ {
		select {
		case <-e.ticked:
		case <-timeout:
			return
		}
	}
}

// tick runs one block. It is called on the clock goroutine.
func (e *Engine) tick(numSamples int) {
	now := e.now()
	e.buf.Clear()

drain:
	for {
		select {
		case m := <-e.input:
			e.buf.Add(m.Message, e.position(m.Timestamp, numSamples))
		default:
			break drain
		}
	}

	e.proc.ProcessBlock(&e.buf, numSamples, contracts.PositionInfo{
		IsPlaying: e.playing.Load(),
		BPM:       e.settings.BPM,
	})

	for _, ev := range e.buf.Events {
		if len(ev.Message) == 0 || len(ev.Message) > 3 {
			continue
		}
		oe := outEvent{sample: e.samples + int64(ev.SamplePosition), n: uint8(len(ev.Message))}
		copy(oe.data[:], ev.Message)
		select {
		case e.out <- oe:
		default:
			e.dropped.Add(1)
		}
	}

	e.prevTick = now
	e.samples += int64(numSamples)

	select {
	case e.ticked <- struct{}{}:
	default:
	}
}

// position maps a capture timestamp to a sample inside the block that ends now.
// Messages that arrived before the previous tick land at 0.
func (e *Engine) position(timestamp uint64, numSamples int) int {
	elapsed := time.Duration(int64(timestamp) - e.prevTick.UnixNano())
	pos := int(elapsed.Seconds() * e.clock.SampleRate())
	if pos < 0 {
		return 0
	}
	if pos >= numSamples {
		return numSamples - 1
	}
	return pos
}

func (e *Engine) forward() {
	defer e.sinksDone.Done()
	for oe := range e.out {
		for _, s := range e.settings.Sinks {
			msg := make(midi.Message, oe.n)
			copy(msg, oe.data[:oe.n])
			s.Record(oe.sample, msg)
		}
	}
}
