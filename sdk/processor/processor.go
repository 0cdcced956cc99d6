// Package processor is the plugin-instance façade: one chord coordinator and
// one transport observer driven block by block.
package processor

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/leandrodaf/chordpattern/internal/coordinator"
	"github.com/leandrodaf/chordpattern/internal/logger"
	"github.com/leandrodaf/chordpattern/internal/transport"
	"github.com/leandrodaf/chordpattern/sdk/contracts"
)

// Processor implements contracts.Processor.
type Processor struct {
	id       string
	log      *logger.Async
	coord    *coordinator.Coordinator
	observer *transport.Observer
	sink     chan<- contracts.HostEvent

	// One slot; Configure replaces whatever the block path has not picked up yet.
	pending chan contracts.Config

	statusMu sync.Mutex
	status   contracts.Status
}

// NewProcessor creates a processor with the given options. The default routing
// is chord on channel 1, rhythm on 16, output on 2, root note 24.
func NewProcessor(opts ...contracts.Option) (contracts.Processor, error) {
	return New(opts...)
}

// New is NewProcessor returning the concrete type.
func New(opts ...contracts.Option) (*Processor, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}

	p := &Processor{
		id:       uuid.NewString(),
		log:      logger.NewAsync(options.Logger, options.LogQueueSize),
		coord:    coordinator.New(*options.Config, coordinator.DefaultCapacity),
		observer: transport.NewObserver(),
		sink:     options.EventSink,
		pending:  make(chan contracts.Config, 1),
	}
	p.publish()

	cfg := *options.Config
	options.Logger.Info("Processor created",
		options.Logger.Field().String("id", p.id),
		options.Logger.Field().Uint8("chord_channel", cfg.ChordChannel),
		options.Logger.Field().Uint8("rhythm_channel", cfg.RhythmChannel),
		options.Logger.Field().Uint8("output_channel", cfg.OutputChannel),
		options.Logger.Field().Uint8("rhythm_root", cfg.RhythmRoot),
		options.Logger.Field().Bool("pass_through", cfg.PassThrough),
	)
	return p, nil
}

// ID returns the instance identifier.
func (p *Processor) ID() string {
	return p.id
}

// Prepare sets the sample rate and reserves scratch room for maxBlockSize
// events. Call it before the first ProcessBlock, from the same goroutine.
func (p *Processor) Prepare(sampleRate float64, maxBlockSize int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: %v", contracts.ErrInvalidSampleRate, sampleRate)
	}
	if maxBlockSize <= 0 {
		return fmt.Errorf("%w: %d", contracts.ErrInvalidBlockSize, maxBlockSize)
	}

	p.coord.Reserve(maxBlockSize)
	if ev, ok := p.observer.UpdateSampleRate(sampleRate); ok {
		p.dispatch(ev)
	}
	p.publish()
	return nil
}

// Configure validates cfg and hands it to the block path. It takes effect at
// the start of the next ProcessBlock.
func (p *Processor) Configure(cfg contracts.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	for {
		select {
		case p.pending <- cfg:
			return nil
		default:
			select {
			case <-p.pending:
			default:
			}
		}
	}
}

// ProcessBlock replaces buf's events with the block's output. On a play to stop
// transition the output is only the flush note-offs and the block's input is
// discarded.
func (p *Processor) ProcessBlock(buf *contracts.MIDIBuffer, numSamples int, pos contracts.PositionInfo) {
	chordsBefore := p.coord.Chords().Size()
	p.applyPending()

	flushed := false
	for _, ev := range p.observer.Update(buf, numSamples, pos) {
		if p.dispatch(ev) {
			flushed = true
		}
	}

	if !flushed {
		p.coord.ProcessBlock(buf, numSamples)
		if n := p.coord.OutOfRange(); n > 0 {
			p.log.Warn("Events outside block",
				p.log.Field().Int("count", n),
				p.log.Field().Int("block_length", numSamples),
			)
		}
	}

	if after := p.coord.Chords().Size(); after != chordsBefore {
		p.dispatch(contracts.ChordChanged{Epoch: p.observer.Runs(), Old: chordsBefore, New: after})
	}

	p.observer.FinishRun(numSamples)
	p.publish()
}

// Status returns the snapshot published after the latest block.
func (p *Processor) Status() contracts.Status {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	return p.status
}

// Close writes queued log entries and stops the log goroutine. Call it after
// the last ProcessBlock.
func (p *Processor) Close() error {
	if n := p.log.Dropped(); n > 0 {
		p.log.Warn("Log entries dropped", p.log.Field().Uint64("count", n))
	}
	return p.log.Close()
}

// dispatch reacts to one host event and forwards it to the sink. It reports
// whether the block output was replaced by a stop flush.
func (p *Processor) dispatch(ev contracts.HostEvent) (flushed bool) {
	switch e := ev.(type) {
	case contracts.PlayingChanged:
		if e.Stopped() {
			n := p.coord.FlushOnStop(e.Context.Buffer)
			flushed = true
			p.log.Info("Transport stopped",
				p.log.Field().Int("released_voices", n),
				p.log.Field().Int64("epoch", e.Context.Epoch),
			)
		} else {
			p.log.Debug("Transport started", p.log.Field().Int64("epoch", e.Context.Epoch))
		}
	case contracts.TempoChanged:
		p.log.Debug("Tempo changed",
			p.log.Field().Float64("bpm", e.New.BPM),
			p.log.Field().Float64("samples_per_beat", e.New.SamplesPerBeat),
		)
	case contracts.SampleRateChanged:
		p.log.Info("Sample rate changed",
			p.log.Field().Float64("old", e.Old),
			p.log.Field().Float64("new", e.New),
		)
	case contracts.ChordChanged:
		p.log.Debug("Chord changed", p.log.Field().Int("size", e.New))
	}

	if p.sink != nil {
		select {
		case p.sink <- ev:
		default:
		}
	}
	return flushed
}

func (p *Processor) applyPending() {
	select {
	case cfg := <-p.pending:
		old := p.coord.Config()
		p.coord.SetConfig(cfg)
		p.log.Info("Configuration applied",
			p.log.Field().Uint8("chord_channel", cfg.ChordChannel),
			p.log.Field().Uint8("rhythm_channel", cfg.RhythmChannel),
			p.log.Field().Uint8("output_channel", cfg.OutputChannel),
			p.log.Field().Uint8("previous_output_channel", old.OutputChannel),
			p.log.Field().Uint8("rhythm_root", cfg.RhythmRoot),
			p.log.Field().Bool("pass_through", cfg.PassThrough),
		)
	default:
	}
}

// publish stores a status snapshot. A reader holding the lock makes it skip
// this block rather than wait.
func (p *Processor) publish() {
	if !p.statusMu.TryLock() {
		return
	}
	p.status = contracts.Status{
		ID:               p.id,
		IsPlaying:        p.observer.Playing(),
		BPM:              p.observer.Tempo().BPM,
		SampleRate:       p.observer.SampleRate(),
		Blocks:           p.observer.Runs(),
		SamplesProcessed: p.observer.Samples(),
		ActiveVoices:     p.coord.Voices().Len(),
		ChordSize:        p.coord.Chords().Size(),
		Config:           p.coord.Config(),
	}
	p.statusMu.Unlock()
}
