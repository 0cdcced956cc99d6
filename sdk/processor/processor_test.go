package processor

import (
	"errors"
	"testing"

	"github.com/leandrodaf/chordpattern/internal/logger"
	"github.com/leandrodaf/chordpattern/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var playing = contracts.PositionInfo{IsPlaying: true, BPM: 120}

func newTestProcessor(t *testing.T, opts ...contracts.Option) (*Processor, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	opts = append([]contracts.Option{contracts.WithLogger(logger.FromZap(zap.New(core)))}, opts...)
	p, err := New(opts...)
	require.NoError(t, err)
	require.NoError(t, p.Prepare(48000, 64))
	return p, logs
}

func chordAndTrigger() *contracts.MIDIBuffer {
	buf := &contracts.MIDIBuffer{}
	buf.Add(midi.NoteOn(0, 60, 100), 0)
	buf.Add(midi.NoteOn(0, 64, 100), 0)
	buf.Add(midi.NoteOn(15, 24, 100), 3)
	buf.Add(midi.NoteOn(15, 25, 100), 4)
	return buf
}

func TestNewProcessorRejectsInvalidConfig(t *testing.T) {
	_, err := NewProcessor(contracts.WithLogger(logger.NewNop()), contracts.WithChordChannel(16))
	assert.ErrorIs(t, err, contracts.ErrChannelConflict)

	_, err = NewProcessor(contracts.WithLogger(logger.NewNop()), contracts.WithOutputChannel(0))
	assert.ErrorIs(t, err, contracts.ErrInvalidChannel)
}

func TestPrepareValidates(t *testing.T) {
	p, err := New(contracts.WithLogger(logger.NewNop()))
	require.NoError(t, err)
	defer p.Close()

	assert.ErrorIs(t, p.Prepare(0, 64), contracts.ErrInvalidSampleRate)
	assert.ErrorIs(t, p.Prepare(44100, 0), contracts.ErrInvalidBlockSize)
	require.NoError(t, p.Prepare(44100, 128))
	assert.Equal(t, 44100.0, p.Status().SampleRate)
}

func TestProcessBlockGeneratesAndPublishesStatus(t *testing.T) {
	p, _ := newTestProcessor(t)
	defer p.Close()

	buf := chordAndTrigger()
	p.ProcessBlock(buf, 64, playing)

	require.Len(t, buf.Events, 2)
	assert.Equal(t, midi.Message(midi.NoteOn(1, 60, 100)), buf.Events[0].Message)
	assert.Equal(t, 3, buf.Events[0].SamplePosition)
	assert.Equal(t, midi.Message(midi.NoteOn(1, 64, 100)), buf.Events[1].Message)

	s := p.Status()
	assert.Equal(t, p.ID(), s.ID)
	assert.True(t, s.IsPlaying)
	assert.Equal(t, 120.0, s.BPM)
	assert.Equal(t, int64(1), s.Blocks)
	assert.Equal(t, int64(64), s.SamplesProcessed)
	assert.Equal(t, 2, s.ActiveVoices)
	assert.Equal(t, 2, s.ChordSize)
	assert.Equal(t, contracts.DefaultConfig(), s.Config)
}

func TestStopFlushReplacesBlock(t *testing.T) {
	p, logs := newTestProcessor(t)

	p.ProcessBlock(chordAndTrigger(), 64, playing)

	buf := &contracts.MIDIBuffer{}
	buf.Add(midi.NoteOn(15, 24, 100), 10)
	p.ProcessBlock(buf, 64, contracts.PositionInfo{BPM: 120})

	require.Len(t, buf.Events, 2)
	for _, ev := range buf.Events {
		assert.Equal(t, 0, ev.SamplePosition)
		var ch, key uint8
		assert.True(t, ev.Message.GetNoteEnd(&ch, &key))
		assert.Equal(t, uint8(1), ch)
	}
	s := p.Status()
	assert.Zero(t, s.ActiveVoices)
	assert.Zero(t, s.ChordSize)
	assert.False(t, s.IsPlaying)

	// Still stopped: no second flush, input is processed normally.
	buf.Clear()
	buf.Add(midi.NoteOn(0, 62, 100), 1)
	p.ProcessBlock(buf, 64, contracts.PositionInfo{BPM: 120})
	assert.Empty(t, buf.Events)
	assert.Equal(t, 1, p.Status().ChordSize)

	require.NoError(t, p.Close())
	stopped := logs.FilterMessage("Transport stopped").All()
	require.Len(t, stopped, 1)
	assert.EqualValues(t, 2, stopped[0].ContextMap()["released_voices"])
}

func TestConfigureAppliesAtNextBlock(t *testing.T) {
	p, logs := newTestProcessor(t)

	p.ProcessBlock(chordAndTrigger(), 64, playing)

	cfg := contracts.DefaultConfig()
	cfg.OutputChannel = 3
	cfg.RhythmRoot = 26
	require.NoError(t, p.Configure(cfg))
	assert.Equal(t, uint8(2), p.Status().Config.OutputChannel)

	buf := &contracts.MIDIBuffer{}
	buf.Add(midi.NoteOn(15, 26, 100), 5)
	p.ProcessBlock(buf, 64, playing)

	require.Len(t, buf.Events, 3)
	assert.Equal(t, midi.Message(midi.NoteOffVelocity(1, 60, 100)), buf.Events[0].Message)
	assert.Equal(t, midi.Message(midi.NoteOffVelocity(1, 64, 100)), buf.Events[1].Message)
	assert.Equal(t, 0, buf.Events[1].SamplePosition)
	assert.Equal(t, midi.Message(midi.NoteOn(2, 60, 100)), buf.Events[2].Message)
	assert.Equal(t, 5, buf.Events[2].SamplePosition)
	assert.Equal(t, cfg, p.Status().Config)

	require.NoError(t, p.Close())
	assert.Equal(t, 1, logs.FilterMessage("Configuration applied").Len())
}

func TestConfigureInputChannelsReleasesHeldState(t *testing.T) {
	sink := make(chan contracts.HostEvent, 16)
	p, _ := newTestProcessor(t, contracts.WithEventSink(sink))
	defer p.Close()

	p.ProcessBlock(chordAndTrigger(), 64, playing)

	cfg := contracts.DefaultConfig()
	cfg.ChordChannel = 3
	cfg.RhythmChannel = 10
	require.NoError(t, p.Configure(cfg))

	buf := &contracts.MIDIBuffer{}
	buf.Add(midi.NoteOff(15, 24), 5)
	p.ProcessBlock(buf, 64, playing)
	close(sink)

	assert.Equal(t, []contracts.TimedEvent{
		{Message: midi.NoteOffVelocity(1, 60, 100), SamplePosition: 0},
		{Message: midi.NoteOffVelocity(1, 64, 100), SamplePosition: 0},
	}, buf.Events)
	assert.Zero(t, p.Status().ActiveVoices)
	assert.Zero(t, p.Status().ChordSize)

	var changes []contracts.ChordChanged
	for ev := range sink {
		if e, ok := ev.(contracts.ChordChanged); ok {
			changes = append(changes, e)
		}
	}
	require.Len(t, changes, 2)
	assert.Equal(t, 2, changes[1].Old)
	assert.Equal(t, 0, changes[1].New)
}

func TestConfigureKeepsLatest(t *testing.T) {
	p, _ := newTestProcessor(t)
	defer p.Close()

	first := contracts.DefaultConfig()
	first.RhythmRoot = 30
	second := contracts.DefaultConfig()
	second.RhythmRoot = 36

	require.NoError(t, p.Configure(first))
	require.NoError(t, p.Configure(second))
	p.ProcessBlock(&contracts.MIDIBuffer{}, 64, playing)

	assert.Equal(t, uint8(36), p.Status().Config.RhythmRoot)
}

func TestConfigureRejectsInvalid(t *testing.T) {
	p, _ := newTestProcessor(t)
	defer p.Close()

	cfg := contracts.DefaultConfig()
	cfg.RhythmChannel = cfg.ChordChannel
	err := p.Configure(cfg)
	assert.True(t, errors.Is(err, contracts.ErrChannelConflict))

	p.ProcessBlock(&contracts.MIDIBuffer{}, 64, playing)
	assert.Equal(t, contracts.DefaultConfig(), p.Status().Config)
}

func TestEventSink(t *testing.T) {
	sink := make(chan contracts.HostEvent, 16)
	p, _ := newTestProcessor(t, contracts.WithEventSink(sink))
	defer p.Close()

	p.ProcessBlock(chordAndTrigger(), 64, playing)
	p.ProcessBlock(&contracts.MIDIBuffer{}, 64, contracts.PositionInfo{BPM: 120})
	close(sink)

	var kinds []string
	for ev := range sink {
		switch e := ev.(type) {
		case contracts.SampleRateChanged:
			kinds = append(kinds, "rate")
			assert.Equal(t, 48000.0, e.New)
		case contracts.TempoChanged:
			kinds = append(kinds, "tempo")
		case contracts.PlayingChanged:
			if e.Stopped() {
				kinds = append(kinds, "stop")
			} else {
				kinds = append(kinds, "play")
			}
		case contracts.ChordChanged:
			kinds = append(kinds, "chord")
			if e.New == 0 {
				assert.Equal(t, 2, e.Old)
			}
		}
	}
	assert.Equal(t, []string{"rate", "tempo", "play", "chord", "stop", "chord"}, kinds)
}

func TestFullSinkDoesNotBlock(t *testing.T) {
	sink := make(chan contracts.HostEvent)
	p, _ := newTestProcessor(t, contracts.WithEventSink(sink))
	defer p.Close()

	p.ProcessBlock(chordAndTrigger(), 64, playing)
	assert.Equal(t, int64(1), p.Status().Blocks)
}

func TestOutOfRangeEventsAreLogged(t *testing.T) {
	p, logs := newTestProcessor(t)

	buf := &contracts.MIDIBuffer{}
	buf.Add(midi.NoteOn(0, 60, 100), 100)
	p.ProcessBlock(buf, 64, playing)

	require.NoError(t, p.Close())
	warned := logs.FilterMessage("Events outside block").All()
	require.Len(t, warned, 1)
	assert.EqualValues(t, 1, warned[0].ContextMap()["count"])
}
