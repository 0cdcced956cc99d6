package render

import (
	"path/filepath"
	"testing"

	"github.com/leandrodaf/chordpattern/internal/logger"
	"github.com/leandrodaf/chordpattern/internal/smfio"
	"github.com/leandrodaf/chordpattern/sdk/contracts"
	"github.com/leandrodaf/chordpattern/sdk/processor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
)

func newProcessor(t *testing.T, opts ...contracts.Option) contracts.Processor {
	t.Helper()
	opts = append([]contracts.Option{contracts.WithLogger(logger.NewNop())}, opts...)
	p, err := processor.NewProcessor(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p
}

func TestRenderMapsAndFlushes(t *testing.T) {
	in := []smfio.Event{
		{Sample: 0, Message: midi.NoteOn(0, 60, 100)},
		{Sample: 0, Message: midi.NoteOn(0, 64, 90)},
		{Sample: 100, Message: midi.NoteOn(15, 24, 100)},
		{Sample: 150, Message: midi.NoteOn(15, 25, 100)},
		{Sample: 300, Message: midi.NoteOff(15, 24)},
	}

	out, res, err := Render(newProcessor(t), in, Settings{SampleRate: 1000, BlockSize: 64, BPM: 120})
	require.NoError(t, err)

	assert.Equal(t, []smfio.Event{
		{Sample: 100, Message: midi.NoteOn(1, 60, 100)},
		{Sample: 150, Message: midi.NoteOn(1, 64, 90)},
		{Sample: 300, Message: midi.NoteOffVelocity(1, 60, 100)},
		// Blocks start at 0, 64, ..., 256; the stopped block starts at 320.
		{Sample: 320, Message: midi.NoteOffVelocity(1, 64, 90)},
	}, out)
	assert.Equal(t, Result{Blocks: 6, Input: 5, Output: 4}, res)
}

func TestRenderEmptyInput(t *testing.T) {
	out, res, err := Render(newProcessor(t), nil, DefaultSettings())
	require.NoError(t, err)

	assert.Empty(t, out)
	assert.Equal(t, 1, res.Blocks)
}

func TestRenderRejectsBadSettings(t *testing.T) {
	_, _, err := Render(newProcessor(t), nil, Settings{SampleRate: 48000})
	assert.ErrorIs(t, err, contracts.ErrInvalidBlockSize)
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.mid")
	out := filepath.Join(dir, "out.mid")
	s := Settings{SampleRate: 48000, BlockSize: 480, BPM: 120}

	require.NoError(t, smfio.WriteFile(in, []smfio.Event{
		{Sample: 0, Message: midi.NoteOn(0, 62, 80)},
		{Sample: 24000, Message: midi.NoteOn(15, 36, 100)},
		{Sample: 48000, Message: midi.NoteOff(15, 36)},
	}, s.SampleRate, s.BPM))

	res, err := File(newProcessor(t, contracts.WithOutputChannel(5)), in, out, s)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Output)

	got, err := smfio.ReadFile(out, s.SampleRate)
	require.NoError(t, err)
	assert.Equal(t, []smfio.Event{
		{Sample: 24000, Message: midi.NoteOn(4, 74, 80)},
		{Sample: 48000, Message: midi.NoteOffVelocity(4, 74, 80)},
	}, got)
}

func TestFileMissingInput(t *testing.T) {
	_, err := File(newProcessor(t), filepath.Join(t.TempDir(), "missing.mid"), "out.mid", DefaultSettings())
	assert.Error(t, err)
}
