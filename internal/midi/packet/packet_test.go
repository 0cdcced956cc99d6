package packet

import (
	"testing"

	"github.com/leandrodaf/chordpattern/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"gitlab.com/gomidi/midi/v2"
)

func collect(data []byte) ([]midi.Message, bool) {
	var res []midi.Message
	ok := Split(data, func(m midi.Message) { res = append(res, m) })
	return res, ok
}

func TestSplitPlainMessages(t *testing.T) {
	got, ok := collect([]byte{0x90, 60, 100, 0x80, 60, 0, 0xC1, 5})

	assert.True(t, ok)
	assert.Equal(t, []midi.Message{
		{0x90, 60, 100},
		{0x80, 60, 0},
		{0xC1, 5},
	}, got)
}

func TestSplitRunningStatus(t *testing.T) {
	got, ok := collect([]byte{0x9F, 24, 100, 26, 90, 24, 0})

	assert.True(t, ok)
	assert.Equal(t, []midi.Message{
		{0x9F, 24, 100},
		{0x9F, 26, 90},
		{0x9F, 24, 0},
	}, got)
}

func TestSplitSkipsSystemBytes(t *testing.T) {
	data := []byte{
		0xF8,                   // clock
		0xF0, 0x43, 0x12, 0xF7, // sysex
		0xF2, 0x10, 0x20, // song position
		0x91, 64, 80,
		0xFE, // active sensing
	}
	got, ok := collect(data)

	assert.True(t, ok)
	assert.Equal(t, []midi.Message{{0x91, 64, 80}}, got)
}

func TestSplitSystemCommonClearsRunningStatus(t *testing.T) {
	got, ok := collect([]byte{0x90, 60, 100, 0xF6, 62, 100})

	assert.True(t, ok)
	assert.Equal(t, []midi.Message{{0x90, 60, 100}}, got)
}

func TestSplitIncomplete(t *testing.T) {
	got, ok := collect([]byte{0x90, 60, 100, 0x80, 60})

	assert.False(t, ok)
	assert.Len(t, got, 1)
}

func TestSplitCopiesData(t *testing.T) {
	data := []byte{0x90, 60, 100}
	got, _ := collect(data)
	data[1] = 0

	assert.Equal(t, midi.Message{0x90, 60, 100}, got[0])
}

func TestFromShort(t *testing.T) {
	assert.Equal(t, midi.Message{0x92, 60, 100}, FromShort(0x00643C92))
	assert.Equal(t, midi.Message{0xC0, 7}, FromShort(0x000007C0))
	assert.Nil(t, FromShort(0x000000F8))
	assert.Nil(t, FromShort(0x0000003C))
}

func TestAllowed(t *testing.T) {
	filter := &contracts.MIDIEventFilter{Commands: []contracts.MIDICommand{contracts.NoteOn, contracts.NoteOff}}

	assert.True(t, Allowed(nil, midi.Message{0xB0, 1, 1}))
	assert.True(t, Allowed(filter, midi.Message{0x95, 60, 1}))
	assert.True(t, Allowed(filter, midi.Message{0x85, 60, 0}))
	assert.False(t, Allowed(filter, midi.Message{0xB0, 1, 1}))
	assert.False(t, Allowed(filter, nil))
}
