package midi

import (
	"testing"

	"github.com/leandrodaf/chordpattern/internal/logger"
	"github.com/leandrodaf/chordpattern/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaultOptions(t *testing.T) {
	options, err := applyDefaultOptions()
	require.NoError(t, err)

	assert.NotNil(t, options.Logger)
	assert.Equal(t, contracts.InfoLevel, options.LogLevel)
	assert.Equal(t, DefaultClientName, options.CoreMIDIConfig.ClientName)
	assert.Nil(t, options.MIDIEventFilter)
}

func TestApplyDefaultOptionsKeepsGivenValues(t *testing.T) {
	log := logger.NewNop()
	options, err := applyDefaultOptions(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.DebugLevel),
		contracts.WithCoreMIDIConfig(contracts.CoreMIDIConfig{ClientName: "Studio"}),
		contracts.WithMIDIEventFilter(contracts.MIDIEventFilter{Commands: []contracts.MIDICommand{contracts.NoteOn}}),
	)
	require.NoError(t, err)

	assert.Same(t, log, options.Logger)
	assert.Equal(t, contracts.DebugLevel, options.LogLevel)
	assert.Equal(t, "Studio", options.CoreMIDIConfig.ClientName)
	assert.Equal(t, []contracts.MIDICommand{contracts.NoteOn}, options.MIDIEventFilter.Commands)
}

func TestUnsupportedOS(t *testing.T) {
	options, err := applyDefaultOptions(contracts.WithLogger(logger.NewNop()))
	require.NoError(t, err)

	client, err := newClientFor("plan9", &options)
	assert.Nil(t, client)
	assert.ErrorIs(t, err, ErrUnsupportedOS)
}
