package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
)

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"chord channel zero", func(c *Config) { c.ChordChannel = 0 }, ErrInvalidChannel},
		{"rhythm channel 17", func(c *Config) { c.RhythmChannel = 17 }, ErrInvalidChannel},
		{"output channel 17", func(c *Config) { c.OutputChannel = 17 }, ErrInvalidChannel},
		{"root above 127", func(c *Config) { c.RhythmRoot = 128 }, ErrInvalidRootNote},
		{"same input channels", func(c *Config) { c.RhythmChannel = c.ChordChannel }, ErrChannelConflict},
		{"output shares chord channel", func(c *Config) { c.OutputChannel = c.ChordChannel }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	for _, name := range []string{"debug", "info", "warn", "error", "fatal"} {
		level, err := ParseLogLevel(name)
		require.NoError(t, err)
		assert.Equal(t, name, level.String())
	}

	level, err := ParseLogLevel(" WARNING ")
	require.NoError(t, err)
	assert.Equal(t, WarnLevel, level)

	level, err = ParseLogLevel("")
	require.NoError(t, err)
	assert.Equal(t, InfoLevel, level)

	_, err = ParseLogLevel("verbose")
	assert.ErrorIs(t, err, ErrInvalidLogLevel)

	assert.Equal(t, "LogLevel(9)", LogLevel(9).String())
}

func TestChannelOptionsStartFromDefaults(t *testing.T) {
	var opts Options
	WithOutputChannel(5)(&opts)
	WithPassThrough(true)(&opts)

	want := DefaultConfig()
	want.OutputChannel = 5
	want.PassThrough = true
	require.NotNil(t, opts.Config)
	assert.Equal(t, want, *opts.Config)
}

func TestWithConfigThenChannelOption(t *testing.T) {
	var opts Options
	WithConfig(Config{ChordChannel: 3, RhythmChannel: 4, OutputChannel: 5, RhythmRoot: 36})(&opts)
	WithRhythmRoot(48)(&opts)

	assert.Equal(t, Config{ChordChannel: 3, RhythmChannel: 4, OutputChannel: 5, RhythmRoot: 48}, *opts.Config)
}

func TestMIDICommand(t *testing.T) {
	assert.Equal(t, NoteOn, MIDI{Message: midi.NoteOn(3, 60, 100)}.Command())
	assert.Equal(t, NoteOff, MIDI{Message: midi.NoteOff(3, 60)}.Command())
	assert.Equal(t, ControlChange, MIDI{Message: midi.ControlChange(0, 7, 100)}.Command())
	assert.Equal(t, MIDICommand(0), MIDI{}.Command())
}

func TestMIDIBuffer(t *testing.T) {
	var buf MIDIBuffer
	buf.Add(midi.NoteOn(0, 60, 100), 4)
	buf.Add(midi.NoteOff(0, 60), 8)
	assert.Equal(t, 2, buf.Len())
	assert.Equal(t, 8, buf.Events[1].SamplePosition)

	buf.Clear()
	assert.Zero(t, buf.Len())
	assert.Equal(t, 2, cap(buf.Events))
}
