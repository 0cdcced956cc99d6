package contracts

import (
	"errors"
	"fmt"
)

// Error definitions for configuration problems.
var (
	ErrInvalidChannel    = errors.New("MIDI channel must be between 1 and 16")
	ErrInvalidRootNote   = errors.New("rhythm root note must be between 0 and 127")
	ErrChannelConflict   = errors.New("chord and rhythm input channels must differ")
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	ErrInvalidBlockSize  = errors.New("block size must be positive")
	ErrInvalidLogLevel   = errors.New("unknown log level")
)

// Default channel routing and root note.
const (
	DefaultChordChannel  uint8 = 1
	DefaultRhythmChannel uint8 = 16
	DefaultOutputChannel uint8 = 2
	DefaultRhythmRoot    uint8 = 24 // C1
)

// Config is the routing configuration consumed by the event coordinator.
// Channels are 1-based, as shown to users.
type Config struct {
	ChordChannel  uint8 `json:"chord_channel"`  // Channel whose notes define the chord.
	RhythmChannel uint8 `json:"rhythm_channel"` // Channel whose notes trigger chord notes.
	OutputChannel uint8 `json:"output_channel"` // Channel generated notes are sent on.
	RhythmRoot    uint8 `json:"rhythm_root"`    // Rhythm pitch that maps to chord index 0, octave 0.
	PassThrough   bool  `json:"pass_through"`   // Keep events on unrelated channels.
}

// DefaultConfig returns chord on 1, rhythm on 16, output on 2, root C1, no pass-through.
func DefaultConfig() Config {
	return Config{
		ChordChannel:  DefaultChordChannel,
		RhythmChannel: DefaultRhythmChannel,
		OutputChannel: DefaultOutputChannel,
		RhythmRoot:    DefaultRhythmRoot,
	}
}

// Validate reports the first problem found in c.
func (c Config) Validate() error {
	for _, ch := range []struct {
		name  string
		value uint8
	}{
		{"chord", c.ChordChannel},
		{"rhythm", c.RhythmChannel},
		{"output", c.OutputChannel},
	} {
		if ch.value < 1 || ch.value > 16 {
			return fmt.Errorf("%w: %s channel %d", ErrInvalidChannel, ch.name, ch.value)
		}
	}
	if c.RhythmRoot > 127 {
		return fmt.Errorf("%w: %d", ErrInvalidRootNote, c.RhythmRoot)
	}
	if c.ChordChannel == c.RhythmChannel {
		return fmt.Errorf("%w: both are %d", ErrChannelConflict, c.ChordChannel)
	}
	return nil
}
