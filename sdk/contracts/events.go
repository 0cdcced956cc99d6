package contracts

import "gitlab.com/gomidi/midi/v2"

// Note is an immutable chord note value.
type Note struct {
	Pitch    uint8 // MIDI note number (0-127).
	Velocity uint8 // MIDI velocity (0-127).
	Channel  uint8 // MIDI channel (1-16) the note arrived on.
}

// TimedEvent is a MIDI message placed at a sample offset inside one block.
type TimedEvent struct {
	Message        midi.Message
	SamplePosition int
}

// MIDIBuffer holds one block's worth of timed events. The processor reads the
// input events from it and replaces them with its output.
type MIDIBuffer struct {
	Events []TimedEvent
}

// Clear empties the buffer and keeps its storage.
func (b *MIDIBuffer) Clear() {
	b.Events = b.Events[:0]
}

// Add appends msg at the given sample position.
func (b *MIDIBuffer) Add(msg midi.Message, samplePosition int) {
	b.Events = append(b.Events, TimedEvent{Message: msg, SamplePosition: samplePosition})
}

// Len returns the number of events in the buffer.
func (b *MIDIBuffer) Len() int {
	return len(b.Events)
}
