// Package voice tracks the output notes that are currently sounding.
package voice

import "github.com/leandrodaf/chordpattern/sdk/contracts"

// OwnerKey is the rhythm pitch that started a voice.
type OwnerKey int

// Voice is one sounding output note. Its fields never change after start.
type Voice struct {
	Pitch        uint8
	Velocity     uint8
	Channel      uint8 // 1-based output channel
	ChordIndex   int   // chord index resolved at trigger time
	OctaveOffset int   // semitone offset resolved at trigger time
	Owner        OwnerKey
}

// Tracker is an unordered set of voices. It is not safe for concurrent use.
type Tracker struct {
	voices  []Voice
	stopped []Voice
}

// NewTracker returns an empty tracker with room for capacity voices.
func NewTracker(capacity int) *Tracker {
	return &Tracker{
		voices:  make([]Voice, 0, capacity),
		stopped: make([]Voice, 0, capacity),
	}
}

// Len returns the number of active voices.
func (t *Tracker) Len() int {
	return len(t.voices)
}

// StartOwned adds a voice. It does not look for an existing voice with the same
// owner; callers stop the owner first when retriggering.
func (t *Tracker) StartOwned(owner OwnerKey, pitch, velocity, channel uint8, chordIndex, octaveOffset int) {
	t.voices = append(t.voices, Voice{
		Pitch:        pitch,
		Velocity:     velocity,
		Channel:      channel,
		ChordIndex:   chordIndex,
		OctaveOffset: octaveOffset,
		Owner:        owner,
	})
}

// StopAllOwnedBy removes every voice owned by owner and returns them in start
// order. The returned slice is reused by the next call.
func (t *Tracker) StopAllOwnedBy(owner OwnerKey) []Voice {
	t.stopped = t.stopped[:0]
	kept := t.voices[:0]
	for _, v := range t.voices {
		if v.Owner == owner {
			t.stopped = append(t.stopped, v)
		} else {
			kept = append(kept, v)
		}
	}
	t.voices = kept
	return t.stopped
}

// StopAll removes every voice and returns how many there were.
func (t *Tracker) StopAll() int {
	n := len(t.voices)
	t.voices = t.voices[:0]
	return n
}

// AppendNoteOffs appends a note-off descriptor for every active voice to dst.
// A zero channel keeps the channel each voice was started on; any other value
// overrides it. The tracker is not modified.
func (t *Tracker) AppendNoteOffs(dst []contracts.Note, channel uint8) []contracts.Note {
	for _, v := range t.voices {
		ch := v.Channel
		if channel != 0 {
			ch = channel
		}
		dst = append(dst, contracts.Note{Pitch: v.Pitch, Velocity: v.Velocity, Channel: ch})
	}
	return dst
}

// AsNoteOffs is AppendNoteOffs into a new slice.
func (t *Tracker) AsNoteOffs(channel uint8) []contracts.Note {
	return t.AppendNoteOffs(make([]contracts.Note, 0, len(t.voices)), channel)
}

// AppendVoices appends a copy of the active voices to dst.
func (t *Tracker) AppendVoices(dst []Voice) []Voice {
	return append(dst, t.voices...)
}
