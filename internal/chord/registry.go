// Package chord holds the notes that currently define the chord.
package chord

import "github.com/leandrodaf/chordpattern/sdk/contracts"

// Registry keeps chord notes sorted by ascending pitch so index 0 is always the
// lowest note. Duplicate pitches are kept; there is no reference counting.
type Registry struct {
	notes []contracts.Note
}

// NewRegistry returns an empty registry with room for capacity notes.
func NewRegistry(capacity int) *Registry {
	return &Registry{notes: make([]contracts.Note, 0, capacity)}
}

// Size returns the number of stored notes.
func (r *Registry) Size() int {
	return len(r.notes)
}

// IsEmpty reports whether no notes are stored.
func (r *Registry) IsEmpty() bool {
	return len(r.notes) == 0
}

// NoteAt returns the index-th lowest note. ok is false when index is outside [0, Size).
func (r *Registry) NoteAt(index int) (note contracts.Note, ok bool) {
	if index < 0 || index >= len(r.notes) {
		return contracts.Note{}, false
	}
	return r.notes[index], true
}

// Insert appends a note and restores pitch order.
func (r *Registry) Insert(pitch, velocity, channel uint8) {
	r.notes = append(r.notes, contracts.Note{Pitch: pitch, Velocity: velocity, Channel: channel})

	// Only the new tail is out of place.
	for i := len(r.notes) - 1; i > 0 && r.notes[i-1].Pitch > r.notes[i].Pitch; i-- {
		r.notes[i-1], r.notes[i] = r.notes[i], r.notes[i-1]
	}
}

// Remove deletes the first stored note with the given pitch and reports whether one was found.
// With duplicates, one call removes one instance.
func (r *Registry) Remove(pitch uint8) bool {
	for i, n := range r.notes {
		if n.Pitch == pitch {
			r.notes = append(r.notes[:i], r.notes[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the registry.
func (r *Registry) Clear() {
	r.notes = r.notes[:0]
}

// AppendNotes appends the stored notes, lowest first, to dst.
func (r *Registry) AppendNotes(dst []contracts.Note) []contracts.Note {
	return append(dst, r.notes...)
}
