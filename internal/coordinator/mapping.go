package coordinator

// ChordIndex maps a rhythm pitch to a chord index in [0, 11] relative to root.
// Pitches below the root wrap upwards.
func ChordIndex(pitch, root int) int {
	return ((pitch-root)%12 + 12) % 12
}

// OctaveOffset returns the semitone offset, a multiple of 12, for a rhythm pitch
// relative to root. Division floors, so pitch root-1 lands one octave down.
func OctaveOffset(pitch, root int) int {
	rel := pitch - root
	q := rel / 12
	if rel%12 != 0 && rel < 0 {
		q--
	}
	return q * 12
}
