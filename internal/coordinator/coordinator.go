// Package coordinator turns one block of chord and rhythm input into output notes.
package coordinator

import (
	"cmp"

	"github.com/leandrodaf/chordpattern/internal/chord"
	"github.com/leandrodaf/chordpattern/internal/voice"
	"github.com/leandrodaf/chordpattern/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
	"golang.org/x/exp/slices"
)

// phase orders events that share a sample position.
type phase uint8

const (
	phaseRhythmRelease phase = iota
	phaseChordEdit
	phaseRhythmTrigger
	phaseOther
)

// DefaultCapacity is the scratch capacity used when nothing better is known.
const DefaultCapacity = 256

type entry struct {
	ev      contracts.TimedEvent
	phase   phase
	key     uint8
	vel     uint8
	noteOn  bool
	channel uint8 // 1-based; 0 when the message carries no channel
}

// Coordinator owns the chord registry and voice tracker of one processor
// instance. It is not safe for concurrent use.
type Coordinator struct {
	cfg    contracts.Config
	chords *chord.Registry
	voices *voice.Tracker

	// Set when a routing change leaves voices that no later input can stop.
	// They are released at position 0 of the next block.
	releaseVoices bool

	work     []entry
	out      []contracts.TimedEvent
	thru     []contracts.TimedEvent
	noteOffs []contracts.Note
	arena    arena

	outOfRange int
}

// New returns a coordinator with scratch room for capacity events per block.
// cfg is assumed to be valid.
func New(cfg contracts.Config, capacity int) *Coordinator {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &Coordinator{
		cfg:    cfg,
		chords: chord.NewRegistry(16),
		voices: voice.NewTracker(128),
	}
	c.Reserve(capacity)
	return c
}

// Reserve grows the scratch buffers so blocks of up to events input events run
// without allocating.
func (c *Coordinator) Reserve(events int) {
	if cap(c.work) < events {
		c.work = make([]entry, 0, events)
		c.thru = make([]contracts.TimedEvent, 0, events)
	}
	// A trigger may release one voice and start another.
	if cap(c.out) < 2*events {
		c.out = make([]contracts.TimedEvent, 0, 2*events)
	}
	if cap(c.noteOffs) < 128 {
		c.noteOffs = make([]contracts.Note, 0, 128)
	}
	c.arena.reserve(2 * events)
}

// Config returns the configuration in use.
func (c *Coordinator) Config() contracts.Config {
	return c.cfg
}

// SetConfig replaces the configuration. When the output or rhythm channel
// changes while voices sound, they are released at position 0 of the next
// block on the channel they were started on. A chord channel change forgets
// the chord, since its notes can no longer be removed.
func (c *Coordinator) SetConfig(cfg contracts.Config) {
	if c.voices.Len() > 0 &&
		(cfg.OutputChannel != c.cfg.OutputChannel || cfg.RhythmChannel != c.cfg.RhythmChannel) {
		c.releaseVoices = true
	}
	if cfg.ChordChannel != c.cfg.ChordChannel {
		c.chords.Clear()
	}
	c.cfg = cfg
}

// Chords exposes the chord registry for inspection.
func (c *Coordinator) Chords() *chord.Registry {
	return c.chords
}

// Voices exposes the voice tracker for inspection.
func (c *Coordinator) Voices() *voice.Tracker {
	return c.voices
}

// OutOfRange returns how many input events of the last block had a sample
// position outside [0, blockLength]. They are processed where they are.
func (c *Coordinator) OutOfRange() int {
	return c.outOfRange
}

// ProcessBlock replaces buf's events with the block's output. Generated messages
// share storage owned by c and are valid until the next call.
func (c *Coordinator) ProcessBlock(buf *contracts.MIDIBuffer, blockLength int) {
	c.arena.reset()
	c.work = c.work[:0]
	c.out = c.out[:0]
	c.thru = c.thru[:0]
	c.outOfRange = 0

	for _, ev := range buf.Events {
		if ev.SamplePosition < 0 || ev.SamplePosition > blockLength {
			c.outOfRange++
		}
		c.work = append(c.work, c.classify(ev))
	}
	slices.SortStableFunc(c.work, compareEntries)

	c.releasePending()
	for i := range c.work {
		c.apply(&c.work[i])
	}

	buf.Clear()
	if !c.cfg.PassThrough {
		buf.Events = append(buf.Events, c.out...)
		return
	}

	// Both lists are in position order. Pass-through events go first on ties.
	i, j := 0, 0
	for i < len(c.thru) || j < len(c.out) {
		if j == len(c.out) || (i < len(c.thru) && c.thru[i].SamplePosition <= c.out[j].SamplePosition) {
			buf.Events = append(buf.Events, c.thru[i])
			i++
		} else {
			buf.Events = append(buf.Events, c.out[j])
			j++
		}
	}
}

// FlushOnStop replaces buf's events with a note-off at position 0 for every
// sounding voice, then forgets all voices and chord notes. It returns the number
// of note-offs written.
func (c *Coordinator) FlushOnStop(buf *contracts.MIDIBuffer) int {
	c.arena.reset()
	buf.Clear()

	c.releaseVoices = false
	c.noteOffs = c.voices.AppendNoteOffs(c.noteOffs[:0], 0)
	for _, n := range c.noteOffs {
		buf.Add(c.arena.noteOff(n.Channel, n.Pitch, n.Velocity), 0)
	}

	c.voices.StopAll()
	c.chords.Clear()
	return len(c.noteOffs)
}

func compareEntries(a, b entry) int {
	if a.ev.SamplePosition != b.ev.SamplePosition {
		return cmp.Compare(a.ev.SamplePosition, b.ev.SamplePosition)
	}
	return cmp.Compare(a.phase, b.phase)
}

func channelOf(msg midi.Message) (uint8, bool) {
	if len(msg) == 0 || msg[0] < 0x80 || msg[0] >= 0xF0 {
		return 0, false
	}
	return msg[0]&0x0F + 1, true
}

func (c *Coordinator) classify(ev contracts.TimedEvent) entry {
	e := entry{ev: ev, phase: phaseOther}
	ch, ok := channelOf(ev.Message)
	if !ok {
		return e
	}
	e.channel = ch
	if ch != c.cfg.ChordChannel && ch != c.cfg.RhythmChannel {
		return e
	}

	var mch, key, vel uint8
	switch {
	case ev.Message.GetNoteStart(&mch, &key, &vel):
		e.noteOn = true
	case ev.Message.GetNoteEnd(&mch, &key):
	default:
		return e
	}
	e.key, e.vel = key, vel

	switch {
	case ch == c.cfg.ChordChannel:
		e.phase = phaseChordEdit
	case e.noteOn:
		e.phase = phaseRhythmTrigger
	default:
		e.phase = phaseRhythmRelease
	}
	return e
}

func (c *Coordinator) apply(e *entry) {
	pos := e.ev.SamplePosition
	switch e.phase {
	case phaseRhythmRelease:
		c.release(e.key, pos)
	case phaseRhythmTrigger:
		c.release(e.key, pos)
		c.trigger(e.key, pos)
	case phaseChordEdit:
		if e.noteOn {
			c.chords.Insert(e.key, e.vel, e.channel)
		} else {
			c.chords.Remove(e.key)
		}
	default:
		if c.cfg.PassThrough && e.channel != c.cfg.ChordChannel &&
			e.channel != c.cfg.RhythmChannel && e.channel != c.cfg.OutputChannel {
			c.thru = append(c.thru, e.ev)
		}
	}
}

func (c *Coordinator) release(key uint8, pos int) {
	for _, v := range c.voices.StopAllOwnedBy(voice.OwnerKey(key)) {
		c.out = append(c.out, contracts.TimedEvent{
			Message:        c.arena.noteOff(v.Channel, v.Pitch, v.Velocity),
			SamplePosition: pos,
		})
	}
}

func (c *Coordinator) trigger(key uint8, pos int) {
	root := int(c.cfg.RhythmRoot)
	idx := ChordIndex(int(key), root)
	note, ok := c.chords.NoteAt(idx)
	if !ok {
		return
	}
	offset := OctaveOffset(int(key), root)
	pitch := int(note.Pitch) + offset
	if pitch < 0 || pitch > 127 {
		return
	}

	ch := c.cfg.OutputChannel
	c.voices.StartOwned(voice.OwnerKey(key), uint8(pitch), note.Velocity, ch, idx, offset)
	c.out = append(c.out, contracts.TimedEvent{
		Message:        c.arena.noteOn(ch, uint8(pitch), note.Velocity),
		SamplePosition: pos,
	})
}

func (c *Coordinator) releasePending() {
	if !c.releaseVoices {
		return
	}
	c.noteOffs = c.voices.AppendNoteOffs(c.noteOffs[:0], 0)
	for _, n := range c.noteOffs {
		c.out = append(c.out, contracts.TimedEvent{
			Message:        c.arena.noteOff(n.Channel, n.Pitch, n.Velocity),
			SamplePosition: 0,
		})
	}
	c.voices.StopAll()
	c.releaseVoices = false
}
