package coordinator

import "gitlab.com/gomidi/midi/v2"

const (
	statusNoteOff byte = 0x80
	statusNoteOn  byte = 0x90
)

// arena owns the bytes of generated messages for one block. Messages handed out
// stay intact until reset; growth copies into a new array and leaves earlier
// messages pointing at the old one.
type arena struct {
	buf []byte
}

func (a *arena) reserve(messages int) {
	if cap(a.buf) < messages*3 {
		a.buf = make([]byte, 0, messages*3)
	}
}

func (a *arena) reset() {
	a.buf = a.buf[:0]
}

func (a *arena) message(status, data1, data2 byte) midi.Message {
	n := len(a.buf)
	a.buf = append(a.buf, status, data1, data2)
	return midi.Message(a.buf[n : n+3 : n+3])
}

// noteOn builds a note-on for a 1-based channel.
func (a *arena) noteOn(channel, key, velocity uint8) midi.Message {
	return a.message(statusNoteOn|(channel-1)&0x0F, key&0x7F, velocity&0x7F)
}

// noteOff builds a note-off carrying a release velocity for a 1-based channel.
func (a *arena) noteOff(channel, key, velocity uint8) midi.Message {
	return a.message(statusNoteOff|(channel-1)&0x0F, key&0x7F, velocity&0x7F)
}
