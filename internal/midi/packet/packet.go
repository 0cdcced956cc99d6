// Package packet turns raw bytes from MIDI drivers into channel messages.
package packet

import (
	"github.com/leandrodaf/chordpattern/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
)

// dataLength returns the number of data bytes after a channel status byte.
func dataLength(status byte) int {
	switch status & 0xF0 {
	case 0xC0, 0xD0:
		return 1
	}
	return 2
}

func systemCommonLength(status byte) int {
	switch status {
	case 0xF1, 0xF3:
		return 1
	case 0xF2:
		return 2
	}
	return 0
}

// Split calls fn for every complete channel message in data. Running status is
// honoured; system exclusive, system common and real-time bytes are skipped.
// Each message passed to fn is a fresh copy. Split returns false if data ended
// in the middle of a message.
func Split(data []byte, fn func(midi.Message)) bool {
	var running byte
	for i := 0; i < len(data); {
		b := data[i]
		switch {
		case b >= 0xF8:
			i++
			continue
		case b == 0xF0:
			running = 0
			for i < len(data) && data[i] != 0xF7 {
				i++
			}
			i++
			continue
		case b > 0xF0:
			running = 0
			i += 1 + systemCommonLength(b)
			continue
		case b >= 0x80:
			running = b
			i++
		case running == 0:
			// Data byte with no status to attach to.
			i++
			continue
		}

		n := dataLength(running)
		if i+n > len(data) {
			return false
		}
		msg := make(midi.Message, 0, n+1)
		msg = append(msg, running)
		msg = append(msg, data[i:i+n]...)
		fn(msg)
		i += n
	}
	return true
}

// FromShort unpacks a winmm short message (status in the low byte). It returns
// nil for anything but a channel message.
func FromShort(p uint32) midi.Message {
	status := byte(p)
	if status < 0x80 || status >= 0xF0 {
		return nil
	}
	msg := midi.Message{status, byte(p>>8) & 0x7F}
	if dataLength(status) == 2 {
		msg = append(msg, byte(p>>16)&0x7F)
	}
	return msg
}

// Allowed reports whether msg passes filter. A nil filter allows everything.
func Allowed(filter *contracts.MIDIEventFilter, msg midi.Message) bool {
	if filter == nil {
		return true
	}
	if len(msg) == 0 {
		return false
	}
	cmd := contracts.MIDICommand(msg[0] & 0xF0)
	for _, allowed := range filter.Commands {
		if cmd == allowed {
			return true
		}
	}
	return false
}
