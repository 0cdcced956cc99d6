package contracts

import "gitlab.com/gomidi/midi/v2"

// MIDI represents a captured MIDI channel message with the time it arrived.
type MIDI struct {
	Timestamp uint64       // Timestamp is the arrival time in nanoseconds (Unix, UTC).
	Message   midi.Message // Message holds the complete channel message, status byte included.
}

// Command returns the message's command nibble (e.g. NoteOn), or 0 for an empty message.
func (m MIDI) Command() MIDICommand {
	if len(m.Message) == 0 {
		return 0
	}
	return MIDICommand(m.Message[0] & 0xF0)
}

// DeviceInfo contains information about a MIDI device.
type DeviceInfo struct {
	Name         string // Device name.
	Manufacturer string // Device manufacturer.
	EntityName   string // Name of the entity to which the device belongs.
}

// ClientMIDI defines an interface for live MIDI capture.
type ClientMIDI interface {
	Stop() error                         // Stops the MIDI client and releases resources.
	ListDevices() ([]DeviceInfo, error)  // Lists all available MIDI devices.
	SelectDevice(deviceID int) error     // Selects a MIDI device by its ID for communication.
	StartCapture(eventChannel chan MIDI) // Starts capturing MIDI events and sends them to the specified channel.
}
