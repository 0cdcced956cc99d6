//go:build !windows
// +build !windows

package midiwindows

import (
	"errors"

	"github.com/leandrodaf/chordpattern/sdk/contracts"
)

// ErrUnavailable is returned by every operation of the stand-in client.
var ErrUnavailable = errors.New("winmm is not available on this platform")

type dummyMIDIClient struct {
	logger contracts.Logger
}

// NewMIDIClient returns a client whose device operations fail with ErrUnavailable.
func NewMIDIClient(options *contracts.Options) (contracts.ClientMIDI, error) {
	options.Logger.Debug("Using dummy winmm client")
	return &dummyMIDIClient{logger: options.Logger}, nil
}

// ListDevices always fails with ErrUnavailable.
func (m *dummyMIDIClient) ListDevices() ([]contracts.DeviceInfo, error) {
	m.logger.Warn("ListDevices called on dummy MIDI client")
	return nil, ErrUnavailable
}

// SelectDevice always fails with ErrUnavailable.
func (m *dummyMIDIClient) SelectDevice(deviceID int) error {
	m.logger.Warn("SelectDevice called on dummy MIDI client", m.logger.Field().Int("deviceID", deviceID))
	return ErrUnavailable
}

// StartCapture does nothing.
func (m *dummyMIDIClient) StartCapture(eventChannel chan contracts.MIDI) {
	m.logger.Warn("StartCapture called on dummy MIDI client")
}

// Stop does nothing.
func (m *dummyMIDIClient) Stop() error {
	return nil
}
