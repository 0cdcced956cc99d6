//go:build !darwin
// +build !darwin

package mididarwin

import (
	"errors"

	"github.com/leandrodaf/chordpattern/sdk/contracts"
)

// ErrUnavailable is returned by every operation of the stand-in client.
var ErrUnavailable = errors.New("CoreMIDI is not available on this platform")

// DummyMIDIClient stands in for the CoreMIDI client on other systems.
type DummyMIDIClient struct {
	logger contracts.Logger
}

func NewMIDIClient(options *contracts.Options) (contracts.ClientMIDI, error) {
	options.Logger.Debug("Using dummy CoreMIDI client")
	return &DummyMIDIClient{logger: options.Logger}, nil
}

func (m *DummyMIDIClient) ListDevices() ([]contracts.DeviceInfo, error) {
	m.logger.Warn("ListDevices called on dummy MIDI client")
	return nil, ErrUnavailable
}

func (m *DummyMIDIClient) SelectDevice(deviceID int) error {
	m.logger.Warn("SelectDevice called on dummy MIDI client", m.logger.Field().Int("deviceID", deviceID))
	return ErrUnavailable
}

func (m *DummyMIDIClient) StartCapture(eventChannel chan contracts.MIDI) {
	m.logger.Warn("StartCapture called on dummy MIDI client")
}

func (m *DummyMIDIClient) Stop() error {
	return nil
}
