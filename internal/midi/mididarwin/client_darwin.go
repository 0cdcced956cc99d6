//go:build darwin
// +build darwin

package mididarwin

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/leandrodaf/chordpattern/internal/midi/packet"
	"github.com/leandrodaf/chordpattern/sdk/contracts"
	"github.com/youpy/go-coremidi"
	"gitlab.com/gomidi/midi/v2"
)

// Error definitions for MIDI connection and handling issues.
var (
	ErrNoMIDIDevices        = errors.New("no MIDI devices found")
	ErrInvalidMIDIDevice    = errors.New("invalid MIDI device")
	ErrMIDIConnectionError  = errors.New("error connecting to MIDI device")
	ErrCreateInputPort      = errors.New("error creating input port")
	ErrIncompleteMIDIPacket = errors.New("incomplete MIDI packet")
)

type portConnection interface {
	Disconnect()
}

// ClientMid captures MIDI from a CoreMIDI source. Every channel message in an
// incoming packet is forwarded on its own.
type ClientMid struct {
	logger       contracts.Logger
	eventChannel atomic.Value // chan contracts.MIDI
	client       coremidi.Client
	inputPort    coremidi.InputPort
	portConn     portConnection
	filter       *contracts.MIDIEventFilter
	mu           sync.Mutex
	capturing    bool
	wg           sync.WaitGroup
	stopOnce     sync.Once
}

// NewMIDIClient creates a CoreMIDI client named after options.CoreMIDIConfig.
func NewMIDIClient(options *contracts.Options) (contracts.ClientMIDI, error) {
	client, err := coremidi.NewClient(options.CoreMIDIConfig.ClientName)
	if err != nil {
		return nil, err
	}
	options.Logger.Info("MIDI client successfully created",
		options.Logger.Field().String("name", options.CoreMIDIConfig.ClientName))

	return &ClientMid{
		logger: options.Logger,
		client: client,
		filter: options.MIDIEventFilter,
	}, nil
}

// ListDevices returns the CoreMIDI sources in index order.
func (m *ClientMid) ListDevices() ([]contracts.DeviceInfo, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI sources: %w", err)
	}
	if len(sources) == 0 {
		m.logger.Warn(ErrNoMIDIDevices.Error())
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, len(sources))
	for i, source := range sources {
		entity := source.Entity()
		devices[i] = contracts.DeviceInfo{
			Name:         source.Name(),
			EntityName:   entity.Name(),
			Manufacturer: entity.Manufacturer(),
		}
	}
	return devices, nil
}

// SelectDevice connects to the source at deviceID, replacing any previous connection.
func (m *ClientMid) SelectDevice(deviceID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sources, err := coremidi.AllSources()
	if err != nil {
		return fmt.Errorf("error retrieving MIDI sources: %w", err)
	}
	if deviceID < 0 || deviceID >= len(sources) {
		m.logger.Error(ErrInvalidMIDIDevice.Error(), m.logger.Field().Int("deviceID", deviceID))
		return fmt.Errorf("%w: %d", ErrInvalidMIDIDevice, deviceID)
	}

	if m.portConn != nil {
		m.portConn.Disconnect()
		m.portConn = nil
	}

	source := sources[deviceID]
	m.logger.Info("MIDI device selected",
		m.logger.Field().Int("deviceID", deviceID),
		m.logger.Field().String("deviceName", source.Name()))

	m.inputPort, err = coremidi.NewInputPort(m.client, "Input Port", m.handlePacket)
	if err != nil {
		m.logger.Error(ErrCreateInputPort.Error(), m.logger.Field().Error("error", err))
		return fmt.Errorf("%w: %v", ErrCreateInputPort, err)
	}

	m.portConn, err = m.inputPort.Connect(source)
	if err != nil {
		m.logger.Error(ErrMIDIConnectionError.Error(), m.logger.Field().Error("error", err))
		return fmt.Errorf("%w: %v", ErrMIDIConnectionError, err)
	}

	m.logger.Info("MIDI device successfully connected")
	return nil
}

func (m *ClientMid) handlePacket(source coremidi.Source, p coremidi.Packet) {
	m.wg.Add(1)
	defer m.wg.Done()

	eventChannel, _ := m.eventChannel.Load().(chan contracts.MIDI)
	if eventChannel == nil {
		return
	}

	ts := uint64(time.Now().UTC().UnixNano())
	complete := packet.Split(p.Data, func(msg midi.Message) {
		if !packet.Allowed(m.filter, msg) {
			return
		}
		select {
		case eventChannel <- contracts.MIDI{Timestamp: ts, Message: msg}:
		default:
			m.logger.Warn("Event buffer full; dropping MIDI event")
		}
	})
	if !complete {
		m.logger.Warn(ErrIncompleteMIDIPacket.Error(), m.logger.Field().Int("bytes", len(p.Data)))
	}
}

// StartCapture starts sending captured messages to eventChannel. A capture in
// progress switches to the new channel.
func (m *ClientMid) StartCapture(eventChannel chan contracts.MIDI) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if eventChannel == nil {
		m.logger.Error("StartCapture called with nil eventChannel")
		return
	}

	if m.capturing {
		m.logger.Warn("Capture already started; replacing event channel")
	}

	m.logger.Info("Starting MIDI event capture")
	m.eventChannel.Store(eventChannel)
	m.capturing = true
}

// Stop disconnects the source and waits for in-flight packets. Only the first
// call has an effect.
func (m *ClientMid) Stop() error {
	m.stopOnce.Do(func() {
		m.logger.Info("Stopping MIDI capture")
		m.mu.Lock()
		defer m.mu.Unlock()

		if !m.capturing {
			return
		}
		m.capturing = false

		if m.portConn != nil {
			m.portConn.Disconnect()
			m.portConn = nil
		}

		// Nobody reads this channel, so late packets are dropped.
		m.eventChannel.Store(make(chan contracts.MIDI))

		m.wg.Wait()
		m.logger.Info("MIDI capture stopped")
	})
	return nil
}
