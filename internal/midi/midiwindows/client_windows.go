//go:build windows
// +build windows

package midiwindows

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/leandrodaf/chordpattern/internal/midi/packet"
	"github.com/leandrodaf/chordpattern/sdk/contracts"
	"golang.org/x/sys/windows"
)

// Error definitions for winmm failures.
var (
	ErrNoMIDIDevices    = errors.New("no MIDI devices found")
	ErrOpenDevice       = errors.New("failed to open MIDI device")
	ErrNoDeviceSelected = errors.New("no MIDI device selected")
	ErrInvalidHandle    = errors.New("invalid MIDI device handle")
)

// HMIDIIN is a winmm MIDI input handle.
type HMIDIIN windows.Handle

const (
	callbackFunction = 0x00030000
	midiIOStatus     = 0x00000020
)

// Input callback messages.
const (
	mimOpen      = 0x3C1
	mimClose     = 0x3C2
	mimData      = 0x3C3
	mimError     = 0x3C5
	mimLongError = 0x3C6
	mimMoreData  = 0x3CC
)

type midiInCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	dwSupport      uint32
}

// ClientMid captures MIDI through winmm.
type ClientMid struct {
	logger       contracts.Logger
	eventChannel atomic.Value // chan contracts.MIDI
	handle       HMIDIIN
	portConn     bool
	mu           sync.Mutex
	callback     uintptr
	filter       *contracts.MIDIEventFilter
}

var (
	winmm                = windows.NewLazySystemDLL("winmm.dll")
	procMidiInGetNumDevs = winmm.NewProc("midiInGetNumDevs")
	procMidiInGetDevCaps = winmm.NewProc("midiInGetDevCapsW")
	procMidiInOpen       = winmm.NewProc("midiInOpen")
	procMidiInStart      = winmm.NewProc("midiInStart")
	procMidiInStop       = winmm.NewProc("midiInStop")
	procMidiInClose      = winmm.NewProc("midiInClose")
)

// NewMIDIClient creates a winmm capture client.
func NewMIDIClient(options *contracts.Options) (contracts.ClientMIDI, error) {
	options.Logger.Info("MIDI client created for Windows")

	return &ClientMid{
		logger: options.Logger,
		filter: options.MIDIEventFilter,
	}, nil
}

// ListDevices lists the MIDI input devices in index order.
func (m *ClientMid) ListDevices() ([]contracts.DeviceInfo, error) {
	r0, _, _ := procMidiInGetNumDevs.Call()
	numDevices := uint32(r0)
	if numDevices == 0 {
		m.logger.Warn(ErrNoMIDIDevices.Error())
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, numDevices)
	for i := uint32(0); i < numDevices; i++ {
		var caps midiInCaps
		r1, _, _ := procMidiInGetDevCaps.Call(
			uintptr(i),
			uintptr(unsafe.Pointer(&caps)),
			unsafe.Sizeof(caps),
		)
		if r1 != 0 {
			m.logger.Warn("Failed to get MIDI device capabilities", m.logger.Field().Int("deviceID", int(i)))
			continue
		}
		name := windows.UTF16ToString(caps.szPname[:])
		devices[i] = contracts.DeviceInfo{
			Name:         name,
			EntityName:   name,
			Manufacturer: fmt.Sprintf("MID: %d PID: %d", caps.wMid, caps.wPid),
		}
	}
	return devices, nil
}

// SelectDevice opens the input device at deviceID, closing a previous one.
func (m *ClientMid) SelectDevice(deviceID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.portConn {
		if err := m.stopCapture(); err != nil {
			return fmt.Errorf("failed to stop previous MIDI capture: %w", err)
		}
	}

	m.callback = windows.NewCallback(midiInCallback)
	r1, _, err := procMidiInOpen.Call(
		uintptr(unsafe.Pointer(&m.handle)),
		uintptr(deviceID),
		m.callback,
		uintptr(unsafe.Pointer(m)),
		uintptr(callbackFunction|midiIOStatus),
	)
	if r1 != 0 {
		m.logger.Error(ErrOpenDevice.Error(),
			m.logger.Field().Int("deviceID", deviceID),
			m.logger.Field().Error("error", err))
		return fmt.Errorf("%w %d: %v", ErrOpenDevice, deviceID, err)
	}

	m.portConn = true
	m.logger.Info("MIDI device connected", m.logger.Field().Int("deviceID", deviceID))
	return nil
}

// StartCapture starts the device and sends captured messages to eventChannel.
func (m *ClientMid) StartCapture(eventChannel chan contracts.MIDI) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.portConn {
		m.logger.Error("Cannot start capture", m.logger.Field().Error("error", ErrNoDeviceSelected))
		return
	}
	if ch, ok := m.eventChannel.Load().(chan contracts.MIDI); ok && ch != nil {
		m.logger.Warn("Capture already started")
		return
	}
	if m.handle == 0 {
		m.logger.Error(ErrInvalidHandle.Error())
		return
	}

	m.eventChannel.Store(eventChannel)

	r1, _, err := procMidiInStart.Call(uintptr(m.handle))
	if r1 != 0 {
		m.logger.Error("Failed to start MIDI capture", m.logger.Field().Error("error", err))
		return
	}
	m.logger.Info("MIDI capture started")
}

func midiInCallback(hMidiIn uintptr, wMsg uint32, dwInstance uintptr, dwParam1 uintptr, dwParam2 uintptr) uintptr {
	m := (*ClientMid)(unsafe.Pointer(dwInstance))

	switch wMsg {
	case mimOpen:
		m.logger.Info("MIDI device opened")
	case mimClose:
		m.logger.Info("MIDI device closed")
	case mimData:
		msg := packet.FromShort(uint32(dwParam1))
		if msg == nil || !packet.Allowed(m.filter, msg) {
			return 0
		}

		ch, ok := m.eventChannel.Load().(chan contracts.MIDI)
		if !ok || ch == nil {
			return 0
		}
		select {
		case ch <- contracts.MIDI{Timestamp: uint64(time.Now().UTC().UnixNano()), Message: msg}:
		default:
			m.logger.Warn("MIDI event channel is full; event discarded")
		}
	case mimError, mimLongError:
		m.logger.Error("MIDI input error", m.logger.Field().Uint64("msg", uint64(wMsg)))
	case mimMoreData:
		m.logger.Debug("Received MIM_MOREDATA message; ignored")
	default:
		m.logger.Warn("Unknown MIDI input message", m.logger.Field().Uint64("msg", uint64(wMsg)))
	}
	return 0
}

// Stop ends capture and closes the device.
func (m *ClientMid) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.portConn {
		m.logger.Warn("No MIDI device is connected")
		return nil
	}
	if err := m.stopCapture(); err != nil {
		return fmt.Errorf("failed to stop MIDI capture: %w", err)
	}
	m.logger.Info("MIDI capture stopped and device closed")
	return nil
}

func (m *ClientMid) stopCapture() error {
	if m.handle == 0 {
		return ErrInvalidHandle
	}

	if r1, _, err := procMidiInStop.Call(uintptr(m.handle)); r1 != 0 {
		m.logger.Error("Failed to stop MIDI capture", m.logger.Field().Error("error", err))
		return err
	}
	if r1, _, err := procMidiInClose.Call(uintptr(m.handle)); r1 != 0 {
		m.logger.Error("Failed to close MIDI device", m.logger.Field().Error("error", err))
		return err
	}

	m.portConn = false
	m.handle = 0
	m.eventChannel.Store((chan contracts.MIDI)(nil))
	return nil
}
