package midi

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/leandrodaf/chordpattern/internal/midi/mididarwin"
	"github.com/leandrodaf/chordpattern/internal/midi/midiwindows"
	"github.com/leandrodaf/chordpattern/sdk/contracts"
)

// ErrUnsupportedOS is returned when there is no capture client for the running system.
var ErrUnsupportedOS = errors.New("unsupported operating system")

var clientInitializers = map[string]func(*contracts.Options) (contracts.ClientMIDI, error){
	"darwin":  mididarwin.NewMIDIClient,
	"windows": midiwindows.NewMIDIClient,
}

// NewClient returns the capture client for runtime.GOOS.
func NewClient(opts *contracts.Options) (contracts.ClientMIDI, error) {
	return newClientFor(runtime.GOOS, opts)
}

func newClientFor(goos string, opts *contracts.Options) (contracts.ClientMIDI, error) {
	if initializer, exists := clientInitializers[goos]; exists {
		return initializer(opts)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedOS, goos)
}
