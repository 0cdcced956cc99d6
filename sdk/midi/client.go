package midi

import (
	"github.com/leandrodaf/chordpattern/sdk/contracts"
)

// NewMIDIClient creates a live capture client for the current operating system.
// Processor routing options are accepted and ignored.
func NewMIDIClient(opts ...contracts.Option) (contracts.ClientMIDI, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}

	return NewClient(&options)
}
