package midi

import (
	"github.com/leandrodaf/chordpattern/internal/logger"
	"github.com/leandrodaf/chordpattern/sdk/contracts"
)

// DefaultClientName is the CoreMIDI client name used when none is configured.
const DefaultClientName = "Chord Pattern"

// applyDefaultOptions fills in the logger and CoreMIDI configuration.
func applyDefaultOptions(opts ...contracts.Option) (contracts.Options, error) {
	options := &contracts.Options{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.LogFilePath != "" {
		options.Logger.SetDestination(contracts.FileLog, options.LogFilePath)
	}
	if options.CoreMIDIConfig == nil || options.CoreMIDIConfig.ClientName == "" {
		options.CoreMIDIConfig = &contracts.CoreMIDIConfig{ClientName: DefaultClientName}
	}

	options.Logger.SetLevel(options.LogLevel)
	return *options, nil
}
