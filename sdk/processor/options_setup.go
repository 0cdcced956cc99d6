package processor

import (
	"github.com/leandrodaf/chordpattern/internal/logger"
	"github.com/leandrodaf/chordpattern/sdk/contracts"
)

// applyDefaultOptions fills in the logger, log level, routing configuration and
// log queue size, then validates the configuration.
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
	if options.Config == nil {
		cfg := contracts.DefaultConfig()
		options.Config = &cfg
	}
	if options.LogQueueSize <= 0 {
		options.LogQueueSize = logger.DefaultQueueSize
	}

	if err := options.Config.Validate(); err != nil {
		return contracts.Options{}, err
	}

	options.Logger.SetLevel(options.LogLevel)
	return *options, nil
}
