// Package cmd is the command line front end.
package cmd

import (
	"github.com/leandrodaf/chordpattern/internal/logger"
	"github.com/leandrodaf/chordpattern/sdk/contracts"
	"github.com/spf13/cobra"
)

var (
	logLevel string
	logFile  string
	routing  = contracts.DefaultConfig()
)

var rootCmd = &cobra.Command{
	Use:   "chordpattern",
	Short: "Plays held chords with a rhythm channel",
	Long: `chordpattern turns MIDI into MIDI. Notes held on the chord channel define a
chord; notes on the rhythm channel pick a chord note by their distance from the
root note and play it on the output channel, shifted by whole octaves.`,
	SilenceUsage: true,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	f.StringVar(&logFile, "log-file", "", "append logs to this file instead of stderr")
	f.Uint8Var(&routing.ChordChannel, "chord-channel", contracts.DefaultChordChannel, "chord input channel (1-16)")
	f.Uint8Var(&routing.RhythmChannel, "rhythm-channel", contracts.DefaultRhythmChannel, "rhythm input channel (1-16)")
	f.Uint8Var(&routing.OutputChannel, "output-channel", contracts.DefaultOutputChannel, "output channel (1-16)")
	f.Uint8Var(&routing.RhythmRoot, "root", contracts.DefaultRhythmRoot, "rhythm note that plays the lowest chord note")
	f.BoolVar(&routing.PassThrough, "pass-through", false, "keep events on other channels")
}

// Execute runs the root command.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

// commonOptions builds the logger and the options shared by every command.
func commonOptions() (contracts.Logger, []contracts.Option, error) {
	level, err := contracts.ParseLogLevel(logLevel)
	if err != nil {
		return nil, nil, err
	}
	log := logger.NewZapLogger()
	opts := []contracts.Option{
		contracts.WithLogger(log),
		contracts.WithLogLevel(level),
		contracts.WithConfig(routing),
	}
	if logFile != "" {
		opts = append(opts, contracts.WithLogFile(logFile))
	}
	return log, opts, nil
}
