package main

import (
	"fmt"

	"github.com/leandrodaf/chordpattern/internal/logger"
	"github.com/leandrodaf/chordpattern/sdk/contracts"
	"github.com/leandrodaf/chordpattern/sdk/processor"
	"gitlab.com/gomidi/midi/v2"
)

func main() {
	log := logger.NewZapLogger()

	proc, err := processor.NewProcessor(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.InfoLevel),
		contracts.WithChordChannel(1),
		contracts.WithRhythmChannel(10),
		contracts.WithOutputChannel(2),
	)
	if err != nil {
		log.Error("Failed to initialize processor", log.Field().Error("error", err))
		return
	}
	defer proc.Close()

	if err := proc.Prepare(48000, 512); err != nil {
		log.Error("Failed to prepare processor", log.Field().Error("error", err))
		return
	}

	// A C major triad on channel 1, then the rhythm plays the root, the third
	// and the fifth an octave up on channel 10.
	var buf contracts.MIDIBuffer
	buf.Add(midi.NoteOn(0, 60, 100), 0)
	buf.Add(midi.NoteOn(0, 64, 100), 0)
	buf.Add(midi.NoteOn(0, 67, 100), 0)
	buf.Add(midi.NoteOn(9, 24, 110), 10)
	buf.Add(midi.NoteOn(9, 37, 90), 200)
	buf.Add(midi.NoteOn(9, 38, 90), 400)

	pos := contracts.PositionInfo{IsPlaying: true, BPM: 120}
	proc.ProcessBlock(&buf, 512, pos)
	for _, ev := range buf.Events {
		fmt.Printf("%4d  %s\n", ev.SamplePosition, ev.Message)
	}

	// Stopping the transport releases whatever is still sounding.
	buf.Clear()
	pos.IsPlaying = false
	proc.ProcessBlock(&buf, 512, pos)
	for _, ev := range buf.Events {
		fmt.Printf("%4d  %s\n", ev.SamplePosition, ev.Message)
	}

	fmt.Printf("%+v\n", proc.Status())
}
