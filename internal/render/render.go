// Package render runs a processor over a whole MIDI file offline.
package render

import (
	"fmt"

	"github.com/leandrodaf/chordpattern/internal/smfio"
	"github.com/leandrodaf/chordpattern/sdk/contracts"
	"golang.org/x/exp/slices"
)

// Settings control block size and timing of a render.
type Settings struct {
	SampleRate float64
	BlockSize  int
	BPM        float64 // Tempo reported to the processor and written to the output file.
}

// DefaultSettings renders at 48 kHz in 512-sample blocks at 120 BPM.
func DefaultSettings() Settings {
	return Settings{SampleRate: 48000, BlockSize: 512, BPM: 120}
}

// Result summarizes a render.
type Result struct {
	Blocks int
	Input  int
	Output int
}

// Render feeds events to proc block by block with the transport playing, then
// runs one block with the transport stopped so held notes are released. The
// returned events are ordered by sample.
func Render(proc contracts.Processor, events []smfio.Event, s Settings) ([]smfio.Event, Result, error) {
	if err := proc.Prepare(s.SampleRate, s.BlockSize); err != nil {
		return nil, Result{}, err
	}

	var (
		out    []smfio.Event
		res    = Result{Input: len(events)}
		buf    = contracts.MIDIBuffer{Events: make([]contracts.TimedEvent, 0, s.BlockSize)}
		next   int
		start  int64
		bs     = int64(s.BlockSize)
		pos    = contracts.PositionInfo{IsPlaying: true, BPM: s.BPM}
		finish = false
	)
	for !finish {
		if next >= len(events) {
			pos.IsPlaying = false
			finish = true
		}

		buf.Clear()
		for ; next < len(events) && events[next].Sample < start+bs; next++ {
			at := events[next].Sample - start
			if at < 0 {
				at = 0
			}
			buf.Add(events[next].Message, int(at))
		}

		proc.ProcessBlock(&buf, s.BlockSize, pos)
		for _, ev := range buf.Events {
			out = append(out, smfio.Event{
				Sample:  start + int64(ev.SamplePosition),
				Message: slices.Clone(ev.Message),
			})
		}

		res.Blocks++
		start += bs
	}

	res.Output = len(out)
	return out, res, nil
}

// File renders the file at in and writes the output to out.
func File(proc contracts.Processor, in, out string, s Settings) (Result, error) {
	events, err := smfio.ReadFile(in, s.SampleRate)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", in, err)
	}
	rendered, res, err := Render(proc, events, s)
	if err != nil {
		return res, err
	}
	if err := smfio.WriteFile(out, rendered, s.SampleRate, s.BPM); err != nil {
		return res, fmt.Errorf("write %s: %w", out, err)
	}
	return res, nil
}
