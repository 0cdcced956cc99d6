// Package smfio converts between Standard MIDI Files and sample-positioned events.
package smfio

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
	"golang.org/x/exp/slices"
)

// Resolution is the tick resolution of written files.
const Resolution = smf.MetricTicks(960)

// Error definitions for file conversion.
var (
	ErrParse      = errors.New("error parsing MIDI file")
	ErrInvalidBPM = errors.New("tempo must be positive")
)

// Event is a channel message at an absolute sample.
type Event struct {
	Sample  int64
	Message midi.Message
}

// ReadFile reads the channel messages of every track in path.
func ReadFile(path string, sampleRate float64) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f, sampleRate)
}

// Read reads the channel messages of every track from r, placed at absolute
// samples using the file's tempo map. Meta and system messages are skipped.
// Events are ordered by sample; file order is kept for equal samples.
func Read(r io.Reader, sampleRate float64) (events []Event, err error) {
	// The smf reader panics on some malformed input.
	defer func() {
		if rec := recover(); rec != nil {
			events, err = nil, fmt.Errorf("%w: %v", ErrParse, rec)
		}
	}()

	s, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	for _, track := range s.Tracks {
		var absTicks int64
		for _, ev := range track {
			absTicks += int64(ev.Delta)
			msg := midi.Message(ev.Message)
			if !isChannelMessage(msg) {
				continue
			}
			micros := s.TimeAt(absTicks)
			events = append(events, Event{
				Sample:  int64(math.Round(float64(micros) * sampleRate / 1e6)),
				Message: slices.Clone(msg),
			})
		}
	}

	slices.SortStableFunc(events, func(a, b Event) int {
		return cmp.Compare(a.Sample, b.Sample)
	})
	return events, nil
}

// WriteFile writes events to path as a single-track file at a constant bpm.
func WriteFile(path string, events []Event, sampleRate, bpm float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, events, sampleRate, bpm); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write encodes events, which must be ordered by sample, as a single-track
// file at a constant bpm.
func Write(w io.Writer, events []Event, sampleRate, bpm float64) error {
	if bpm <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidBPM, bpm)
	}

	var track smf.Track
	track.Add(0, smf.MetaTempo(bpm))

	var last uint32
	for _, ev := range events {
		d := time.Duration(float64(ev.Sample) / sampleRate * float64(time.Second))
		ticks := Resolution.Ticks(bpm, d)
		if ticks < last {
			ticks = last
		}
		track.Add(ticks-last, ev.Message)
		last = ticks
	}
	track.Close(0)

	s := smf.New()
	s.TimeFormat = Resolution
	if err := s.Add(track); err != nil {
		return err
	}
	_, err := s.WriteTo(w)
	return err
}

func isChannelMessage(msg midi.Message) bool {
	return len(msg) >= 2 && msg[0] >= 0x80 && msg[0] < 0xF0
}
