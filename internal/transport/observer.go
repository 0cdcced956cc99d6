// Package transport follows the host's play state, tempo and sample rate for one
// processor instance and reports changes as host events.
package transport

import "github.com/leandrodaf/chordpattern/sdk/contracts"

// UnknownSampleRate is the sample rate before the first UpdateSampleRate.
const UnknownSampleRate = -1

// Observer holds the transport state of one processor instance. It is created
// with the instance, updated once per block and discarded with it. It is not
// safe for concurrent use.
type Observer struct {
	runs    int64
	samples int64

	sampleRate     float64
	samplesPerMsec float64

	playing bool
	tempo   contracts.Tempo

	events []contracts.HostEvent
}

// NewObserver returns an observer with an unknown sample rate, stopped, with no tempo.
func NewObserver() *Observer {
	return &Observer{
		sampleRate:     UnknownSampleRate,
		samplesPerMsec: UnknownSampleRate,
		events:         make([]contracts.HostEvent, 0, 2),
	}
}

// Runs returns the number of finished blocks.
func (o *Observer) Runs() int64 { return o.runs }

// Samples returns the number of samples in all finished blocks.
func (o *Observer) Samples() int64 { return o.samples }

// SampleRate returns the current sample rate, or UnknownSampleRate.
func (o *Observer) SampleRate() float64 { return o.sampleRate }

// SamplesPerMsec returns sample rate / 1000, or UnknownSampleRate.
func (o *Observer) SamplesPerMsec() float64 { return o.samplesPerMsec }

// Playing reports the play state seen in the last Update.
func (o *Observer) Playing() bool { return o.playing }

// Tempo returns the last known tempo. BPM is zero until the host reports one.
func (o *Observer) Tempo() contracts.Tempo { return o.tempo }

// UpdateSampleRate stores rate and reports whether it changed. Non-positive
// rates are ignored.
func (o *Observer) UpdateSampleRate(rate float64) (contracts.SampleRateChanged, bool) {
	if rate <= 0 || rate == o.sampleRate {
		return contracts.SampleRateChanged{}, false
	}
	ev := contracts.SampleRateChanged{Old: o.sampleRate, New: rate}
	o.sampleRate = rate
	o.samplesPerMsec = rate / 1000
	if o.tempo.BPM > 0 {
		o.tempo = o.tempoFor(o.tempo.BPM)
	}
	return ev, true
}

// Update compares pos with the stored state and returns what changed, tempo
// first. The returned slice is reused by the next call.
func (o *Observer) Update(buf *contracts.MIDIBuffer, numSamples int, pos contracts.PositionInfo) []contracts.HostEvent {
	o.events = o.events[:0]
	ctx := contracts.BlockContext{Epoch: o.runs, NumSamples: numSamples, Buffer: buf}

	if pos.BPM > 0 && pos.BPM != o.tempo.BPM {
		next := o.tempoFor(pos.BPM)
		o.events = append(o.events, contracts.TempoChanged{Context: ctx, Old: o.tempo, New: next})
		o.tempo = next
	}
	if pos.IsPlaying != o.playing {
		o.events = append(o.events, contracts.PlayingChanged{Context: ctx, Old: o.playing, New: pos.IsPlaying})
		o.playing = pos.IsPlaying
	}
	return o.events
}

// FinishRun records a completed block.
func (o *Observer) FinishRun(numSamples int) {
	o.runs++
	o.samples += int64(numSamples)
}

func (o *Observer) tempoFor(bpm float64) contracts.Tempo {
	t := contracts.Tempo{BPM: bpm, MsecPerBeat: 60000 / bpm}
	if o.samplesPerMsec > 0 {
		t.SamplesPerBeat = t.MsecPerBeat * o.samplesPerMsec
	}
	return t
}
