package contracts

// HostEvent is one of PlayingChanged, TempoChanged, SampleRateChanged or
// ChordChanged. The set is closed; consumers dispatch with a type switch.
type HostEvent interface {
	hostEvent()
}

// BlockContext describes the block a host event was raised in.
type BlockContext struct {
	Epoch      int64       // Number of blocks finished before this one.
	NumSamples int         // Length of the block in samples.
	Buffer     *MIDIBuffer // The block's buffer; flush events are written here.
}

// PlayingChanged is raised when the host transport starts or stops.
type PlayingChanged struct {
	Context BlockContext
	Old     bool
	New     bool
}

// Stopped reports a play to stop transition.
func (e PlayingChanged) Stopped() bool { return e.Old && !e.New }

// Tempo groups a BPM with the timing derived from it.
type Tempo struct {
	BPM            float64
	MsecPerBeat    float64
	SamplesPerBeat float64
}

// TempoChanged is raised when the host reports a new positive BPM.
type TempoChanged struct {
	Context BlockContext
	Old     Tempo
	New     Tempo
}

// SampleRateChanged is raised when the processor is prepared with a different rate.
type SampleRateChanged struct {
	Old float64
	New float64
}

// ChordChanged is raised after a block that changed the number of held chord notes.
type ChordChanged struct {
	Epoch int64
	Old   int
	New   int
}

func (PlayingChanged) hostEvent()    {}
func (TempoChanged) hostEvent()      {}
func (SampleRateChanged) hostEvent() {}
func (ChordChanged) hostEvent()      {}
