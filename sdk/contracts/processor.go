package contracts

// PositionInfo is what the host reports about its transport for one block.
type PositionInfo struct {
	IsPlaying bool    // IsPlaying is true while the host transport runs.
	BPM       float64 // BPM is the host tempo; zero or negative means unknown.
}

// Status is a point-in-time snapshot of a processor, safe to read from any goroutine.
type Status struct {
	ID               string  `json:"id"`
	IsPlaying        bool    `json:"is_playing"`
	BPM              float64 `json:"bpm"`
	SampleRate       float64 `json:"sample_rate"`
	Blocks           int64   `json:"blocks"`
	SamplesProcessed int64   `json:"samples_processed"`
	ActiveVoices     int     `json:"active_voices"`
	ChordSize        int     `json:"chord_size"`
	Config           Config  `json:"config"`
}

// Processor turns chord and rhythm input into output notes, one block at a time.
//
// ProcessBlock must be called from a single goroutine. Configure, Status and
// ID may be called from any goroutine.
type Processor interface {
	// Prepare sets the sample rate and reserves room for maxBlockSize events per block.
	Prepare(sampleRate float64, maxBlockSize int) error
	// ProcessBlock replaces buf's events with the block's output. Output messages
	// stay valid until the next ProcessBlock call.
	ProcessBlock(buf *MIDIBuffer, numSamples int, pos PositionInfo)
	// Configure hands a new configuration to the block path; it applies from the next block.
	Configure(cfg Config) error
	// Status returns the latest snapshot published by ProcessBlock.
	Status() Status
	// ID identifies this processor instance in logs and status.
	ID() string
	// Close flushes pending log entries and releases resources.
	Close() error
}
