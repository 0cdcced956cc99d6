package contracts

// MIDICommand represents the types of MIDI commands for event filtering.
type MIDICommand byte

const (
	// NoteOn is the MIDI command for a Note On event (0x90).
	NoteOn MIDICommand = 0x90
	// NoteOff is the MIDI command for a Note Off event (0x80).
	NoteOff MIDICommand = 0x80
	// ControlChange is the MIDI command for a Control Change event (0xB0).
	ControlChange MIDICommand = 0xB0
)

// MIDIEventFilter allows users to specify which MIDI commands to capture.
type MIDIEventFilter struct {
	Commands []MIDICommand // List of MIDI commands to filter.
}

// CoreMIDIConfig holds configuration for CoreMIDI.
type CoreMIDIConfig struct {
	ClientName string // Name of the MIDI client.
}

// Options defines the configuration shared by the MIDI client and the processor.
type Options struct {
	Logger          Logger           // Logger for logging events and errors.
	LogLevel        LogLevel         // Level of logging to use.
	LogFilePath     string           // File path for logging if file logging is enabled.
	MIDIEventFilter *MIDIEventFilter // Optional filter for MIDI events to capture.
	CoreMIDIConfig  *CoreMIDIConfig  // Configuration specific to CoreMIDI.
	Config          *Config          // Processor channel routing; nil means DefaultConfig.
	EventSink       chan<- HostEvent // Optional receiver of host events; sends never block.
	LogQueueSize    int              // Capacity of the processor's asynchronous log queue.
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(opts *Options) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level.
func WithLogLevel(level LogLevel) Option {
	return func(opts *Options) {
		opts.LogLevel = level
	}
}

// WithLogFile sends log output to the given file instead of the console.
func WithLogFile(path string) Option {
	return func(opts *Options) {
		opts.LogFilePath = path
	}
}

// WithMIDIEventFilter sets the MIDI event filter for the MIDI client.
func WithMIDIEventFilter(filter MIDIEventFilter) Option {
	return func(opts *Options) {
		opts.MIDIEventFilter = &filter
	}
}

// WithCoreMIDIConfig sets the CoreMIDI configuration for the MIDI client.
func WithCoreMIDIConfig(config CoreMIDIConfig) Option {
	return func(opts *Options) {
		opts.CoreMIDIConfig = &config
	}
}

// WithConfig replaces the whole processor configuration.
func WithConfig(cfg Config) Option {
	return func(opts *Options) {
		opts.Config = &cfg
	}
}

// WithChordChannel sets the chord input channel (1-16).
func WithChordChannel(ch uint8) Option {
	return func(opts *Options) {
		opts.config().ChordChannel = ch
	}
}

// WithRhythmChannel sets the rhythm input channel (1-16).
func WithRhythmChannel(ch uint8) Option {
	return func(opts *Options) {
		opts.config().RhythmChannel = ch
	}
}

// WithOutputChannel sets the channel generated notes are sent on (1-16).
func WithOutputChannel(ch uint8) Option {
	return func(opts *Options) {
		opts.config().OutputChannel = ch
	}
}

// WithRhythmRoot sets the rhythm pitch that maps to the lowest chord note.
func WithRhythmRoot(note uint8) Option {
	return func(opts *Options) {
		opts.config().RhythmRoot = note
	}
}

// WithPassThrough keeps events on channels the processor does not use.
func WithPassThrough(enabled bool) Option {
	return func(opts *Options) {
		opts.config().PassThrough = enabled
	}
}

// WithEventSink forwards host events to ch. Events are dropped when ch is full.
func WithEventSink(ch chan<- HostEvent) Option {
	return func(opts *Options) {
		opts.EventSink = ch
	}
}

// WithLogQueueSize sets the capacity of the processor's asynchronous log queue.
func WithLogQueueSize(n int) Option {
	return func(opts *Options) {
		opts.LogQueueSize = n
	}
}

func (o *Options) config() *Config {
	if o.Config == nil {
		cfg := DefaultConfig()
		o.Config = &cfg
	}
	return o.Config
}
