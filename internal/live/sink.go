package live

import (
	"fmt"

	"github.com/leandrodaf/chordpattern/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
)

// Sink receives processor output away from the block path. msg is owned by
// the sink. smfio.Recorder is a Sink.
type Sink interface {
	Record(sample int64, msg midi.Message)
}

// LogSink writes every output message to a logger.
type LogSink struct {
	log contracts.Logger
}

// NewLogSink returns a sink logging at INFO level.
func NewLogSink(log contracts.Logger) *LogSink {
	return &LogSink{log: log}
}

// Record logs msg with its decoded note, if any.
func (s *LogSink) Record(sample int64, msg midi.Message) {
	var ch, key, vel uint8
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		s.log.Info("Note on",
			s.log.Field().Int64("sample", sample),
			s.log.Field().Uint8("channel", ch+1),
			s.log.Field().Uint8("key", key),
			s.log.Field().Uint8("velocity", vel))
	case msg.GetNoteEnd(&ch, &key):
		s.log.Info("Note off",
			s.log.Field().Int64("sample", sample),
			s.log.Field().Uint8("channel", ch+1),
			s.log.Field().Uint8("key", key))
	default:
		s.log.Info("MIDI out",
			s.log.Field().Int64("sample", sample),
			s.log.Field().String("message", fmt.Sprintf("% X", []byte(msg))))
	}
}
