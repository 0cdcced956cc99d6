package contracts

import (
	"fmt"
	"strings"
	"time"
)

// LogLevel represents the severity level for logging.
type LogLevel int

const (
	// DebugLevel indicates debug messages that are useful for developers to troubleshoot issues.
	DebugLevel LogLevel = iota - 1
	// InfoLevel indicates informational messages that highlight the progress of the application.
	InfoLevel
	// WarnLevel indicates potentially harmful situations that should be monitored.
	WarnLevel
	// ErrorLevel indicates error messages that represent serious issues that need attention.
	ErrorLevel
	// FatalLevel indicates very severe error events that will presumably lead the application to abort.
	FatalLevel
)

func (l LogLevel) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	case FatalLevel:
		return "fatal"
	}
	return fmt.Sprintf("LogLevel(%d)", int(l))
}

// ParseLogLevel maps a level name (as used on the command line) to a LogLevel.
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "fatal":
		return FatalLevel, nil
	}
	return InfoLevel, fmt.Errorf("%w: %q", ErrInvalidLogLevel, s)
}

// LogDestination specifies where the log messages should be directed.
type LogDestination string

const (
	// ConsoleLog directs log messages to the console output.
	ConsoleLog LogDestination = "console"
	// FileLog directs log messages to a file.
	FileLog LogDestination = "file"
)

// Field represents a structured log field. Each method returns a new Field carrying key and value.
type Field interface {
	Bool(key string, val bool) Field
	Int(key string, val int) Field
	Float64(key string, val float64) Field
	String(key string, val string) Field
	Time(key string, val time.Time) Field
	Int64(key string, val int64) Field
	Error(key string, val error) Field
	Uint64(key string, val uint64) Field
	Uint8(key string, val uint8) Field
}

// Logger provides methods to record messages at different levels.
type Logger interface {
	Info(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Debug(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	Field() Field

	SetLevel(level LogLevel)
	SetDestination(dest LogDestination, filePath ...string)
}
