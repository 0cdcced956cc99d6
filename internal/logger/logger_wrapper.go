package logger

import (
	"os"
	"sync"
	"time"

	"github.com/leandrodaf/chordpattern/sdk/contracts"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger is an implementation of the Logger contract backed by Uber's zap.
type ZapLogger struct {
	mu     sync.RWMutex
	logger *zap.Logger
	level  zap.AtomicLevel
	file   *os.File // Open log file when the destination is FileLog.
}

// NewZapLogger creates a JSON logger writing to stderr at InfoLevel.
func NewZapLogger() contracts.Logger {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	return &ZapLogger{
		logger: zap.New(newCore(zapcore.Lock(os.Stderr), level), zap.AddCaller(), zap.AddCallerSkip(2)),
		level:  level,
	}
}

// FromZap wraps an existing zap logger. Its level is governed by the zap core.
func FromZap(l *zap.Logger) contracts.Logger {
	return &ZapLogger{
		logger: l,
		level:  zap.NewAtomicLevelAt(zapcore.DebugLevel),
	}
}

// NewNop returns a logger that discards everything.
func NewNop() contracts.Logger {
	return FromZap(zap.NewNop())
}

func newCore(ws zapcore.WriteSyncer, level zap.AtomicLevel) zapcore.Core {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewCore(zapcore.NewJSONEncoder(cfg), ws, level)
}

// Info logs a message at the INFO level
func (z *ZapLogger) Info(msg string, fields ...contracts.Field) {
	z.log(zapcore.InfoLevel, msg, fields...)
}

// Error logs a message at the ERROR level
func (z *ZapLogger) Error(msg string, fields ...contracts.Field) {
	z.log(zapcore.ErrorLevel, msg, fields...)
}

// Debug logs a message at the DEBUG level
func (z *ZapLogger) Debug(msg string, fields ...contracts.Field) {
	z.log(zapcore.DebugLevel, msg, fields...)
}

// Warn logs a message at the WARN level
func (z *ZapLogger) Warn(msg string, fields ...contracts.Field) {
	z.log(zapcore.WarnLevel, msg, fields...)
}

// Fatal logs a message at the FATAL level and terminates the application
func (z *ZapLogger) Fatal(msg string, fields ...contracts.Field) {
	z.log(zapcore.FatalLevel, msg, fields...)
}

// Field returns a new instance of Field
func (z *ZapLogger) Field() contracts.Field {
	return &zapField{}
}

// SetLevel sets the logging level
func (z *ZapLogger) SetLevel(level contracts.LogLevel) {
	z.level.SetLevel(toZapLevel(level))
}

// SetDestination redirects output to the console or, for FileLog, to filePath[0].
// The file is opened in append mode; on failure the logger keeps its current destination.
func (z *ZapLogger) SetDestination(dest contracts.LogDestination, filePath ...string) {
	var ws zapcore.WriteSyncer
	var file *os.File
	switch dest {
	case contracts.FileLog:
		if len(filePath) == 0 || filePath[0] == "" {
			z.Warn("file log destination requested without a path")
			return
		}
		f, err := os.OpenFile(filePath[0], os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			z.Error("could not open log file", z.Field().String("path", filePath[0]), z.Field().Error("error", err))
			return
		}
		file, ws = f, zapcore.AddSync(f)
	default:
		ws = zapcore.Lock(os.Stderr)
	}

	z.mu.Lock()
	defer z.mu.Unlock()
	_ = z.logger.Sync()
	if z.file != nil {
		z.file.Close()
	}
	z.file = file
	z.logger = zap.New(newCore(ws, z.level), zap.AddCaller(), zap.AddCallerSkip(2))
}

// Sync flushes buffered entries.
func (z *ZapLogger) Sync() error {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.logger.Sync()
}

func (z *ZapLogger) log(level zapcore.Level, msg string, fields ...contracts.Field) {
	z.mu.RLock()
	l := z.logger
	z.mu.RUnlock()

	ce := l.Check(level, msg)
	if ce == nil {
		return
	}
	ce.Write(toZapFields(fields)...)
}

func toZapLevel(level contracts.LogLevel) zapcore.Level {
	switch level {
	case contracts.DebugLevel:
		return zapcore.DebugLevel
	case contracts.WarnLevel:
		return zapcore.WarnLevel
	case contracts.ErrorLevel:
		return zapcore.ErrorLevel
	case contracts.FatalLevel:
		return zapcore.FatalLevel
	}
	return zapcore.InfoLevel
}

func toZapFields(fields []contracts.Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		if f, ok := field.(*zapField); ok && f.set {
			out = append(out, f.field)
		}
	}
	return out
}

// zapField implements contracts.Field
type zapField struct {
	field zap.Field
	set   bool
}

func wrap(f zap.Field) contracts.Field { return &zapField{field: f, set: true} }

func (f *zapField) Bool(key string, val bool) contracts.Field       { return wrap(zap.Bool(key, val)) }
func (f *zapField) Int(key string, val int) contracts.Field         { return wrap(zap.Int(key, val)) }
func (f *zapField) Float64(key string, val float64) contracts.Field { return wrap(zap.Float64(key, val)) }
func (f *zapField) String(key string, val string) contracts.Field   { return wrap(zap.String(key, val)) }
func (f *zapField) Time(key string, val time.Time) contracts.Field  { return wrap(zap.Time(key, val)) }
func (f *zapField) Int64(key string, val int64) contracts.Field     { return wrap(zap.Int64(key, val)) }
func (f *zapField) Uint64(key string, val uint64) contracts.Field   { return wrap(zap.Uint64(key, val)) }
func (f *zapField) Uint8(key string, val uint8) contracts.Field     { return wrap(zap.Uint8(key, val)) }

func (f *zapField) Error(key string, val error) contracts.Field {
	return wrap(zap.NamedError(key, val))
}
