package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/leandrodaf/chordpattern/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerWritesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core))

	log.Info("voice started",
		log.Field().Int("pitch", 60),
		log.Field().Uint8("velocity", 100),
		log.Field().Error("error", errors.New("boom")),
	)

	require.Equal(t, 1, logs.Len())
	e := logs.All()[0]
	assert.Equal(t, "voice started", e.Message)
	assert.Equal(t, zapcore.InfoLevel, e.Level)
	ctx := e.ContextMap()
	assert.EqualValues(t, 60, ctx["pitch"])
	assert.EqualValues(t, 100, ctx["velocity"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestZapLoggerIgnoresBareFieldBuilder(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core))

	log.Warn("no fields", log.Field())

	require.Equal(t, 1, logs.Len())
	assert.Empty(t, logs.All()[0].Context)
}

func TestSetLevelFiltersBelowThreshold(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.log")

	log := NewZapLogger()
	log.SetDestination(contracts.FileLog, path)
	log.SetLevel(contracts.WarnLevel)

	log.Info("hidden")
	log.Warn("shown")
	require.NoError(t, log.(*ZapLogger).Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestAsyncDeliversInOrder(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	a := NewAsync(FromZap(zap.New(core)), 8)

	a.Debug("one")
	a.Info("two")
	a.Error("three")
	require.NoError(t, a.Close())

	require.Equal(t, 3, logs.Len())
	assert.Equal(t, "one", logs.All()[0].Message)
	assert.Equal(t, zapcore.DebugLevel, logs.All()[0].Level)
	assert.Equal(t, "three", logs.All()[2].Message)
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[2].Level)
	assert.Zero(t, a.Dropped())
}

type blockingLogger struct {
	contracts.Logger
	release chan struct{}
}

func (b *blockingLogger) Info(msg string, fields ...contracts.Field) {
	<-b.release
}

func TestAsyncDropsWhenQueueIsFull(t *testing.T) {
	next := &blockingLogger{Logger: NewNop(), release: make(chan struct{})}
	a := NewAsync(next, 1)

	// The drain goroutine holds at most one entry while blocked and the queue
	// holds one more, so at least eight of ten are dropped.
	for i := 0; i < 10; i++ {
		a.Info("spam")
	}
	assert.GreaterOrEqual(t, a.Dropped(), uint64(8))

	close(next.release)
	require.NoError(t, a.Close())
}

func TestAsyncDropsAfterClose(t *testing.T) {
	a := NewAsync(NewNop(), 4)
	require.NoError(t, a.Close())
	require.NoError(t, a.Close())

	a.Info("late")
	assert.Equal(t, uint64(1), a.Dropped())
}
