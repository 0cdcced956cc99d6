package logger

import (
	"sync"
	"sync/atomic"

	"github.com/leandrodaf/chordpattern/sdk/contracts"
)

// DefaultQueueSize is the capacity used when NewAsync is given a non-positive size.
const DefaultQueueSize = 256

type entry struct {
	level  contracts.LogLevel
	msg    string
	fields []contracts.Field
}

// Async is a Logger for the block path. Entries go onto a bounded queue with a
// non-blocking send and are written to the wrapped logger by one goroutine.
// When the queue is full the entry is dropped and counted.
type Async struct {
	next    contracts.Logger
	queue   chan entry
	done    chan struct{}
	dropped atomic.Uint64
	closed  atomic.Bool
	once    sync.Once
}

// NewAsync starts the drain goroutine for next.
func NewAsync(next contracts.Logger, size int) *Async {
	if size <= 0 {
		size = DefaultQueueSize
	}
	a := &Async{
		next:  next,
		queue: make(chan entry, size),
		done:  make(chan struct{}),
	}
	go a.drain()
	return a
}

func (a *Async) drain() {
	defer close(a.done)
	for e := range a.queue {
		switch e.level {
		case contracts.DebugLevel:
			a.next.Debug(e.msg, e.fields...)
		case contracts.WarnLevel:
			a.next.Warn(e.msg, e.fields...)
		case contracts.ErrorLevel:
			a.next.Error(e.msg, e.fields...)
		case contracts.FatalLevel:
			a.next.Fatal(e.msg, e.fields...)
		default:
			a.next.Info(e.msg, e.fields...)
		}
	}
}

func (a *Async) enqueue(level contracts.LogLevel, msg string, fields []contracts.Field) {
	if a.closed.Load() {
		a.dropped.Add(1)
		return
	}
	select {
	case a.queue <- entry{level: level, msg: msg, fields: fields}:
	default:
		a.dropped.Add(1)
	}
}

// Info queues a message at the INFO level
func (a *Async) Info(msg string, fields ...contracts.Field) {
	a.enqueue(contracts.InfoLevel, msg, fields)
}

// Error queues a message at the ERROR level
func (a *Async) Error(msg string, fields ...contracts.Field) {
	a.enqueue(contracts.ErrorLevel, msg, fields)
}

// Debug queues a message at the DEBUG level
func (a *Async) Debug(msg string, fields ...contracts.Field) {
	a.enqueue(contracts.DebugLevel, msg, fields)
}

// Warn queues a message at the WARN level
func (a *Async) Warn(msg string, fields ...contracts.Field) {
	a.enqueue(contracts.WarnLevel, msg, fields)
}

// Fatal queues a message at the FATAL level. The wrapped logger decides whether to exit.
func (a *Async) Fatal(msg string, fields ...contracts.Field) {
	a.enqueue(contracts.FatalLevel, msg, fields)
}

// Field returns the wrapped logger's field builder.
func (a *Async) Field() contracts.Field {
	return a.next.Field()
}

// SetLevel sets the wrapped logger's level.
func (a *Async) SetLevel(level contracts.LogLevel) {
	a.next.SetLevel(level)
}

// SetDestination sets the wrapped logger's destination.
func (a *Async) SetDestination(dest contracts.LogDestination, filePath ...string) {
	a.next.SetDestination(dest, filePath...)
}

// Dropped returns how many entries were discarded because the queue was full.
func (a *Async) Dropped() uint64 {
	return a.dropped.Load()
}

// Close stops accepting entries, writes everything already queued and waits for the drain.
// It must not race with the producer; call it after the last ProcessBlock.
func (a *Async) Close() error {
	a.once.Do(func() {
		a.closed.Store(true)
		close(a.queue)
	})
	<-a.done
	return nil
}
