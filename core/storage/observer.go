package storage

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Operation names reported to observers.
const (
	OpInitialize = "initialize"
	OpConnect    = "connect"
	OpRead       = "read"
	OpWrite      = "write"
	OpAllocate   = "allocate"
	OpCleanup    = "cleanup"
	OpDisconnect = "disconnect"
)

// Event describes one completed client operation.
type Event struct {
	Op       string
	Endpoint string
	// Bytes is the payload size for read, write and allocate.
	Bytes int
	// Attempt is the 1-based connection attempt for connect events.
	Attempt  int
	Err      error
	Duration time.Duration
}

// Observer receives client events. Observe must not block for long; it runs
// on the caller's goroutine.
type Observer interface {
	Observe(ctx context.Context, e Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, e Event)

func (f ObserverFunc) Observe(ctx context.Context, e Event) { f(ctx, e) }

// LogObserver writes every event to a zap logger.
type LogObserver struct {
	log *zap.Logger
}

// NewLogObserver returns an observer logging at debug level, or warn on failure.
func NewLogObserver(l *zap.Logger) *LogObserver {
	return &LogObserver{log: l}
}

func (o *LogObserver) Observe(_ context.Context, e Event) {
	fields := []zap.Field{
		zap.String("op", e.Op),
		zap.String("endpoint", e.Endpoint),
		zap.Duration("duration", e.Duration),
	}
	if e.Bytes > 0 {
		fields = append(fields, zap.Int("bytes", e.Bytes))
	}
	if e.Attempt > 0 {
		fields = append(fields, zap.Int("attempt", e.Attempt))
	}
	if e.Err != nil {
		o.log.Warn("Storage operation failed", append(fields, zap.Error(e.Err))...)
		return
	}
	o.log.Debug("Storage operation completed", fields...)
}
