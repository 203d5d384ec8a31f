// Package log provides level-gated logging for the butterfly core, in the
// style of syzkaller's pkg/log: a single Logf(level, format, args...) entry
// point gated by a configurable verbosity, backed here by zap instead of
// the stdlib logger.
package log

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	verbosity int32

	mu     sync.Mutex
	logger *zap.SugaredLogger
)

func init() {
	l, err := zap.NewProduction()
	if err != nil {
		l = zap.NewNop()
	}
	logger = l.Sugar()
}

// SetVerbosity sets the highest level at which Logf emits a message.
func SetVerbosity(v int) {
	atomic.StoreInt32(&verbosity, int32(v))
}

// SetLogger swaps the underlying zap logger, e.g. to a development logger
// in tests or a file-backed logger in production.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l.Sugar()
}

// Logf logs a message at the given verbosity level. Level 0 is always
// printed; higher levels require a matching -v.
func Logf(level int, format string, args ...any) {
	if int32(level) > atomic.LoadInt32(&verbosity) {
		return
	}
	mu.Lock()
	l := logger
	mu.Unlock()
	l.Infof(format, args...)
}

// Errorf always logs regardless of verbosity; used for conditions the
// operator should see unconditionally.
func Errorf(format string, args ...any) {
	mu.Lock()
	l := logger
	mu.Unlock()
	l.Errorf(format, args...)
}

// Fatalf logs and terminates the process. Reserved for startup
// misconfiguration, never for mid-fuzz conditions.
func Fatalf(format string, args ...any) {
	mu.Lock()
	l := logger
	mu.Unlock()
	l.Fatalf(format, args...)
}
