package runner

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SignalManager cancels a context when SIGINT or SIGTERM arrives while a run
// is on screen.
type SignalManager struct {
	ctx    context.Context
	cancel context.CancelFunc
	sigs   []os.Signal
}

// NewSignalManager starts listening for sigs, or SIGINT and SIGTERM when
// none are given.
func NewSignalManager(sigs ...os.Signal) *SignalManager {
	if len(sigs) == 0 {
		sigs = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}
	sm := &SignalManager{sigs: sigs}
	sm.Reset()
	return sm
}

// Context is cancelled by the next signal.
func (sm *SignalManager) Context() context.Context {
	return sm.ctx
}

// Reset drops the current context and listens again, so one manager can
// guard several consecutive runs.
func (sm *SignalManager) Reset() {
	sm.Stop()
	sm.ctx, sm.cancel = signal.NotifyContext(context.Background(), sm.sigs...)
}

// Stop releases the signal handler.
func (sm *SignalManager) Stop() {
	if sm.cancel != nil {
		sm.cancel()
	}
}
