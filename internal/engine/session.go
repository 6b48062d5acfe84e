package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/sortstep/pkg/domain"
)

// Session holds the state shared between an in-flight run and the outside world:
// the cancellation signal, the delay and the pause gate. All three are read
// fresh at every suspension point.
type Session struct {
	ID        string
	Algorithm domain.Algorithm

	ctx    context.Context
	cancel context.CancelFunc
	delay  atomic.Int64

	mu     sync.Mutex
	resume chan struct{} // non-nil while paused, closed on Resume
}

// NewSession creates a session whose cancellation derives from parent.
func NewSession(parent context.Context, id string, alg domain.Algorithm, delay time.Duration) *Session {
	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		ID:        id,
		Algorithm: alg,
		ctx:       ctx,
		cancel:    cancel,
	}
	s.SetDelay(delay)
	return s
}

// Context returns the session's cancellation context.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Cancel signals the run to stop. Idempotent.
func (s *Session) Cancel() {
	s.cancel()
}

// Cancelled reports whether cancellation has been requested.
func (s *Session) Cancelled() bool {
	return s.ctx.Err() != nil
}

// Delay returns the current inter-step delay.
func (s *Session) Delay() time.Duration {
	return time.Duration(s.delay.Load())
}

// SetDelay updates the inter-step delay. Negative values clamp to zero.
func (s *Session) SetDelay(d time.Duration) {
	if d < 0 {
		d = 0
	}
	s.delay.Store(int64(d))
}

// Pause blocks the run at its next suspension point until Resume or Cancel.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resume == nil {
		s.resume = make(chan struct{})
	}
}

// Resume releases a paused run.
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resume != nil {
		close(s.resume)
		s.resume = nil
	}
}

// Paused reports whether the pause gate is closed.
func (s *Session) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resume != nil
}

// waitResumed blocks while the session is paused.
func (s *Session) waitResumed(ctx context.Context) error {
	s.mu.Lock()
	gate := s.resume
	s.mu.Unlock()

	if gate == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return domain.ErrCancelled
	case <-gate:
		return nil
	}
}
