package http

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aretw0/sortstep/pkg/domain"
)

// streamBuffer is the number of events queued per SSE client before drops.
const streamBuffer = 64

// StreamManager fans step events out to SSE connections.
// It implements ports.Renderer so the controller can feed it directly.
type StreamManager struct {
	logger *slog.Logger

	mu          sync.RWMutex
	subscribers map[chan domain.StepEvent]struct{}
}

// NewStreamManager creates an empty manager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		logger:      logger,
		subscribers: make(map[chan domain.StepEvent]struct{}),
	}
}

// Subscribe registers a client. The returned func unregisters it and closes the channel.
func (sm *StreamManager) Subscribe() (<-chan domain.StepEvent, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan domain.StepEvent, streamBuffer)
	sm.subscribers[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			delete(sm.subscribers, ch)
			close(ch)
		})
	}
}

// Len returns the number of connected clients.
func (sm *StreamManager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

// Broadcast queues ev for every client. Slow clients lose the event rather
// than stall the run.
func (sm *StreamManager) Broadcast(ev domain.StepEvent) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- ev:
		default:
			sm.logger.Warn("SSE: Client buffer full, dropping event", "run_id", ev.RunID, "seq", ev.Seq)
		}
	}
}

// Render implements ports.Renderer.
func (sm *StreamManager) Render(ctx context.Context, ev domain.StepEvent) error {
	sm.Broadcast(ev)
	return nil
}
