package memory

import (
	"context"
	"sync"

	"github.com/aretw0/sortstep/pkg/domain"
)

// Recorder implements ports.Renderer by keeping every event in memory.
// Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []domain.StepEvent
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Render appends the event.
func (r *Recorder) Render(ctx context.Context, ev domain.StepEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []domain.StepEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.StepEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Filter returns the recorded events of the given type.
func (r *Recorder) Filter(typ domain.EventType) []domain.StepEvent {
	var out []domain.StepEvent
	for _, ev := range r.Events() {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Reset drops every recorded event.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
