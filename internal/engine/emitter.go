package engine

import (
	"context"
	"runtime"
	"time"

	"github.com/aretw0/sortstep/pkg/domain"
)

// Emitter is the step emitter contract every algorithm talks to.
type Emitter interface {
	// Emit delivers an event to the observers. It never waits on the delay.
	Emit(ctx context.Context, ev domain.StepEvent)

	// Suspend yields until the next scheduling opportunity, honoring the latest
	// delay. It returns domain.ErrCancelled when ctx ends first.
	Suspend(ctx context.Context) error
}

// ObserveFunc receives every event of a run, synchronously and in order.
type ObserveFunc func(ctx context.Context, ev domain.StepEvent)

// Pacer is the production Emitter: it forwards events to an observer and
// suspends on a timer driven by the session's delay and pause gate.
type Pacer struct {
	session *Session
	observe ObserveFunc
}

// NewPacer creates a pacer bound to a session.
func NewPacer(session *Session, observe ObserveFunc) *Pacer {
	return &Pacer{session: session, observe: observe}
}

// Emit forwards the event to the observer.
func (p *Pacer) Emit(ctx context.Context, ev domain.StepEvent) {
	if p.observe != nil {
		p.observe(ctx, ev)
	}
}

// Suspend waits for the pause gate, then for the current delay.
func (p *Pacer) Suspend(ctx context.Context) error {
	if err := p.session.waitResumed(ctx); err != nil {
		return err
	}

	d := p.session.Delay()
	if d <= 0 {
		runtime.Gosched()
		if ctx.Err() != nil {
			return domain.ErrCancelled
		}
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return domain.ErrCancelled
	case <-timer.C:
	}
	if ctx.Err() != nil {
		return domain.ErrCancelled
	}
	return nil
}

// Immediate is an Emitter that never waits. Useful for headless sorting and tests.
type Immediate struct {
	Observe ObserveFunc
}

// Emit forwards the event to Observe.
func (i Immediate) Emit(ctx context.Context, ev domain.StepEvent) {
	if i.Observe != nil {
		i.Observe(ctx, ev)
	}
}

// Suspend only reports cancellation.
func (i Immediate) Suspend(ctx context.Context) error {
	if ctx.Err() != nil {
		return domain.ErrCancelled
	}
	return nil
}
