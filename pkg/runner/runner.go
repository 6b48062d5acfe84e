package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/sortstep"
	"github.com/aretw0/sortstep/internal/logging"
	"github.com/aretw0/sortstep/pkg/domain"
	"github.com/aretw0/sortstep/pkg/ports"
)

// ErrInterrupted is returned when a signal or the interrupt source stopped the run.
var ErrInterrupted = errors.New("run interrupted")

// Runner executes a single run against a fresh Controller and reports its summary.
type Runner struct {
	// Handler renders the events and the summary. Defaults to a TextHandler on Stdout.
	Handler Handler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// Delay is the pause between steps.
	Delay time.Duration

	Renderers       []ports.Renderer
	Hooks           []domain.LifecycleHooks
	InterruptSource <-chan struct{}
}

// NewRunner creates a Runner with the given options.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdout)
	}
	return r
}

// Run sorts values with the named algorithm and blocks until the run completes,
// ctx ends, a SIGINT/SIGTERM arrives or the interrupt source fires. Early
// termination still prints and returns the summary, together with
// ErrInterrupted or ctx.Err().
func (r *Runner) Run(ctx context.Context, values domain.Array, algorithm string) (*domain.RunSummary, error) {
	opts := []sortstep.Option{
		sortstep.WithLogger(r.Logger),
		sortstep.WithDelay(r.Delay),
		sortstep.WithRenderer(r.Handler),
	}
	for _, rd := range r.Renderers {
		opts = append(opts, sortstep.WithRenderer(rd))
	}
	for _, h := range r.Hooks {
		opts = append(opts, sortstep.WithLifecycleHooks(h))
	}
	ctrl := sortstep.New(opts...)
	defer ctrl.Close()

	if err := ctrl.NewArray(values); err != nil {
		return nil, err
	}
	if _, err := ctrl.StartRun(algorithm); err != nil {
		return nil, err
	}

	signals := NewSignalManager()
	defer signals.Stop()

	var stopErr error
	select {
	case <-ctrl.Done():
	case <-ctx.Done():
		stopErr = ctx.Err()
	case <-signals.Context().Done():
		r.Logger.Debug("runner: signal received, cancelling run")
		stopErr = ErrInterrupted
	case <-r.InterruptSource:
		stopErr = ErrInterrupted
	}
	if stopErr != nil {
		ctrl.Cancel()
		<-ctrl.Done()
	}

	summary := ctrl.Snapshot().LastRun
	if summary == nil {
		return nil, fmt.Errorf("run finished without a summary")
	}
	if err := r.Handler.Summary(context.WithoutCancel(ctx), summary); err != nil {
		r.Logger.Warn("failed to render summary", "error", err)
	}
	return summary, stopErr
}
