package runner

import (
	"log/slog"
	"time"

	"github.com/aretw0/sortstep/pkg/domain"
	"github.com/aretw0/sortstep/pkg/ports"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithHandler configures the output handler.
func WithHandler(handler Handler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithDelay sets the pause between steps.
func WithDelay(d time.Duration) Option {
	return func(r *Runner) {
		r.Delay = d
	}
}

// WithRenderer adds a renderer that receives events alongside the handler
// (e.g. a redis publisher).
func WithRenderer(renderer ports.Renderer) Option {
	return func(r *Runner) {
		r.Renderers = append(r.Renderers, renderer)
	}
}

// WithLifecycleHooks registers observability callbacks on the underlying controller.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Runner) {
		r.Hooks = append(r.Hooks, hooks)
	}
}

// WithInterruptSource sets a channel that cancels the run when it fires or closes.
func WithInterruptSource(ch <-chan struct{}) Option {
	return func(r *Runner) {
		r.InterruptSource = ch
	}
}
