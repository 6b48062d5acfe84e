package ports

import (
	"context"

	"github.com/aretw0/sortstep/pkg/domain"
)

// Renderer consumes step events. Render is called synchronously from the run,
// in emission order, so implementations must return within one frame.
type Renderer interface {
	Render(ctx context.Context, ev domain.StepEvent) error
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(ctx context.Context, ev domain.StepEvent) error

// Render calls f.
func (f RendererFunc) Render(ctx context.Context, ev domain.StepEvent) error {
	return f(ctx, ev)
}
