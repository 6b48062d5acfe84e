package runner

import (
	"context"

	"github.com/aretw0/sortstep/pkg/domain"
	"github.com/aretw0/sortstep/pkg/ports"
)

// Handler renders step events and the closing summary of a run.
type Handler interface {
	ports.Renderer

	// Summary is called once, after the run has finished or been cancelled.
	Summary(ctx context.Context, summary *domain.RunSummary) error
}
