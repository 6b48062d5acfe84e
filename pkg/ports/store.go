package ports

import (
	"context"

	"github.com/aretw0/sortstep/pkg/domain"
)

// RunStore keeps run summaries for the lifetime of the process.
type RunStore interface {
	// Save inserts or replaces the summary with the same ID.
	Save(ctx context.Context, summary *domain.RunSummary) error

	// Load retrieves a summary.
	// Returns domain.ErrRunNotFound if the run does not exist.
	Load(ctx context.Context, runID string) (*domain.RunSummary, error)

	// List returns every summary, oldest first.
	List(ctx context.Context) ([]domain.RunSummary, error)
}
