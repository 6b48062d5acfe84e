package memory

import (
	"context"
	"sync"

	"github.com/aretw0/sortstep/pkg/domain"
)

// Store implements ports.RunStore in memory.
// Safe for concurrent use.
type Store struct {
	data  map[string]*domain.RunSummary
	order []string
	mu    sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.RunSummary),
	}
}

// Save persists a copy of the summary.
func (s *Store) Save(ctx context.Context, summary *domain.RunSummary) error {
	copied := copySummary(summary)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data[summary.ID]; !exists {
		s.order = append(s.order, summary.ID)
	}
	s.data[summary.ID] = copied
	return nil
}

// Load retrieves a copy of the summary so callers can't mutate store state by pointer.
func (s *Store) Load(ctx context.Context, runID string) (*domain.RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary, ok := s.data[runID]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return copySummary(summary), nil
}

// List returns every summary in insertion order.
func (s *Store) List(ctx context.Context) ([]domain.RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]domain.RunSummary, 0, len(s.order))
	for _, id := range s.order {
		runs = append(runs, *copySummary(s.data[id]))
	}
	return runs, nil
}

func copySummary(in *domain.RunSummary) *domain.RunSummary {
	out := *in
	if in.FinishedAt != nil {
		t := *in.FinishedAt
		out.FinishedAt = &t
	}
	return &out
}
