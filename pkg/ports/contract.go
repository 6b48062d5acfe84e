package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/sortstep/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunRunStoreContract runs a suite of tests to verify that a RunStore implementation
// adheres to the defined interface contract.
func RunRunStoreContract(t *testing.T, store RunStore) {
	ctx := context.Background()
	runID := "contract-test-run-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		summary := &domain.RunSummary{
			ID:          runID,
			Algorithm:   domain.AlgorithmHeap,
			Outcome:     domain.OutcomeCompleted,
			Size:        30,
			Comparisons: 120,
			StartedAt:   time.Now(),
		}

		err := store.Save(ctx, summary)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, summary.Algorithm, loaded.Algorithm)
		assert.Equal(t, 120, loaded.Comparisons)

		// Mutating the loaded copy must not change the stored one.
		loaded.Comparisons = 0
		again, err := store.Load(ctx, runID)
		require.NoError(t, err)
		assert.Equal(t, 120, again.Comparisons)
	})

	t.Run("Save Replaces", func(t *testing.T) {
		err := store.Save(ctx, &domain.RunSummary{ID: runID, Outcome: domain.OutcomeCancelled})
		require.NoError(t, err)

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeCancelled, loaded.Outcome)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("List", func(t *testing.T) {
		id1 := runID + "-1"
		id2 := runID + "-2"
		require.NoError(t, store.Save(ctx, &domain.RunSummary{ID: id1}))
		require.NoError(t, store.Save(ctx, &domain.RunSummary{ID: id2}))

		runs, err := store.List(ctx)
		require.NoError(t, err)

		var ids []string
		for _, r := range runs {
			ids = append(ids, r.ID)
		}
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
