package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/sortstep"
	"github.com/aretw0/sortstep/pkg/domain"
	"github.com/aretw0/sortstep/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordsRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	ctrl := sortstep.New(
		sortstep.WithArray(domain.Array{4, 3, 2, 1}),
		sortstep.WithLifecycleHooks(metrics.Hooks()),
	)
	_, err := ctrl.StartRun("bubble")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, ctrl.Wait(ctx))
	require.True(t, ctrl.Undo())

	last := ctrl.Snapshot().LastRun
	require.NotNil(t, last)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RunsStarted.WithLabelValues("bubble")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RunsFinished.WithLabelValues("bubble", "completed")))
	assert.Equal(t, float64(last.Comparisons), testutil.ToFloat64(metrics.Steps.WithLabelValues("bubble", "compare")))
	assert.Equal(t, float64(last.Mutations), testutil.ToFloat64(metrics.Steps.WithLabelValues("bubble", "swap")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Restores.WithLabelValues("undo")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.ActiveRuns))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.RunDuration))
}

func TestMetrics_Registration(t *testing.T) {
	reg := prometheus.NewRegistry()
	observability.NewMetrics(reg)
	assert.Panics(t, func() { observability.NewMetrics(reg) }, "duplicate registration must panic")

	assert.NotPanics(t, func() { observability.NewMetrics(nil) })
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	hooks := observability.LoggingHooks(logger)
	ctx := context.Background()

	summary := &domain.RunSummary{ID: "r1", Algorithm: domain.AlgorithmMerge, Outcome: domain.OutcomeCancelled}
	hooks.OnRunStart(ctx, &domain.RunEvent{Summary: summary})
	hooks.OnStep(ctx, &domain.StepEvent{RunID: "r1", Seq: 1, Type: domain.EventCompare})
	hooks.OnRunEnd(ctx, &domain.RunEvent{Summary: summary})
	hooks.OnRestore(ctx, &domain.RestoreEvent{Reason: "undo"})

	out := buf.String()
	assert.Contains(t, out, "run_start")
	assert.Contains(t, out, "outcome=cancelled")
	assert.Contains(t, out, "reason=undo")
	assert.NotContains(t, out, "msg=step", "steps are debug only")
}

func TestChain(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{OnStep: func(context.Context, *domain.StepEvent) { calls = append(calls, "a") }}
	b := domain.LifecycleHooks{
		OnStep:    func(context.Context, *domain.StepEvent) { calls = append(calls, "b") },
		OnRestore: func(context.Context, *domain.RestoreEvent) { calls = append(calls, "restore") },
	}

	chained := observability.Chain(a, b)
	chained.OnStep(context.Background(), &domain.StepEvent{})
	chained.OnRestore(context.Background(), &domain.RestoreEvent{})
	chained.OnRunStart(context.Background(), &domain.RunEvent{})

	assert.Equal(t, []string{"a", "b", "restore"}, calls)
}
