package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/sortstep/pkg/domain"
)

// LoggingHooks logs run boundaries and restores at info level and every
// step at debug level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "run_start",
				"run_id", e.Summary.ID,
				"algorithm", e.Summary.Algorithm,
				"size", e.Summary.Size,
			)
		},
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			if !logger.Enabled(ctx, slog.LevelDebug) {
				return
			}
			logger.DebugContext(ctx, "step",
				"run_id", e.RunID,
				"seq", e.Seq,
				"type", e.Type,
				"indices", e.Indices,
			)
		},
		OnRunEnd: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "run_end",
				"run_id", e.Summary.ID,
				"outcome", e.Summary.Outcome,
				"comparisons", e.Summary.Comparisons,
				"mutations", e.Summary.Mutations,
				"duration", e.Summary.Duration(),
			)
		},
		OnRestore: func(ctx context.Context, e *domain.RestoreEvent) {
			logger.InfoContext(ctx, "restore", "reason", e.Reason, "depth", e.Depth)
		},
	}
}

// Chain merges several hook sets into one, calling them in order.
func Chain(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			for _, h := range hooks {
				if h.OnRunStart != nil {
					h.OnRunStart(ctx, e)
				}
			}
		},
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			for _, h := range hooks {
				if h.OnStep != nil {
					h.OnStep(ctx, e)
				}
			}
		},
		OnRunEnd: func(ctx context.Context, e *domain.RunEvent) {
			for _, h := range hooks {
				if h.OnRunEnd != nil {
					h.OnRunEnd(ctx, e)
				}
			}
		},
		OnRestore: func(ctx context.Context, e *domain.RestoreEvent) {
			for _, h := range hooks {
				if h.OnRestore != nil {
					h.OnRestore(ctx, e)
				}
			}
		},
	}
}
