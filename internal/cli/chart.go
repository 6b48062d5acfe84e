package cli

import (
	"context"
	"io"

	"github.com/aretw0/sortstep"
	"github.com/aretw0/sortstep/internal/presentation/graph"
	"github.com/aretw0/sortstep/pkg/adapters/memory"
	"github.com/aretw0/sortstep/pkg/domain"
)

// ChartOptions configures the chart command.
type ChartOptions struct {
	RunOptions
	Step int // 0 means the final state
}

// Chart sorts the array without pacing and writes a Mermaid diagram of the
// array at the requested step.
func Chart(ctx context.Context, w io.Writer, opts ChartOptions) error {
	values, err := resolveValues(opts.RunOptions)
	if err != nil {
		return err
	}

	rec := memory.NewRecorder()
	ctrl := sortstep.New(sortstep.WithArray(values), sortstep.WithRenderer(rec))
	defer ctrl.Close()

	if _, err := ctrl.StartRun(opts.Config.Algorithm); err != nil {
		return err
	}
	if err := ctrl.Wait(ctx); err != nil {
		return err
	}

	var steps []domain.StepEvent
	for _, ev := range rec.Events() {
		if ev.Type != domain.EventRestore {
			steps = append(steps, ev)
		}
	}

	_, err = io.WriteString(w, graph.GenerateMermaid(graph.Replay(values, steps, opts.Step)))
	return err
}
