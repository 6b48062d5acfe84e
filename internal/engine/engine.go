// Package engine implements the stepwise sort engine: six algorithms sharing one
// execution protocol (emit, suspend, check cancellation, log before mutating).
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/sortstep/pkg/domain"
	"github.com/aretw0/sortstep/pkg/history"
)

type sortFunc func(r *run) error

// Engine dispatches runs to the algorithm implementations.
type Engine struct {
	logger  *slog.Logger
	sorters map[domain.Algorithm]sortFunc
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an engine with every supported algorithm registered.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		sorters: map[domain.Algorithm]sortFunc{
			domain.AlgorithmBubble:    bubbleSort,
			domain.AlgorithmSelection: selectionSort,
			domain.AlgorithmInsertion: insertionSort,
			domain.AlgorithmMerge:     func(r *run) error { return mergeSort(r, 0, len(r.arr)-1) },
			domain.AlgorithmQuick:     func(r *run) error { return quickSort(r, 0, len(r.arr)-1) },
			domain.AlgorithmHeap:      heapSort,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Request describes one run.
// Array is owned by the run until Run returns; Log and Emitter default to a
// private log and an Immediate emitter.
type Request struct {
	RunID     string
	Algorithm domain.Algorithm
	Array     domain.Array
	Log       *history.Log
	Emitter   Emitter
}

// Result reports what a run did.
type Result struct {
	Array       domain.Array
	Outcome     domain.RunOutcome
	Comparisons int
	Mutations   int
	Steps       int
}

// Supports reports whether alg has an implementation.
func (e *Engine) Supports(alg domain.Algorithm) bool {
	_, ok := e.sorters[alg]
	return ok
}

// Run sorts req.Array in place. It returns domain.ErrCancelled (with a Result
// holding the array as it was left) when ctx is cancelled before completion.
func (e *Engine) Run(ctx context.Context, req Request) (Result, error) {
	sorter, ok := e.sorters[req.Algorithm]
	if !ok {
		return Result{Array: req.Array}, fmt.Errorf("%w: %q", domain.ErrUnknownAlgorithm, req.Algorithm)
	}

	r := &run{
		ctx: ctx,
		id:  req.RunID,
		alg: req.Algorithm,
		arr: req.Array,
		log: req.Log,
		em:  req.Emitter,
	}
	if r.log == nil {
		r.log = history.New()
	}
	if r.em == nil {
		r.em = Immediate{}
	}

	err := r.check()
	if err == nil && len(r.arr) > 1 {
		err = sorter(r)
	}
	if err == nil {
		r.finish()
	}

	res := Result{
		Array:       r.arr,
		Outcome:     domain.OutcomeCompleted,
		Comparisons: r.comparisons,
		Mutations:   r.mutations,
		Steps:       r.seq,
	}
	if err != nil {
		if errors.Is(err, domain.ErrCancelled) {
			res.Outcome = domain.OutcomeCancelled
			e.logger.DebugContext(ctx, "run cancelled",
				"run_id", req.RunID,
				"algorithm", req.Algorithm,
				"steps", r.seq,
			)
		}
		return res, err
	}

	e.logger.DebugContext(ctx, "run completed",
		"run_id", req.RunID,
		"algorithm", req.Algorithm,
		"comparisons", r.comparisons,
		"mutations", r.mutations,
	)
	return res, nil
}
