/*
Package sortstep is a stepwise sorting engine built for visualizing classic in-place sorting algorithms.

It runs one of six algorithms (bubble, selection, insertion, merge, quick, heap) over an
array and turns every comparison and mutation into an ordered StepEvent, pausing
cooperatively between steps so a renderer can animate the array as bars.

# Concept

The Controller owns the array and the mutation log. A run borrows a private copy of the
array, executes in its own goroutine and hands the array back when it completes or is
cancelled. Between steps the run suspends for the configured delay; the delay, the pause
gate and the cancellation signal are re-read at every suspension point, so a speed change
or a stop request is observed on the very next step.

# Key Features

  - Cancellable at any step: a cancelled run leaves a valid, undo-capable array.
  - Undo: every swap or write-back is preceded by a snapshot, so Undo pops one mutation at a time.
  - One writer at a time: starting a run cancels the previous one and waits for it to stop.
  - Pluggable renderers: terminal bars, NDJSON, SSE, Redis pub/sub.

# Usage

	ctrl := sortstep.New(
		sortstep.WithRenderer(myRenderer),
		sortstep.WithDelay(50*time.Millisecond),
	)

	if err := ctrl.NewArray(domain.Array{5, 3, 8, 1}); err != nil {
		log.Fatal(err)
	}

	if _, err := ctrl.StartRun("bubble"); err != nil {
		log.Fatal(err)
	}

	// Later, from any goroutine:
	ctrl.SetDelay(10 * time.Millisecond)
	ctrl.Cancel()
	ctrl.Undo()

# Architecture

The project follows a Hexagonal Architecture:

  - Core Domain: pkg/domain (values), pkg/history (mutation log), internal/engine (algorithms).
  - Ports: pkg/ports (Renderer, RunStore).
  - Adapters: pkg/adapters (memory, redis, http, mcp), pkg/runner (terminal and NDJSON renderers).
*/
package sortstep
