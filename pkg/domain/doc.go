/*
Package domain contains the core domain models of the sortstep engine.

It defines the values that flow between the sort engine, the run controller and
the renderers. This package is kept pure and free of external dependencies like
I/O or persistence.

# Key Entities

  - Array: the ordered sequence of integers being sorted.
  - Algorithm: one of the six supported sorting algorithms, plus its catalog entry.
  - StepEvent: one observable unit of progress (comparison, mutation, sorted marker).
  - RunSummary: the outcome of a finished run (completed or cancelled).
  - Snapshot: a read-only view of the controller for control surfaces.
*/
package domain
