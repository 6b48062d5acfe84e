package domain

import "time"

// RunStatus defines whether the controller is currently executing a run.
type RunStatus string

const (
	StatusIdle    RunStatus = "idle"
	StatusRunning RunStatus = "running"
)

// RunOutcome records how a run ended.
type RunOutcome string

const (
	OutcomeRunning   RunOutcome = "running"
	OutcomeCompleted RunOutcome = "completed" // Array fully ordered
	OutcomeCancelled RunOutcome = "cancelled" // Stopped early, array left as-is
)

// RunSummary represents a single run of an algorithm over an array.
type RunSummary struct {
	ID          string     `json:"id"`
	Algorithm   Algorithm  `json:"algorithm"`
	Outcome     RunOutcome `json:"outcome"`
	Size        int        `json:"size"`
	Comparisons int        `json:"comparisons"`
	Mutations   int        `json:"mutations"`
	Steps       int        `json:"steps"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

// Duration returns how long the run took, or zero while it is still running.
func (s *RunSummary) Duration() time.Duration {
	if s == nil || s.FinishedAt == nil {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// Snapshot is a read-only view of the controller.
type Snapshot struct {
	Array        Array         `json:"array"`
	Status       RunStatus     `json:"status"`
	Algorithm    Algorithm     `json:"algorithm,omitempty"`
	RunID        string        `json:"run_id,omitempty"`
	Delay        time.Duration `json:"delay"`
	Paused       bool          `json:"paused"`
	HistoryDepth int           `json:"history_depth"`
	LastRun      *RunSummary   `json:"last_run,omitempty"`
}
