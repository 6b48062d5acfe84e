package domain

import (
	"context"
	"time"
)

// EventType defines the category of a step event.
type EventType string

const (
	EventCompare EventType = "compare" // Two indices are about to be compared
	EventSelect  EventType = "select"  // A pivot or minimum candidate was chosen
	EventSwap    EventType = "swap"    // Two indices exchanged values
	EventWrite   EventType = "write"   // A range was overwritten (merge write-back)
	EventSorted  EventType = "sorted"  // Indices reached their final position
	EventRestore EventType = "restore" // The array was replaced outside a run (new array, undo)
)

// Role is the highlight a renderer should apply to the event's indices.
type Role string

const (
	RoleComparing Role = "comparing"
	RoleSelected  Role = "selected"
	RoleSwapping  Role = "swapping"
	RoleSorted    Role = "sorted"
	RoleNone      Role = "none"
)

// StepEvent is one observable unit of progress emitted by the sort engine.
// Values is a private snapshot of the array after the step.
type StepEvent struct {
	RunID     string    `json:"run_id,omitempty"`
	Seq       int       `json:"seq"`
	Algorithm Algorithm `json:"algorithm,omitempty"`
	Type      EventType `json:"type"`
	Role      Role      `json:"role"`
	Indices   []int     `json:"indices"`
	Values    Array     `json:"values"`
	Timestamp time.Time `json:"timestamp"`
}

// Highlights reports whether index i is part of the event's highlighted set.
func (e StepEvent) Highlights(i int) bool {
	for _, idx := range e.Indices {
		if idx == i {
			return true
		}
	}
	return false
}

// RunEvent marks the start or the end of a run.
type RunEvent struct {
	Timestamp time.Time   `json:"timestamp"`
	Summary   *RunSummary `json:"summary"`
}

// RestoreEvent reports an array replacement made outside a run.
type RestoreEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Reason    string    `json:"reason"` // "undo", "new_array"
	Values    Array     `json:"values"`
	Depth     int       `json:"depth"` // Mutation log depth after the change
}

// LifecycleHooks defines callbacks for controller observability.
type LifecycleHooks struct {
	OnRunStart func(context.Context, *RunEvent)
	OnStep     func(context.Context, *StepEvent)
	OnRunEnd   func(context.Context, *RunEvent)
	OnRestore  func(context.Context, *RestoreEvent)
}
