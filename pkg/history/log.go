// Package history implements the mutation log: an undo stack of full array
// snapshots, one pushed immediately before each structural change.
package history

import (
	"sync"

	"github.com/aretw0/sortstep/pkg/domain"
)

// Log is an append-only stack of array snapshots.
// Safe for concurrent use: a run pushes while control surfaces read Len.
type Log struct {
	mu        sync.RWMutex
	snapshots []domain.Array
}

// New creates an empty log.
func New() *Log {
	return &Log{}
}

// Push records a copy of the array as it was before a mutation.
func (l *Log) Push(a domain.Array) {
	snap := a.Clone()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.snapshots = append(l.snapshots, snap)
}

// Pop removes the most recent snapshot. Returns the snapshot and true, or nil
// and false if there is nothing to undo.
func (l *Log) Pop() (domain.Array, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(l.snapshots)
	if n == 0 {
		return nil, false
	}
	top := l.snapshots[n-1]
	l.snapshots[n-1] = nil
	l.snapshots = l.snapshots[:n-1]
	return top, true
}

// Peek returns a copy of the most recent snapshot without removing it.
func (l *Log) Peek() (domain.Array, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := len(l.snapshots)
	if n == 0 {
		return nil, false
	}
	return l.snapshots[n-1].Clone(), true
}

// Len returns the number of recorded snapshots.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.snapshots)
}

// Clear drops every snapshot.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.snapshots = nil
}
