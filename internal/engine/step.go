package engine

import (
	"context"
	"time"

	"github.com/aretw0/sortstep/pkg/domain"
	"github.com/aretw0/sortstep/pkg/history"
)

// run is the per-run protocol state threaded through every algorithm,
// including recursive calls.
type run struct {
	ctx context.Context
	id  string
	alg domain.Algorithm
	arr domain.Array
	log *history.Log
	em  Emitter

	seq         int
	comparisons int
	mutations   int
}

func (r *run) check() error {
	if r.ctx.Err() != nil {
		return domain.ErrCancelled
	}
	return nil
}

func (r *run) event(typ domain.EventType, role domain.Role, indices ...int) domain.StepEvent {
	r.seq++
	return domain.StepEvent{
		RunID:     r.id,
		Seq:       r.seq,
		Algorithm: r.alg,
		Type:      typ,
		Role:      role,
		Indices:   indices,
		Values:    r.arr.Clone(),
		Timestamp: time.Now(),
	}
}

// compare announces a comparison of i and j, then suspends.
func (r *run) compare(i, j int) error {
	if err := r.check(); err != nil {
		return err
	}
	r.comparisons++
	r.em.Emit(r.ctx, r.event(domain.EventCompare, domain.RoleComparing, i, j))
	return r.em.Suspend(r.ctx)
}

// swap logs the current array, exchanges i and j, announces the new state and suspends.
func (r *run) swap(i, j int) error {
	if err := r.check(); err != nil {
		return err
	}
	r.log.Push(r.arr)
	r.arr[i], r.arr[j] = r.arr[j], r.arr[i]
	r.mutations++

	r.em.Emit(r.ctx, r.event(domain.EventSwap, domain.RoleSwapping, i, j))
	return r.em.Suspend(r.ctx)
}

// writeBack logs the current array and overwrites arr[start:] with values.
// Writing back an identical range is not a mutation and is skipped.
func (r *run) writeBack(start int, values []int) error {
	if err := r.check(); err != nil {
		return err
	}
	if domain.Array(values).Equal(r.arr[start : start+len(values)]) {
		return nil
	}
	r.log.Push(r.arr)
	copy(r.arr[start:], values)
	r.mutations++

	r.em.Emit(r.ctx, r.event(domain.EventWrite, domain.RoleSwapping, span(start, start+len(values)-1)...))
	return r.em.Suspend(r.ctx)
}

// selectIndex highlights a pivot or minimum candidate.
func (r *run) selectIndex(i int) error {
	if err := r.check(); err != nil {
		return err
	}
	r.em.Emit(r.ctx, r.event(domain.EventSelect, domain.RoleSelected, i))
	return nil
}

// markSorted announces indices that reached their final position.
func (r *run) markSorted(indices ...int) error {
	if err := r.check(); err != nil {
		return err
	}
	r.em.Emit(r.ctx, r.event(domain.EventSorted, domain.RoleSorted, indices...))
	return nil
}

// finish emits the final marker covering every index.
func (r *run) finish() {
	r.em.Emit(r.ctx, r.event(domain.EventSorted, domain.RoleSorted, r.arr.Indices()...))
}

// span returns lo..hi inclusive.
func span(lo, hi int) []int {
	if hi < lo {
		return nil
	}
	out := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}
	return out
}
