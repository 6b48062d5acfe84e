package sortstep_test

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/sortstep"
	"github.com/aretw0/sortstep/pkg/adapters/memory"
	"github.com/aretw0/sortstep/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitIdle(t *testing.T, ctrl *sortstep.Controller) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, ctrl.Wait(ctx))
}

func runEvents(events []domain.StepEvent) []domain.StepEvent {
	var out []domain.StepEvent
	for _, ev := range events {
		if ev.Type != domain.EventRestore {
			out = append(out, ev)
		}
	}
	return out
}

func sortedCopy(a domain.Array) domain.Array {
	out := a.Clone()
	sort.Ints(out)
	return out
}

func TestController_RunToCompletion(t *testing.T) {
	rec := memory.NewRecorder()
	ctrl := sortstep.New(sortstep.WithRenderer(rec))

	require.NoError(t, ctrl.NewArray(domain.Array{5, 3, 8, 1}))
	id, err := ctrl.StartRun("Bubble Sort")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	waitIdle(t, ctrl)

	assert.Equal(t, domain.Array{1, 3, 5, 8}, ctrl.Array())
	assert.Equal(t, domain.StatusIdle, ctrl.Status())

	events := runEvents(rec.Events())
	require.NotEmpty(t, events)
	assert.Equal(t, domain.EventCompare, events[0].Type)
	assert.Equal(t, []int{0, 1}, events[0].Indices)
	for i, ev := range events {
		assert.Equal(t, id, ev.RunID)
		assert.Equal(t, i+1, ev.Seq)
	}
	last := events[len(events)-1]
	assert.Equal(t, domain.EventSorted, last.Type)
	assert.Equal(t, []int{0, 1, 2, 3}, last.Indices)

	snap := ctrl.Snapshot()
	require.NotNil(t, snap.LastRun)
	assert.Equal(t, id, snap.LastRun.ID)
	assert.Equal(t, domain.OutcomeCompleted, snap.LastRun.Outcome)
	assert.Equal(t, snap.LastRun.Mutations, snap.HistoryDepth)
	assert.Equal(t, 4, snap.LastRun.Size)

	stored, err := ctrl.Run(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeCompleted, stored.Outcome)
	assert.NotNil(t, stored.FinishedAt)
}

func TestController_AllAlgorithms(t *testing.T) {
	input := domain.Array{42, 17, 93, 8, 8, 61, 25, 100, 3, 77, 54, 12}
	for _, info := range domain.Algorithms() {
		t.Run(string(info.Algorithm), func(t *testing.T) {
			ctrl := sortstep.New(sortstep.WithArray(input))
			_, err := ctrl.StartRun(string(info.Algorithm))
			require.NoError(t, err)
			waitIdle(t, ctrl)
			assert.Equal(t, sortedCopy(input), ctrl.Array())
		})
	}
}

func TestController_UnknownAlgorithm(t *testing.T) {
	ctrl := sortstep.New(sortstep.WithArray(domain.Array{3, 1, 2}))

	_, err := ctrl.StartRun("bogo")
	assert.ErrorIs(t, err, domain.ErrUnknownAlgorithm)
	assert.Equal(t, domain.StatusIdle, ctrl.Status())
	assert.Equal(t, domain.Array{3, 1, 2}, ctrl.Array())

	runs, err := ctrl.Runs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestController_NewArrayRejectsEmpty(t *testing.T) {
	ctrl := sortstep.New(sortstep.WithArray(domain.Array{2, 1}))

	err := ctrl.NewArray(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, domain.Array{2, 1}, ctrl.Array())
}

func TestController_NoOpsWhenIdle(t *testing.T) {
	ctrl := sortstep.New(sortstep.WithArray(domain.Array{2, 1}))

	ctrl.Cancel()
	assert.False(t, ctrl.Undo())
	assert.False(t, ctrl.Pause())
	assert.False(t, ctrl.Resume())
	assert.Equal(t, domain.Array{2, 1}, ctrl.Array())

	select {
	case <-ctrl.Done():
	default:
		t.Fatal("Done should be closed while idle")
	}
}

func TestController_UndoIsInverse(t *testing.T) {
	input := domain.Array{9, 4, 7, 1, 6, 2}
	ctrl := sortstep.New(sortstep.WithArray(input))

	_, err := ctrl.StartRun("insertion")
	require.NoError(t, err)
	waitIdle(t, ctrl)

	depth := ctrl.Snapshot().HistoryDepth
	require.Positive(t, depth)
	for i := 0; i < depth; i++ {
		require.True(t, ctrl.Undo())
	}
	assert.Equal(t, input, ctrl.Array())
	assert.False(t, ctrl.Undo())
	assert.Equal(t, input, ctrl.Array())
}

func TestController_NewArrayClearsLog(t *testing.T) {
	rec := memory.NewRecorder()
	ctrl := sortstep.New(sortstep.WithArray(domain.Array{3, 2, 1}), sortstep.WithRenderer(rec))

	_, err := ctrl.StartRun("selection")
	require.NoError(t, err)
	waitIdle(t, ctrl)
	require.Positive(t, ctrl.Snapshot().HistoryDepth)

	require.NoError(t, ctrl.NewArray(domain.Array{7, 6}))
	assert.Zero(t, ctrl.Snapshot().HistoryDepth)
	assert.False(t, ctrl.Undo())

	restores := rec.Filter(domain.EventRestore)
	require.Len(t, restores, 1)
	assert.Equal(t, domain.Array{7, 6}, restores[0].Values)
}

func TestController_CancelLeavesValidArray(t *testing.T) {
	input := domain.Array{30, 29, 28, 27, 26, 25, 24, 23, 22, 21}
	rec := memory.NewRecorder()
	ctrl := sortstep.New(
		sortstep.WithArray(input),
		sortstep.WithRenderer(rec),
		sortstep.WithDelay(2*time.Millisecond),
	)

	id, err := ctrl.StartRun("bubble")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return rec.Len() >= 5 }, 5*time.Second, time.Millisecond)

	ctrl.Cancel()
	ctrl.Cancel()
	waitIdle(t, ctrl)

	arr := ctrl.Array()
	assert.Equal(t, sortedCopy(input), sortedCopy(arr))

	summary, err := ctrl.Run(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeCancelled, summary.Outcome)

	for ctrl.Undo() {
	}
	assert.Equal(t, input, ctrl.Array())
}

func TestController_StartRunReplacesActiveRun(t *testing.T) {
	input := domain.Array{20, 19, 18, 17, 16, 15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5}
	rec := memory.NewRecorder()
	ctrl := sortstep.New(
		sortstep.WithArray(input),
		sortstep.WithRenderer(rec),
		sortstep.WithDelay(time.Millisecond),
	)

	first, err := ctrl.StartRun("bubble")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return rec.Len() >= 3 }, 5*time.Second, time.Millisecond)

	ctrl.SetDelay(0)
	second, err := ctrl.StartRun("heap")
	require.NoError(t, err)
	waitIdle(t, ctrl)

	// Every event of the first run precedes every event of the second.
	seenSecond := false
	for _, ev := range runEvents(rec.Events()) {
		if ev.RunID == second {
			seenSecond = true
			continue
		}
		assert.Equal(t, first, ev.RunID)
		assert.False(t, seenSecond, "event of replaced run after new run started")
	}
	assert.True(t, seenSecond)
	assert.True(t, ctrl.Array().IsSorted())

	runs, err := ctrl.Runs(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, domain.OutcomeCancelled, runs[0].Outcome)
	assert.Equal(t, domain.OutcomeCompleted, runs[1].Outcome)
}

func TestController_ConcurrentStartsNeverInterleave(t *testing.T) {
	rec := memory.NewRecorder()
	ctrl := sortstep.New(
		sortstep.WithArray(domain.Array{8, 3, 9, 1, 7, 2, 6, 4, 5}),
		sortstep.WithRenderer(rec),
	)

	var wg sync.WaitGroup
	algorithms := []string{"bubble", "selection", "insertion", "merge", "quick", "heap"}
	for _, alg := range algorithms {
		wg.Add(1)
		go func(alg string) {
			defer wg.Done()
			_, err := ctrl.StartRun(alg)
			assert.NoError(t, err)
		}(alg)
	}
	wg.Wait()
	waitIdle(t, ctrl)

	finished := map[string]bool{}
	current := ""
	for _, ev := range runEvents(rec.Events()) {
		if ev.RunID != current {
			assert.False(t, finished[ev.RunID], "run %s resumed after another run emitted", ev.RunID)
			if current != "" {
				finished[current] = true
			}
			current = ev.RunID
		}
	}
	assert.True(t, ctrl.Array().IsSorted())
}

func TestController_SetDelayTakesEffectNextStep(t *testing.T) {
	rec := memory.NewRecorder()
	ctrl := sortstep.New(
		sortstep.WithArray(domain.Array{6, 5, 4, 3, 2, 1}),
		sortstep.WithRenderer(rec),
		sortstep.WithDelay(100*time.Millisecond),
	)

	_, err := ctrl.StartRun("bubble")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return rec.Len() >= 1 }, 5*time.Second, time.Millisecond)

	ctrl.SetDelay(-time.Second)
	assert.Equal(t, time.Duration(0), ctrl.Delay())
	waitIdle(t, ctrl)
	assert.Equal(t, domain.Array{1, 2, 3, 4, 5, 6}, ctrl.Array())
}

func TestController_PauseResume(t *testing.T) {
	rec := memory.NewRecorder()
	ctrl := sortstep.New(
		sortstep.WithArray(domain.Array{9, 8, 7, 6, 5, 4, 3, 2, 1}),
		sortstep.WithRenderer(rec),
		sortstep.WithDelay(time.Millisecond),
	)

	_, err := ctrl.StartRun("selection")
	require.NoError(t, err)
	require.True(t, ctrl.Pause())
	assert.True(t, ctrl.Snapshot().Paused)

	time.Sleep(20 * time.Millisecond)
	held := rec.Len()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, held, rec.Len())
	assert.Equal(t, domain.StatusRunning, ctrl.Status())

	require.True(t, ctrl.Resume())
	waitIdle(t, ctrl)
	assert.True(t, ctrl.Array().IsSorted())
}

func TestController_UndoStopsActiveRun(t *testing.T) {
	input := domain.Array{5, 4, 3, 2, 1}
	rec := memory.NewRecorder()
	ctrl := sortstep.New(
		sortstep.WithArray(input),
		sortstep.WithRenderer(rec),
		sortstep.WithDelay(5*time.Millisecond),
	)

	_, err := ctrl.StartRun("bubble")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(rec.Filter(domain.EventSwap)) >= 1 }, 5*time.Second, time.Millisecond)

	ctrl.Undo()
	assert.Equal(t, domain.StatusIdle, ctrl.Status())
	assert.Equal(t, sortedCopy(input), sortedCopy(ctrl.Array()))
}

func TestController_LifecycleHooks(t *testing.T) {
	var starts, steps, ends, restores atomic.Int32
	ctrl := sortstep.New(
		sortstep.WithArray(domain.Array{2, 1}),
		sortstep.WithLifecycleHooks(domain.LifecycleHooks{
			OnRunStart: func(context.Context, *domain.RunEvent) { starts.Add(1) },
			OnStep:     func(context.Context, *domain.StepEvent) { steps.Add(1) },
			OnRunEnd: func(_ context.Context, ev *domain.RunEvent) {
				ends.Add(1)
				assert.Equal(t, domain.OutcomeCompleted, ev.Summary.Outcome)
			},
			OnRestore: func(_ context.Context, ev *domain.RestoreEvent) {
				restores.Add(1)
				assert.Equal(t, "undo", ev.Reason)
			},
		}),
	)

	_, err := ctrl.StartRun("quick")
	require.NoError(t, err)
	waitIdle(t, ctrl)
	require.True(t, ctrl.Undo())

	assert.EqualValues(t, 1, starts.Load())
	assert.EqualValues(t, 1, ends.Load())
	assert.EqualValues(t, 1, restores.Load())
	assert.Positive(t, steps.Load())
}

func TestController_WaitCoversRunEnd(t *testing.T) {
	store := memory.NewStore()
	var ended atomic.Bool
	ctrl := sortstep.New(
		sortstep.WithArray(domain.Array{3, 1, 2}),
		sortstep.WithRunStore(store),
		sortstep.WithLifecycleHooks(domain.LifecycleHooks{
			OnRunEnd: func(context.Context, *domain.RunEvent) {
				time.Sleep(50 * time.Millisecond)
				ended.Store(true)
			},
		}),
	)
	defer ctrl.Close()

	for range 5 {
		id, err := ctrl.StartRun("selection")
		require.NoError(t, err)
		waitIdle(t, ctrl)

		assert.True(t, ended.Load(), "Wait returned before the end hooks ran")
		summary, err := store.Load(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeCompleted, summary.Outcome)
		assert.NotNil(t, summary.FinishedAt)
		assert.Equal(t, domain.StatusIdle, ctrl.Status())

		ended.Store(false)
		require.NoError(t, ctrl.NewArray(domain.Array{3, 1, 2}))
	}
}

func TestController_RendererErrorsDoNotAbort(t *testing.T) {
	failing := rendererFunc(func(context.Context, domain.StepEvent) error { return assert.AnError })
	ctrl := sortstep.New(sortstep.WithArray(domain.Array{4, 3, 2, 1}), sortstep.WithRenderer(failing))

	_, err := ctrl.StartRun("merge")
	require.NoError(t, err)
	waitIdle(t, ctrl)
	assert.Equal(t, domain.Array{1, 2, 3, 4}, ctrl.Array())
}

func TestController_SingleElement(t *testing.T) {
	rec := memory.NewRecorder()
	ctrl := sortstep.New(sortstep.WithArray(domain.Array{4}), sortstep.WithRenderer(rec))

	_, err := ctrl.StartRun("heap")
	require.NoError(t, err)
	waitIdle(t, ctrl)

	events := runEvents(rec.Events())
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventSorted, events[0].Type)
	assert.Equal(t, []int{0}, events[0].Indices)
	assert.Empty(t, rec.Filter(domain.EventCompare))
}

type rendererFunc func(context.Context, domain.StepEvent) error

func (f rendererFunc) Render(ctx context.Context, ev domain.StepEvent) error { return f(ctx, ev) }
