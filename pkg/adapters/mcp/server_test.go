package mcp

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/aretw0/sortstep"
	"github.com/aretw0/sortstep/pkg/domain"
	"github.com/aretw0/sortstep/pkg/input"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, values domain.Array) (*Server, *sortstep.Controller) {
	t.Helper()
	ctrl := sortstep.New(sortstep.WithArray(values), sortstep.WithDelay(0))
	t.Cleanup(func() { _ = ctrl.Close() })
	return NewServer(ctrl), ctrl
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	}
}

func TestNewArray(t *testing.T) {
	s, ctrl := newTestServer(t, domain.Array{1})
	ctx := context.Background()

	state, err := s.handleNewArray(ctx, callRequest("new_array", nil), newArrayArgs{Values: "5, 3,x,8"})
	require.NoError(t, err)
	assert.Equal(t, domain.Array{5, 3, 8}, state.Array)
	assert.Equal(t, domain.StatusIdle, state.Status)
	assert.Equal(t, domain.Array{5, 3, 8}, ctrl.Array())

	_, err = s.handleNewArray(ctx, callRequest("new_array", nil), newArrayArgs{Values: "a,b"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, domain.Array{5, 3, 8}, ctrl.Array(), "rejected input must not touch the array")
}

func TestGenerateArray(t *testing.T) {
	s, _ := newTestServer(t, domain.Array{1})
	ctx := context.Background()

	size, lo, hi := 12, 50, 60
	state, err := s.handleGenerateArray(ctx, callRequest("generate_array", nil), generateArgs{Size: &size, Min: &lo, Max: &hi})
	require.NoError(t, err)
	require.Len(t, state.Array, 12)
	for _, v := range state.Array {
		assert.GreaterOrEqual(t, v, 50)
		assert.LessOrEqual(t, v, 60)
	}

	state, err = s.handleGenerateArray(ctx, callRequest("generate_array", nil), generateArgs{})
	require.NoError(t, err)
	assert.Len(t, state.Array, 30)

	zero := 0
	_, err = s.handleGenerateArray(ctx, callRequest("generate_array", nil), generateArgs{Size: &zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGenerateArray_RejectsUnsafeBounds(t *testing.T) {
	s, ctrl := newTestServer(t, domain.Array{2, 1})
	ctx := context.Background()

	lo, hi := 0, math.MaxInt
	_, err := s.handleGenerateArray(ctx, callRequest("generate_array", nil), generateArgs{Min: &lo, Max: &hi})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	size := input.DefaultMaxGenerateSize + 1
	_, err = s.handleGenerateArray(ctx, callRequest("generate_array", nil), generateArgs{Size: &size})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	res, err := mcp.NewStructuredToolHandler(s.handleGenerateArray)(ctx, callRequest("generate_array", map[string]any{"min": 0, "max": math.MaxInt}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, domain.Array{2, 1}, ctrl.Array())
}

func TestStartRunAndWait(t *testing.T) {
	s, _ := newTestServer(t, domain.Array{9, 4, 7, 1, 3})
	ctx := context.Background()

	started, err := s.handleStartRun(ctx, callRequest("start_run", nil), startRunArgs{Algorithm: "heap"})
	require.NoError(t, err)
	assert.NotEmpty(t, started.RunID)
	assert.Equal(t, domain.AlgorithmHeap, started.Algorithm)

	timeout := float64(5000)
	state, err := s.handleWaitRun(ctx, callRequest("wait_run", nil), waitArgs{TimeoutMS: &timeout})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusIdle, state.Status)
	assert.Equal(t, domain.Array{1, 3, 4, 7, 9}, state.Array)
	require.NotNil(t, state.LastRun)
	assert.Equal(t, started.RunID, state.LastRun.ID)
	assert.Equal(t, domain.OutcomeCompleted, state.LastRun.Outcome)
}

func TestStartRunUnknownAlgorithm(t *testing.T) {
	s, ctrl := newTestServer(t, domain.Array{2, 1})

	_, err := s.handleStartRun(context.Background(), callRequest("start_run", nil), startRunArgs{Algorithm: "bogo"})
	assert.ErrorIs(t, err, domain.ErrUnknownAlgorithm)
	assert.Equal(t, domain.StatusIdle, ctrl.Status())
}

func TestStructuredHandlerBindsArguments(t *testing.T) {
	s, ctrl := newTestServer(t, domain.Array{3, 2, 1})
	ctx := context.Background()

	res, err := mcp.NewStructuredToolHandler(s.handleStartRun)(ctx, callRequest("start_run", map[string]any{"algorithm": "insertion"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	require.NoError(t, ctrl.Wait(ctx))
	assert.Equal(t, domain.Array{1, 2, 3}, ctrl.Array())

	res, err = mcp.NewStructuredToolHandler(s.handleStartRun)(ctx, callRequest("start_run", map[string]any{"algorithm": "nope"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestSetDelay(t *testing.T) {
	s, ctrl := newTestServer(t, domain.Array{1})

	ms := float64(120)
	state, err := s.handleSetDelay(context.Background(), callRequest("set_delay", nil), setDelayArgs{DelayMS: &ms})
	require.NoError(t, err)
	assert.Equal(t, int64(120), state.DelayMS)
	assert.Equal(t, 120*time.Millisecond, ctrl.Delay())

	_, err = s.handleSetDelay(context.Background(), callRequest("set_delay", nil), setDelayArgs{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCancelPauseResume(t *testing.T) {
	input := domain.Array{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	s, ctrl := newTestServer(t, input)
	ctrl.SetDelay(20 * time.Millisecond)
	ctx := context.Background()

	_, err := s.handleStartRun(ctx, callRequest("start_run", nil), startRunArgs{Algorithm: "bubble"})
	require.NoError(t, err)

	paused, err := s.handlePauseRun(ctx, callRequest("pause_run", nil), noArgs{})
	require.NoError(t, err)
	assert.True(t, paused.Applied)
	assert.True(t, paused.State.Paused)

	resumed, err := s.handleResumeRun(ctx, callRequest("resume_run", nil), noArgs{})
	require.NoError(t, err)
	assert.True(t, resumed.Applied)

	cancelled, err := s.handleCancelRun(ctx, callRequest("cancel_run", nil), noArgs{})
	require.NoError(t, err)
	assert.True(t, cancelled.Applied)
	assert.Equal(t, domain.StatusIdle, cancelled.State.Status)
	assert.ElementsMatch(t, input, cancelled.State.Array)

	again, err := s.handleCancelRun(ctx, callRequest("cancel_run", nil), noArgs{})
	require.NoError(t, err)
	assert.False(t, again.Applied, "cancel when idle is a no-op")
}

func TestUndo(t *testing.T) {
	s, ctrl := newTestServer(t, domain.Array{2, 1})
	ctx := context.Background()

	res, err := s.handleUndo(ctx, callRequest("undo", nil), noArgs{})
	require.NoError(t, err)
	assert.False(t, res.Applied)

	_, err = ctrl.StartRun("bubble")
	require.NoError(t, err)
	require.NoError(t, ctrl.Wait(ctx))
	assert.Equal(t, domain.Array{1, 2}, ctrl.Array())

	res, err = s.handleUndo(ctx, callRequest("undo", nil), noArgs{})
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, domain.Array{2, 1}, res.State.Array)
	assert.Equal(t, 0, res.State.HistoryDepth)
}

func TestGetState(t *testing.T) {
	s, _ := newTestServer(t, domain.Array{4, 2})

	state, err := s.handleGetState(context.Background(), callRequest("get_state", nil), noArgs{})
	require.NoError(t, err)
	assert.Equal(t, domain.Array{4, 2}, state.Array)
	assert.Equal(t, domain.StatusIdle, state.Status)
	assert.Empty(t, state.RunID)
	assert.Nil(t, state.LastRun)
}
