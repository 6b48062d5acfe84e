package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/sortstep"
	"github.com/aretw0/sortstep/pkg/adapters/memory"
	"github.com/aretw0/sortstep/pkg/adapters/redis"
	"github.com/aretw0/sortstep/pkg/domain"
	"github.com/aretw0/sortstep/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

// listen starts a subscriber and waits until redis reports it.
func listen(t *testing.T, mr *miniredis.Miniredis, sub *redis.Subscriber, channel string, r ports.Renderer) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- sub.Listen(ctx, r) }()

	require.Eventually(t, func() bool {
		return mr.PubSubNumSub(channel)[channel] == 1
	}, 2*time.Second, 5*time.Millisecond)
	return cancel, errc
}

func TestPublisher_DefaultChannel(t *testing.T) {
	_, client := setup(t)
	assert.Equal(t, redis.DefaultChannel, redis.NewPublisher(client, "").Channel())
}

func TestPubSub_RoundTrip(t *testing.T) {
	mr, client := setup(t)
	rec := memory.NewRecorder()

	cancel, errc := listen(t, mr, redis.NewSubscriber(client, "events"), "events", rec)

	pub := redis.NewPublisher(client, "events")
	ev := domain.StepEvent{
		RunID:     "run-1",
		Seq:       3,
		Algorithm: domain.AlgorithmQuick,
		Type:      domain.EventSwap,
		Role:      domain.RoleSwapping,
		Indices:   []int{1, 4},
		Values:    domain.Array{1, 2, 3},
	}
	require.NoError(t, pub.Render(context.Background(), ev))

	require.Eventually(t, func() bool { return rec.Len() == 1 }, 2*time.Second, 5*time.Millisecond)
	got := rec.Events()[0]
	assert.Equal(t, ev.RunID, got.RunID)
	assert.Equal(t, ev.Indices, got.Indices)
	assert.Equal(t, ev.Values, got.Values)

	cancel()
	assert.NoError(t, <-errc)
}

func TestSubscriber_SkipsMalformed(t *testing.T) {
	mr, client := setup(t)
	rec := memory.NewRecorder()

	cancel, errc := listen(t, mr, redis.NewSubscriber(client, ""), redis.DefaultChannel, rec)
	defer cancel()

	mr.Publish(redis.DefaultChannel, "not json")
	require.NoError(t, redis.NewPublisher(client, "").Render(context.Background(), domain.StepEvent{Seq: 1}))

	require.Eventually(t, func() bool { return rec.Len() == 1 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	assert.NoError(t, <-errc)
}

func TestSubscriber_RendererErrorStops(t *testing.T) {
	mr, client := setup(t)
	boom := errors.New("boom")
	failing := ports.RendererFunc(func(context.Context, domain.StepEvent) error { return boom })

	cancel, errc := listen(t, mr, redis.NewSubscriber(client, "c"), "c", failing)
	defer cancel()

	require.NoError(t, redis.NewPublisher(client, "c").Render(context.Background(), domain.StepEvent{}))
	select {
	case err := <-errc:
		assert.ErrorIs(t, err, boom)
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop")
	}
}

func TestPublisher_ControllerRun(t *testing.T) {
	mr, client := setup(t)
	rec := memory.NewRecorder()

	cancel, errc := listen(t, mr, redis.NewSubscriber(client, "runs"), "runs", rec)
	defer cancel()

	ctrl := sortstep.New(
		sortstep.WithArray(domain.Array{3, 1, 2}),
		sortstep.WithRenderer(redis.NewPublisher(client, "runs")),
	)
	_, err := ctrl.StartRun("selection")
	require.NoError(t, err)

	ctx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	require.NoError(t, ctrl.Wait(ctx))

	require.Eventually(t, func() bool {
		sorted := rec.Filter(domain.EventSorted)
		return len(sorted) > 0 && len(sorted[len(sorted)-1].Indices) == 3
	}, 2*time.Second, 5*time.Millisecond)
	final := rec.Filter(domain.EventSorted)
	assert.Equal(t, domain.Array{1, 2, 3}, final[len(final)-1].Values)

	cancel()
	assert.NoError(t, <-errc)
}

func TestPublisher_ConnectionError(t *testing.T) {
	mr, client := setup(t)
	mr.Close()

	err := redis.NewPublisher(client, "").Render(context.Background(), domain.StepEvent{})
	assert.Error(t, err)
}
