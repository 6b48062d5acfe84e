package sortstep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/sortstep/internal/engine"
	"github.com/aretw0/sortstep/internal/logging"
	"github.com/aretw0/sortstep/pkg/adapters/memory"
	"github.com/aretw0/sortstep/pkg/domain"
	"github.com/aretw0/sortstep/pkg/history"
	"github.com/aretw0/sortstep/pkg/ports"
	"github.com/google/uuid"
)

// Controller owns the array state and the mutation log, and runs at most one
// sorting algorithm against them at a time.
type Controller struct {
	engine *engine.Engine
	log    *history.Log
	store  ports.RunStore
	hooks  []domain.LifecycleHooks
	logger *slog.Logger

	// ctl serializes operations that replace the active run or the array.
	ctl sync.Mutex

	mu        sync.Mutex
	array     domain.Array
	live      domain.Array // latest snapshot of the running copy
	delay     time.Duration
	active    *activeRun
	lastRun   *domain.RunSummary
	renderers []ports.Renderer
}

type activeRun struct {
	session *engine.Session
	summary domain.RunSummary
	done    chan struct{}
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used by the controller and its engine.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithRenderer registers a renderer. It can be given more than once.
func WithRenderer(r ports.Renderer) Option {
	return func(c *Controller) {
		c.renderers = append(c.renderers, r)
	}
}

// WithLifecycleHooks registers observability callbacks. It can be given more than once.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Controller) {
		c.hooks = append(c.hooks, hooks)
	}
}

// WithDelay sets the initial inter-step delay.
func WithDelay(d time.Duration) Option {
	return func(c *Controller) {
		c.delay = max(d, 0)
	}
}

// WithRunStore replaces the default in-memory run store.
func WithRunStore(store ports.RunStore) Option {
	return func(c *Controller) {
		c.store = store
	}
}

// WithArray sets the initial array.
func WithArray(values domain.Array) Option {
	return func(c *Controller) {
		c.array = values.Clone()
	}
}

// New creates an idle Controller.
func New(opts ...Option) *Controller {
	c := &Controller{
		log:   history.New(),
		array: domain.Array{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.NewNop()
	}
	if c.store == nil {
		c.store = memory.NewStore()
	}
	c.engine = engine.NewEngine(engine.WithLogger(c.logger))
	return c
}

// AddRenderer registers a renderer after construction. Runs already in flight
// see it from their next event.
func (c *Controller) AddRenderer(r ports.Renderer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.renderers = append(c.renderers, r)
}

// StartRun cancels any active run, waits for it to stop and starts the
// algorithm named by tag on the current array. It returns the new run ID.
func (c *Controller) StartRun(tag string) (string, error) {
	alg, err := domain.ParseAlgorithm(tag)
	if err != nil {
		return "", err
	}
	if !c.engine.Supports(alg) {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownAlgorithm, tag)
	}

	c.ctl.Lock()
	defer c.ctl.Unlock()
	c.stopActive()

	c.mu.Lock()
	input := c.array.Clone()
	session := engine.NewSession(context.Background(), uuid.NewString(), alg, c.delay)
	r := &activeRun{
		session: session,
		summary: domain.RunSummary{
			ID:        session.ID,
			Algorithm: alg,
			Outcome:   domain.OutcomeRunning,
			Size:      len(input),
			StartedAt: time.Now(),
		},
		done: make(chan struct{}),
	}
	c.active = r
	c.live = input.Clone()
	summary := r.summary
	c.mu.Unlock()

	ctx := session.Context()
	c.logger.InfoContext(ctx, "run started", "run_id", session.ID, "algorithm", alg, "size", len(input))
	c.saveRun(&summary)
	for _, h := range c.hooks {
		if h.OnRunStart != nil {
			h.OnRunStart(ctx, &domain.RunEvent{Timestamp: summary.StartedAt, Summary: &summary})
		}
	}

	go c.execute(r, input)
	return session.ID, nil
}

func (c *Controller) execute(r *activeRun, input domain.Array) {
	ctx := r.session.Context()
	res, err := c.engine.Run(ctx, engine.Request{
		RunID:     r.session.ID,
		Algorithm: r.session.Algorithm,
		Array:     input,
		Log:       c.log,
		Emitter:   engine.NewPacer(r.session, c.observe),
	})
	if err != nil && !errors.Is(err, domain.ErrCancelled) {
		c.logger.ErrorContext(ctx, "run failed", "run_id", r.session.ID, "error", err)
	}

	finished := time.Now()
	c.mu.Lock()
	r.summary.Outcome = res.Outcome
	r.summary.Comparisons = res.Comparisons
	r.summary.Mutations = res.Mutations
	r.summary.Steps = res.Steps
	r.summary.FinishedAt = &finished
	summary := r.summary
	c.array = res.Array
	c.live = nil
	c.lastRun = &summary
	c.mu.Unlock()

	r.session.Cancel()

	// The session context is done by now; hooks get a fresh one.
	endCtx := context.Background()
	c.logger.InfoContext(endCtx, "run finished",
		"run_id", summary.ID,
		"outcome", summary.Outcome,
		"comparisons", summary.Comparisons,
		"mutations", summary.Mutations,
		"duration", summary.Duration(),
	)
	c.saveRun(&summary)
	for _, h := range c.hooks {
		if h.OnRunEnd != nil {
			h.OnRunEnd(endCtx, &domain.RunEvent{Timestamp: finished, Summary: &summary})
		}
	}

	// Done and Wait release only after the summary is stored and the end hooks ran.
	c.mu.Lock()
	if c.active == r {
		c.active = nil
	}
	c.mu.Unlock()
	close(r.done)
}

// observe runs on the run goroutine for every event, in order.
func (c *Controller) observe(ctx context.Context, ev domain.StepEvent) {
	c.mu.Lock()
	c.live = ev.Values
	renderers := c.renderers
	c.mu.Unlock()

	for _, h := range c.hooks {
		if h.OnStep != nil {
			h.OnStep(ctx, &ev)
		}
	}
	c.render(ctx, renderers, ev)
}

func (c *Controller) render(ctx context.Context, renderers []ports.Renderer, ev domain.StepEvent) {
	for _, r := range renderers {
		if err := r.Render(ctx, ev); err != nil {
			c.logger.WarnContext(ctx, "renderer failed", "seq", ev.Seq, "type", ev.Type, "error", err)
		}
	}
}

func (c *Controller) saveRun(summary *domain.RunSummary) {
	if err := c.store.Save(context.Background(), summary); err != nil {
		c.logger.Warn("failed to save run", "run_id", summary.ID, "error", err)
	}
}

// stopActive cancels the active run and blocks until it has installed its array.
// Callers hold ctl.
func (c *Controller) stopActive() {
	c.mu.Lock()
	r := c.active
	c.mu.Unlock()
	if r == nil {
		return
	}
	r.session.Cancel()
	<-r.done
}

// Cancel requests the active run to stop at its next checked point. It does
// nothing when idle.
func (c *Controller) Cancel() {
	c.mu.Lock()
	r := c.active
	c.mu.Unlock()
	if r != nil {
		r.session.Cancel()
	}
}

// Stop cancels the active run and waits for it to finish.
func (c *Controller) Stop(ctx context.Context) error {
	c.Cancel()
	return c.Wait(ctx)
}

// Wait blocks until the active run, if any, has finished.
func (c *Controller) Wait(ctx context.Context) error {
	select {
	case <-c.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var closedChan = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Done returns a channel closed when the current run finishes. When idle the
// channel is already closed.
func (c *Controller) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return closedChan
	}
	return c.active.done
}

// SetDelay updates the inter-step delay. The active run observes it at its
// next suspension point. Negative values clamp to zero.
func (c *Controller) SetDelay(d time.Duration) {
	d = max(d, 0)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delay = d
	if c.active != nil {
		c.active.session.SetDelay(d)
	}
}

// Delay returns the configured inter-step delay.
func (c *Controller) Delay() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.delay
}

// Pause holds the active run at its next suspension point. It reports whether
// a run was paused.
func (c *Controller) Pause() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return false
	}
	c.active.session.Pause()
	return true
}

// Resume releases a paused run. It reports whether a run was resumed.
func (c *Controller) Resume() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil || !c.active.session.Paused() {
		return false
	}
	c.active.session.Resume()
	return true
}

// NewArray stops any active run, replaces the array and clears the mutation log.
func (c *Controller) NewArray(values domain.Array) error {
	if len(values) == 0 {
		return fmt.Errorf("%w: empty array", domain.ErrInvalidInput)
	}

	c.ctl.Lock()
	defer c.ctl.Unlock()
	c.stopActive()

	c.mu.Lock()
	c.array = values.Clone()
	c.log.Clear()
	c.mu.Unlock()

	c.restored("new_array", values.Clone())
	return nil
}

// Undo stops any active run and reverts the most recent recorded mutation.
// It returns false when there is nothing to undo.
func (c *Controller) Undo() bool {
	c.ctl.Lock()
	defer c.ctl.Unlock()
	c.stopActive()

	prev, ok := c.log.Pop()
	if !ok {
		return false
	}
	c.mu.Lock()
	c.array = prev
	c.mu.Unlock()

	c.restored("undo", prev.Clone())
	return true
}

func (c *Controller) restored(reason string, values domain.Array) {
	ctx := context.Background()
	now := time.Now()
	depth := c.log.Len()

	c.logger.DebugContext(ctx, "array restored", "reason", reason, "size", len(values), "depth", depth)
	for _, h := range c.hooks {
		if h.OnRestore != nil {
			h.OnRestore(ctx, &domain.RestoreEvent{Timestamp: now, Reason: reason, Values: values, Depth: depth})
		}
	}

	c.mu.Lock()
	renderers := c.renderers
	c.mu.Unlock()
	c.render(ctx, renderers, domain.StepEvent{
		Type:      domain.EventRestore,
		Role:      domain.RoleNone,
		Indices:   []int{},
		Values:    values,
		Timestamp: now,
	})
}

// Status reports whether a run is in flight.
func (c *Controller) Status() domain.RunStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		return domain.StatusRunning
	}
	return domain.StatusIdle
}

// Array returns a copy of the array as it currently stands, including the
// progress of an in-flight run.
func (c *Controller) Array() domain.Array {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.live != nil {
		return c.live.Clone()
	}
	return c.array.Clone()
}

// Snapshot returns a read-only view of the controller.
func (c *Controller) Snapshot() domain.Snapshot {
	depth := c.log.Len()

	c.mu.Lock()
	defer c.mu.Unlock()
	snap := domain.Snapshot{
		Array:        c.array.Clone(),
		Status:       domain.StatusIdle,
		Delay:        c.delay,
		HistoryDepth: depth,
	}
	if c.live != nil {
		snap.Array = c.live.Clone()
	}
	if c.active != nil {
		snap.Status = domain.StatusRunning
		snap.Algorithm = c.active.session.Algorithm
		snap.RunID = c.active.session.ID
		snap.Paused = c.active.session.Paused()
	}
	if c.lastRun != nil {
		last := *c.lastRun
		snap.LastRun = &last
	}
	return snap
}

// Runs lists the runs started by this controller, oldest first.
func (c *Controller) Runs(ctx context.Context) ([]domain.RunSummary, error) {
	return c.store.List(ctx)
}

// Run returns the summary of a single run.
func (c *Controller) Run(ctx context.Context, id string) (*domain.RunSummary, error) {
	return c.store.Load(ctx, id)
}

// Close cancels the active run and waits for it to stop.
func (c *Controller) Close() error {
	c.ctl.Lock()
	defer c.ctl.Unlock()
	c.stopActive()
	return nil
}
