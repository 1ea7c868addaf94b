package thread

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"
	"golang.org/x/time/rate"
)

const tracerName = "vkshell/internal/thread"

// Controller owns at most one background goroutine which runs Hooks in the
// order init, loop*, destroy. Start and Stop toggle whether the loop iterates,
// Destroy terminates the goroutine and waits for it to exit.
//
// The goroutine is spawned lazily by the first Start or Stop call. Iterations
// are never interrupted: Stop and Destroy take effect once the iteration in
// flight returns, so their latency is bounded below by the duration of
// OnThreadLoop.
//
// Control methods are meant to be called by a single owner. Destroy must be
// called explicitly; nothing joins the goroutine implicitly.
type Controller struct {
	hooks   Hooks
	id      string
	name    string
	logger  *slog.Logger
	metrics *Metrics
	limiter *rate.Limiter
	tracer  trace.Tracer

	mu         sync.Mutex
	cond       *sync.Cond
	active     bool
	destroying bool
	spawned    bool
	exited     bool
	joining    bool
	destroyed  bool
	iterations uint64
	err        error

	// done is closed by the worker right before it exits.
	done   chan struct{}
	cancel context.CancelFunc
}

// New creates a controller. No goroutine is started until Start or Stop.
func New(hooks Hooks, opts ...Option) *Controller {
	if hooks == nil {
		panic("thread: nil hooks")
	}

	c := &Controller{
		hooks:  hooks,
		id:     uuid.NewString(),
		name:   "worker",
		logger: slog.Default(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.cond = sync.NewCond(&c.mu)
	c.logger = c.logger.With(
		slog.String("component", "thread"),
		slog.String("thread", c.name),
		slog.String("thread_id", c.id),
	)
	c.metrics.observeState(c.name, StateNotStarted)

	return c
}

func (c *Controller) ID() string {
	return c.id
}

func (c *Controller) Name() string {
	return c.name
}

// Start lets the loop iterate. It spawns the worker on first use and returns
// without waiting for the first iteration.
func (c *Controller) Start() error {
	return c.setActive(true)
}

// Stop pauses the loop after the iteration in flight, if any. Calling Stop
// first spawns the worker, which runs init and then waits.
func (c *Controller) Stop() error {
	return c.setActive(false)
}

func (c *Controller) setActive(active bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.destroyed:
		return ErrDestroyed
	case c.destroying:
		return ErrDestroying
	case c.err != nil:
		return c.err
	}

	if !c.spawned {
		c.spawnLocked()
	}

	c.active = active
	c.cond.Broadcast()
	c.publishStateLocked()

	return nil
}

func (c *Controller) spawnLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	c.done = done
	c.cancel = cancel
	c.spawned = true

	c.logger.Debug("Spawning worker")
	go c.run(ctx, done)
}

// Destroy terminates the worker and blocks until it has exited. It returns
// the hook errors captured during the worker's lifetime. Destroy on a
// controller that never spawned a worker runs no hook and returns at once.
func (c *Controller) Destroy() error {
	return c.DestroyContext(context.Background())
}

// DestroyContext is Destroy with a bound on the wait. When ctx is done first
// the worker keeps shutting down and a later Destroy call waits again.
func (c *Controller) DestroyContext(ctx context.Context) error {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return nil
	}
	if c.joining {
		c.mu.Unlock()
		return ErrDestroyInProgress
	}
	if !c.spawned {
		c.destroying = true
		c.destroyed = true
		c.publishStateLocked()
		c.mu.Unlock()
		return nil
	}

	if !c.destroying {
		c.logger.Info("Destroying worker", slog.Uint64("iterations", c.iterations))
	}
	c.destroying = true
	c.joining = true
	c.cond.Broadcast()
	c.publishStateLocked()
	done, cancel := c.done, c.cancel
	c.mu.Unlock()

	// interrupts a limiter wait, never a hook
	cancel()

	select {
	case <-done:
	case <-ctx.Done():
		c.mu.Lock()
		c.joining = false
		c.mu.Unlock()
		return errors.Wrap(ctx.Err(), "wait for worker exit")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.joining = false
	c.destroyed = true
	c.done = nil
	c.cancel = nil
	c.publishStateLocked()

	c.logger.Info("Worker destroyed", slog.Uint64("iterations", c.iterations))
	return c.err
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Iterations returns the number of loop iterations that have returned.
func (c *Controller) Iterations() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.iterations
}

// Err returns the hook errors captured so far.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// AwaitIterations blocks until at least n iterations have returned. It fails
// when the worker exits first or ctx is done.
func (c *Controller) AwaitIterations(ctx context.Context, n uint64) error {
	stop := context.AfterFunc(ctx, func() {
		c.mu.Lock()
		c.cond.Broadcast()
		c.mu.Unlock()
	})
	defer stop()

	c.mu.Lock()
	defer c.mu.Unlock()

	for c.iterations < n {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.exited || c.destroyed {
			if c.err != nil {
				return c.err
			}
			return ErrDestroyed
		}
		c.cond.Wait()
	}

	return nil
}

func (c *Controller) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	if err := c.invoke(ctx, HookInit, c.hooks.OnThreadInit); err != nil {
		c.fail(err)
	} else {
		c.loop(ctx)
	}

	if err := c.invoke(ctx, HookDestroy, c.hooks.OnThreadDestroy); err != nil {
		c.fail(err)
	}

	c.mu.Lock()
	c.exited = true
	c.cond.Broadcast()
	c.publishStateLocked()
	c.mu.Unlock()

	c.logger.Debug("Worker exited")
}

func (c *Controller) loop(ctx context.Context) {
	for {
		if !c.awaitActive() {
			return
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				if ctx.Err() != nil {
					continue
				}
				c.fail(errors.Wrap(err, "wait for iteration token"))
				return
			}
			if !c.isActive() {
				continue
			}
		}

		err := c.invoke(ctx, HookLoop, c.hooks.OnThreadLoop)

		c.mu.Lock()
		c.iterations++
		c.cond.Broadcast()
		c.mu.Unlock()

		if err != nil {
			c.fail(err)
			return
		}
	}
}

// awaitActive parks the worker until it is started or destroyed. It reports
// whether the loop should run another iteration.
func (c *Controller) awaitActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for !c.active && !c.destroying {
		c.cond.Wait()
	}

	return !c.destroying
}

func (c *Controller) isActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active && !c.destroying
}

func (c *Controller) fail(err error) {
	c.mu.Lock()
	c.err = multierr.Append(c.err, err)
	c.mu.Unlock()

	c.logger.Error("Worker hook failed", slog.Any("error", err))
}

func (c *Controller) invoke(ctx context.Context, hook string, fn func() error) (err error) {
	_, span := c.tracer.Start(ctx, "thread."+hook, trace.WithAttributes(
		attribute.String("thread.name", c.name),
		attribute.String("thread.id", c.id),
	))
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = &HookError{Hook: hook, Panic: r}
		} else if err != nil {
			err = &HookError{Hook: hook, Err: err}
		}

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.metrics.hookFailed(c.name, hook)
		}
		if hook == HookLoop {
			c.metrics.iterationDone(c.name, time.Since(started))
		}
		span.End()
	}()

	return fn()
}

func (c *Controller) stateLocked() State {
	switch {
	case c.destroyed:
		return StateDestroyed
	case c.destroying:
		return StateDestroying
	case !c.spawned:
		return StateNotStarted
	case c.exited:
		return StateFaulted
	case c.active:
		return StateLooping
	default:
		return StateIdle
	}
}

func (c *Controller) publishStateLocked() {
	c.metrics.observeState(c.name, c.stateLocked())
}
