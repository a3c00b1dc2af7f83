// File: executor/executor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Cooperative executor: owns the run list and drives the sweep/wait loop.

package executor

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/joeycumines/logiface"
	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/control"
	"github.com/momentics/hioload-rt/internal/concurrency"
)

// Metric names published to a control.MetricsRegistry.
const (
	MetricPolls     = "executor.polls"
	MetricCompleted = "executor.completed"
	MetricSpawned   = "executor.spawned"
	MetricWaits     = "executor.waits"
	MetricPanics    = "executor.panics"
	MetricLive      = "executor.live_tasks"
)

var _ api.Executor = (*Executor)(nil)

// Executor runs futures to completion on the goroutine that calls Run.
//
// AddFuture is safe for concurrent use; everything else belongs to the
// running goroutine.
type Executor struct {
	reactor    api.Reactor
	tasks      []*task
	batch      []*task
	spawned    *concurrency.SpawnQueue[*task]
	id         string
	logger     *logiface.Logger[logiface.Event]
	metrics    *control.MetricsRegistry
	onComplete CompleteFunc

	nextID  atomic.Uint64
	running atomic.Bool

	// statistics
	polls     atomic.Uint64
	completed atomic.Uint64
	spawnedN  atomic.Uint64
	waits     atomic.Uint64
	panics    atomic.Uint64
	live      atomic.Int64
}

// Stats is a point-in-time copy of executor counters.
type Stats struct {
	Polls     uint64
	Completed uint64
	Spawned   uint64
	Waits     uint64
	Panics    uint64
	Live      int64
}

// New creates an executor that blocks in r whenever no task is ready.
func New(r api.Reactor, opts ...Option) (*Executor, error) {
	if r == nil {
		return nil, fmt.Errorf("executor: nil reactor: %w", api.ErrInvalidArgument)
	}
	var cfg options
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	id := uuid.NewString()
	logger := cfg.logger.Clone().
		Str("executor", id).
		Str("name", cfg.name).
		Logger()

	return &Executor{
		reactor:    r,
		spawned:    concurrency.NewSpawnQueue[*task](),
		id:         id,
		logger:     logger,
		metrics:    cfg.metrics,
		onComplete: cfg.onComplete,
	}, nil
}

// ID returns the executor's instance identifier, as used in log lines.
func (e *Executor) ID() string { return e.id }

// AddFuture submits f. It joins the run list on the next loop iteration and
// receives its first poll on the sweep after that.
func (e *Executor) AddFuture(f api.Future) error {
	if f == nil {
		return api.ErrInvalidArgument
	}
	t := newTask(e.nextID.Add(1), f)
	e.spawned.Push(t)
	e.spawnedN.Add(1)
	e.metrics.Add(MetricSpawned, 1)
	e.logger.Debug().Uint64("task", t.id).Log("task submitted")
	return nil
}

// Run polls the initial futures, and any submitted through AddFuture, until
// all have completed.
//
// A reactor failure ends Run with that error, which api.IsFatal reports as
// fatal for OS-level failures, including a Register failure recorded by the
// reactor. If tasks remain but none is ready and the reactor has nothing to
// wait on, Run returns api.ErrStalled instead of blocking forever. Whenever
// Run returns an error, every unfinished task is discarded, including those
// still queued by AddFuture; the next Run starts from an empty list.
func (e *Executor) Run(initial ...api.Future) error {
	for _, f := range initial {
		if f == nil {
			return api.ErrInvalidArgument
		}
	}
	tasks := make([]*task, 0, len(initial))
	for _, f := range initial {
		tasks = append(tasks, newTask(e.nextID.Add(1), f))
	}
	return e.run(tasks)
}

// RunOne runs f, along with anything it spawns, and returns f's output.
// A panic inside f is returned as a *PanicError.
func (e *Executor) RunOne(f api.Future) (any, error) {
	if f == nil {
		return nil, api.ErrInvalidArgument
	}
	var (
		out any
		pe  *PanicError
	)
	t := newTask(e.nextID.Add(1), f)
	t.onDone = func(v any, panicked bool) {
		if panicked {
			pe = v.(*PanicError)
			return
		}
		out = v
	}
	if err := e.run([]*task{t}); err != nil {
		return nil, err
	}
	if pe != nil {
		return nil, pe
	}
	return out, nil
}

func (e *Executor) run(initial []*task) error {
	if !e.running.CompareAndSwap(false, true) {
		return api.ErrAlreadyRunning
	}
	defer e.running.Store(false)

	e.tasks = append(e.tasks, initial...)
	e.setLive()
	e.logger.Info().Int("tasks", len(e.tasks)).Log("executor run started")

	for {
		e.sweep()
		if err := e.reactor.Err(); err != nil {
			e.logger.Crit().Err(err).Log("reactor registration failed")
			e.discard()
			return fmt.Errorf("executor: reactor: %w", err)
		}
		e.admit()

		if len(e.tasks) == 0 {
			e.logger.Info().
				Uint64("polls", e.polls.Load()).
				Uint64("waits", e.waits.Load()).
				Log("executor run finished")
			return nil
		}

		if e.anyReady() {
			continue
		}

		if e.reactor.Len() == 0 {
			if e.spawned.Len() > 0 {
				// submitted from another goroutine after admit
				continue
			}
			e.logger.Err().Int("tasks", len(e.tasks)).Log("executor stalled")
			e.discard()
			return api.ErrStalled
		}

		e.waits.Add(1)
		e.metrics.Add(MetricWaits, 1)
		if _, err := e.reactor.WaitAndFire(); err != nil {
			e.logger.Crit().Err(err).Log("reactor wait failed")
			e.discard()
			return fmt.Errorf("executor: reactor wait: %w", err)
		}
	}
}

// Stats returns a snapshot of the executor counters.
func (e *Executor) Stats() Stats {
	return Stats{
		Polls:     e.polls.Load(),
		Completed: e.completed.Load(),
		Spawned:   e.spawnedN.Load(),
		Waits:     e.waits.Load(),
		Panics:    e.panics.Load(),
		Live:      e.live.Load(),
	}
}

// sweep polls every task that was ready when the sweep began, in list
// order, then drops the completed ones.
func (e *Executor) sweep() {
	e.batch = e.batch[:0]
	for _, t := range e.tasks {
		if t.ready.IsSet() {
			e.batch = append(e.batch, t)
		}
	}

	removed := 0
	for _, t := range e.batch {
		res, panicked := t.poll()
		e.polls.Add(1)
		e.metrics.Add(MetricPolls, 1)
		if !res.Done {
			continue
		}
		t.done = true
		removed++
		e.complete(t, res.Value, panicked)
	}
	clear(e.batch)

	if removed > 0 {
		kept := e.tasks[:0]
		for _, t := range e.tasks {
			if !t.done {
				kept = append(kept, t)
			}
		}
		clear(e.tasks[len(kept):])
		e.tasks = kept
		e.setLive()
	}
}

func (e *Executor) complete(t *task, out any, panicked bool) {
	e.completed.Add(1)
	e.metrics.Add(MetricCompleted, 1)
	if panicked {
		e.panics.Add(1)
		e.metrics.Add(MetricPanics, 1)
		e.logger.Err().
			Uint64("task", t.id).
			Err(out.(*PanicError)).
			Log("task panicked")
	} else {
		e.logger.Debug().
			Uint64("task", t.id).
			Uint64("polls", t.polls).
			Log("task completed")
	}
	if t.onDone != nil {
		t.onDone(out, panicked)
	}
	if e.onComplete != nil {
		e.onComplete(t.id, out)
	}
	t.fut = nil
}

// discard drops every unfinished task, queued ones included.
func (e *Executor) discard() {
	e.admit()
	if n := len(e.tasks); n > 0 {
		e.logger.Warning().Int("tasks", n).Log("executor discarded unfinished tasks")
	}
	clear(e.tasks)
	e.tasks = e.tasks[:0]
	e.setLive()
}

// admit moves submitted tasks into the run list; their flags start set.
func (e *Executor) admit() {
	before := len(e.tasks)
	e.tasks = e.spawned.DrainTo(e.tasks)
	if len(e.tasks) != before {
		e.setLive()
	}
}

func (e *Executor) anyReady() bool {
	for _, t := range e.tasks {
		if t.ready.IsSet() {
			return true
		}
	}
	return false
}

func (e *Executor) setLive() {
	e.live.Store(int64(len(e.tasks)))
	e.metrics.Set(MetricLive, len(e.tasks))
}
