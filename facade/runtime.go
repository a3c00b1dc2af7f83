// File: facade/runtime.go
// Unified facade layer for hioload-rt.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Runtime aggregates the reactor, executor, metrics and debug probes behind a
// single value built from an immutable Config.

package facade

import (
	"fmt"
	"sync"

	"github.com/joeycumines/logiface"
	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/control"
	"github.com/momentics/hioload-rt/executor"
	"github.com/momentics/hioload-rt/reactor"
)

// Runtime is the main facade type.
// It implements api.GracefulShutdown.
type Runtime struct {
	reactor  api.Reactor
	executor *executor.Executor
	metrics  *control.MetricsRegistry
	debug    *control.DebugProbes
	logger   *logiface.Logger[logiface.Event]

	config *Config
	mu     sync.Mutex // Protects closed
	closed bool
}

var _ api.GracefulShutdown = (*Runtime)(nil)

// New constructs a Runtime with the given configuration; nil means DefaultConfig.
func New(cfg *Config, opts ...executor.Option) (*Runtime, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	rt := &Runtime{
		config: cfg,
		logger: NewLogger(cfg.LogOutput, cfg.LogLevel),
	}
	if cfg.EnableMetrics {
		rt.metrics = control.NewMetricsRegistry()
	}
	if cfg.EnableDebug {
		rt.debug = control.NewDebugProbes()
	}

	r, err := reactor.New(
		reactor.WithLogger(rt.logger),
		reactor.WithMetrics(rt.metrics),
		reactor.WithMaxEvents(cfg.MaxEvents),
		reactor.WithMaxRegistrations(cfg.MaxRegistrations),
	)
	if err != nil {
		return nil, fmt.Errorf("reactor init failure: %w", err)
	}
	rt.reactor = r

	base := []executor.Option{
		executor.WithLogger(rt.logger),
		executor.WithMetrics(rt.metrics),
		executor.WithName(cfg.Name),
	}
	e, err := executor.New(r, append(base, opts...)...)
	if err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("executor init failure: %w", err)
	}
	rt.executor = e

	if rt.debug != nil {
		control.RegisterPlatformProbes(rt.debug)
		rt.debug.RegisterProbe("executor.id", func() any { return e.ID() })
		rt.debug.RegisterProbe("executor.live_tasks", func() any { return e.Stats().Live })
		rt.debug.RegisterProbe("reactor.registrations", func() any { return r.Len() })
	}
	return rt, nil
}

// Run drives the executor until every task has completed.
func (rt *Runtime) Run(initial ...api.Future) error {
	if err := rt.checkOpen(); err != nil {
		return err
	}
	return rt.executor.Run(initial...)
}

// RunOne runs f to completion and returns its output.
func (rt *Runtime) RunOne(f api.Future) (any, error) {
	if err := rt.checkOpen(); err != nil {
		return nil, err
	}
	return rt.executor.RunOne(f)
}

// AddFuture submits f to the executor.
func (rt *Runtime) AddFuture(f api.Future) error {
	return rt.executor.AddFuture(f)
}

// Reactor returns the readiness reactor futures register with.
func (rt *Runtime) Reactor() api.Reactor { return rt.reactor }

// Executor returns the underlying executor.
func (rt *Runtime) Executor() *executor.Executor { return rt.executor }

// Metrics returns the metrics registry, or nil when metrics are disabled.
func (rt *Runtime) Metrics() *control.MetricsRegistry { return rt.metrics }

// Logger returns the runtime logger, which may be nil.
func (rt *Runtime) Logger() *logiface.Logger[logiface.Event] { return rt.logger }

// DumpState returns the output of all debug probes.
func (rt *Runtime) DumpState() map[string]any {
	return rt.debug.DumpState()
}

// Close releases the reactor. Calling Close more than once is a no-op.
func (rt *Runtime) Close() error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.closed {
		return nil
	}
	rt.closed = true
	return rt.reactor.Close()
}

// Shutdown implements api.GracefulShutdown by delegating to Close.
func (rt *Runtime) Shutdown() error {
	return rt.Close()
}

func (rt *Runtime) checkOpen() error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.closed {
		return api.ErrReactorClosed
	}
	return nil
}
