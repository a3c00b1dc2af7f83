// File: executor/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package executor

import (
	"github.com/joeycumines/logiface"
	"github.com/momentics/hioload-rt/control"
)

// CompleteFunc receives the output of every task that finishes.
type CompleteFunc func(taskID uint64, output any)

type options struct {
	logger     *logiface.Logger[logiface.Event]
	metrics    *control.MetricsRegistry
	onComplete CompleteFunc
	name       string
}

// Option configures an Executor.
type Option func(*options)

// WithLogger attaches a structured logger. A nil logger disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics publishes run loop counters to mr.
func WithMetrics(mr *control.MetricsRegistry) Option {
	return func(o *options) {
		o.metrics = mr
	}
}

// WithOnComplete registers a hook called, on the executor goroutine, with
// each completed task's output.
func WithOnComplete(fn CompleteFunc) Option {
	return func(o *options) {
		o.onComplete = fn
	}
}

// WithName labels log lines emitted by the executor.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}
