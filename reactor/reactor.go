// File: reactor/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral reactor options and metric names.

package reactor

import (
	"github.com/joeycumines/logiface"
	"github.com/momentics/hioload-rt/control"
)

const (
	// DefaultMaxEvents bounds the number of readiness events collected per wait.
	DefaultMaxEvents = 128

	// DefaultMaxRegistrations bounds the number of simultaneously live registrations.
	DefaultMaxRegistrations = 1 << 16

	// keySpace is the number of distinct registration keys before the allocator wraps.
	keySpace uint64 = 1 << 32
)

// Metric names published to a control.MetricsRegistry.
const (
	MetricRegistrations = "reactor.registrations"
	MetricWaits         = "reactor.waits"
	MetricFired         = "reactor.fired"
)

type options struct {
	logger           *logiface.Logger[logiface.Event]
	metrics          *control.MetricsRegistry
	maxEvents        int
	maxRegistrations int
}

// Option configures a reactor.
type Option func(*options)

// WithLogger attaches a structured logger. A nil logger disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics publishes registration and wait counters to mr.
func WithMetrics(mr *control.MetricsRegistry) Option {
	return func(o *options) {
		o.metrics = mr
	}
}

// WithMaxEvents sets the per-wait event buffer size. Values <= 0 keep the default.
func WithMaxEvents(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxEvents = n
		}
	}
}

// WithMaxRegistrations caps the registration table. Values <= 0 keep the default.
func WithMaxRegistrations(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxRegistrations = n
		}
	}
}

func resolveOptions(opts []Option) *options {
	cfg := &options{
		maxEvents:        DefaultMaxEvents,
		maxRegistrations: DefaultMaxRegistrations,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}
