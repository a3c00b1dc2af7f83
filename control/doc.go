// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics and debug introspection for the executor and reactor.
//
// Provides concurrent-safe state handling primitives including:
//   - Counters and gauges published by the run loop and the reactor
//   - Named debug probes evaluated on demand
//
// Both registries are nil-safe, so components can run without them.
package control
