// File: internal/concurrency/flag.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Readiness flag shared between a task and its wakers.

package concurrency

import "sync/atomic"

// Flag is a per-task "poll me now" marker.
//
// The executor is its only reader for scheduling and clears it right before
// polling; fired wakers are its only writers while the task is suspended.
// Wakers hold a pointer to the flag, so its storage outlives the task for as
// long as any clone is reachable.
type Flag struct {
	ready atomic.Bool
}

// NewFlag returns a flag in the ready state, so a fresh task gets its first poll.
func NewFlag() *Flag {
	f := &Flag{}
	f.ready.Store(true)
	return f
}

// Set marks the owner ready.
func (f *Flag) Set() { f.ready.Store(true) }

// Clear resets the flag ahead of a poll.
func (f *Flag) Clear() { f.ready.Store(false) }

// IsSet reports whether the owner should be polled.
func (f *Flag) IsSet() bool { return f.ready.Load() }
