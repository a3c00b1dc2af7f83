// File: api/future.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Suspendable computation contract driven by the cooperative executor.

package api

// Waker is a handle to exactly one task's readiness flag.
//
// Invoking it marks the task as ready to be polled again. Wakers carry no
// resources, so WakeByRef and Wake differ only in intent: after Wake the
// caller is expected to drop the handle.
type Waker interface {
	// WakeByRef marks the target task ready. Idempotent, never fails.
	WakeByRef()

	// Wake has the same effect as WakeByRef; the handle should not be used afterwards.
	Wake()

	// Clone returns another handle to the same task.
	Clone() Waker
}

// PollResult is the outcome of a single Future.Poll call.
type PollResult struct {
	Value any  // output, meaningful only when Done
	Done  bool // true once the computation has finished
}

// Ready returns a finished PollResult carrying v.
func Ready(v any) PollResult {
	return PollResult{Value: v, Done: true}
}

// Pending returns the "not ready" PollResult.
func Pending() PollResult {
	return PollResult{}
}

// Future is a suspendable computation.
//
// Poll must never block. A Pending result obliges the implementation to
// have either registered w (or a clone) with a Reactor, or to otherwise
// guarantee that it will eventually be invoked. A Done result is terminal:
// the executor never polls the future again.
type Future interface {
	Poll(w Waker) PollResult
}

// FutureFunc adapts a plain function to the Future interface.
type FutureFunc func(w Waker) PollResult

// Poll calls f(w).
func (f FutureFunc) Poll(w Waker) PollResult {
	return f(w)
}
