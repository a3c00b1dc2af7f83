// File: executor/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package executor implements a single-goroutine cooperative executor.
//
// Each submitted api.Future becomes a task with its own readiness flag. The
// run loop sweeps the task list, polling every task whose flag is set with a
// fresh waker bound to that flag, drops completed tasks, admits tasks
// submitted through AddFuture, and, when nothing is ready, blocks in the
// reactor until a registered descriptor fires.
//
// Wakes that happen during a sweep are acted on by the next sweep. A task
// that wakes itself while being polled is re-polled without an intervening
// reactor wait.
package executor
