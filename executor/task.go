// File: executor/task.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package executor

import (
	"fmt"
	"runtime/debug"

	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/internal/concurrency"
)

// task pairs a future with its readiness flag. Only the executor holds
// tasks, so membership in the run list is never shared or duplicated.
type task struct {
	id    uint64
	fut   api.Future
	ready *concurrency.Flag
	polls uint64
	done  bool

	// onDone, if set, receives the output before the completion hook.
	onDone func(out any, panicked bool)
}

func newTask(id uint64, f api.Future) *task {
	return &task{id: id, fut: f, ready: concurrency.NewFlag()}
}

// poll clears the flag, mints a waker bound to it and polls the future once.
// A panic from the future completes the task with a *PanicError output.
func (t *task) poll() (res api.PollResult, panicked bool) {
	t.ready.Clear()
	t.polls++
	defer func() {
		if r := recover(); r != nil {
			res = api.Ready(&PanicError{TaskID: t.id, Value: r, Stack: debug.Stack()})
			panicked = true
		}
	}()
	return t.fut.Poll(concurrency.NewWaker(t.ready)), false
}

// PanicError is the output recorded for a task whose Poll panicked.
type PanicError struct {
	TaskID uint64
	Value  any
	Stack  []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("executor: task %d panicked: %v", e.TaskID, e.Value)
}
