// Package api
// Author: momentics
//
// Executor contract for cooperative task execution.

package api

// Spawner accepts new sibling computations while an executor is running.
type Spawner interface {
	// AddFuture enqueues f; it is admitted to the run list on the next loop iteration.
	AddFuture(f Future) error
}

// Executor drives futures to completion on the calling goroutine.
type Executor interface {
	Spawner

	// Run blocks until every submitted future, including those spawned
	// while running, has completed.
	Run(initial ...Future) error
}
