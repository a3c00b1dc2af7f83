// File: internal/concurrency/spawnqueue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Exclusively locked FIFO of computations waiting to join the run list.

package concurrency

import (
	"sync"

	"github.com/eapache/queue"
)

// SpawnQueue buffers newly submitted items until the executor drains them.
// The lock is held only for a single push or drain.
type SpawnQueue[T any] struct {
	mu sync.Mutex
	q  *queue.Queue
}

// NewSpawnQueue creates an empty queue.
func NewSpawnQueue[T any]() *SpawnQueue[T] {
	return &SpawnQueue[T]{q: queue.New()}
}

// Push appends v.
func (s *SpawnQueue[T]) Push(v T) {
	s.mu.Lock()
	s.q.Add(v)
	s.mu.Unlock()
}

// Len returns the number of queued items.
func (s *SpawnQueue[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.q.Length()
}

// DrainTo appends every queued item to dst in submission order and empties the queue.
func (s *SpawnQueue[T]) DrainTo(dst []T) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.q.Length() > 0 {
		dst = append(dst, s.q.Remove().(T))
	}
	return dst
}
