// File: api/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Defines the abstract interface for the readiness reactor that maps raw
// file descriptors to suspended tasks.

package api

// Key identifies one live reactor registration.
type Key uint64

// Reactor watches file descriptors for readability and fires the wakers
// registered against them.
//
// Registrations are one-shot: once a descriptor becomes readable, every
// registration for it is removed and its waker fired. Callers must register
// again to be notified again.
type Reactor interface {
	// Register begins watching fd for readability on behalf of w.
	// The fd must stay open for the lifetime of the registration.
	Register(fd int, w Waker) (Key, error)

	// Deregister drops a live registration without firing it.
	Deregister(key Key) error

	// WaitAndFire blocks until at least one registered descriptor is
	// readable, then removes and fires the matching registrations.
	// It returns the number of wakers fired.
	WaitAndFire() (int, error)

	// Err returns the first fatal failure Register hit, or nil. Once set
	// the reactor cannot be trusted to fire every waker it accepted, and
	// the executor aborts.
	Err() error

	// Len reports the number of live registrations.
	Len() int

	// Close releases the underlying polling backend.
	Close() error
}
