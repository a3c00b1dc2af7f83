// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package fake

import (
	"errors"
	"sort"
	"sync"

	"github.com/momentics/hioload-rt/api"
)

// ErrWouldBlock is returned by WaitAndFire when no registered descriptor is
// readable, where a real reactor would block forever.
var ErrWouldBlock = errors.New("fake: wait would block forever")

var _ api.Reactor = (*FakeReactor)(nil)

type fakeReg struct {
	key   api.Key
	fd    int
	waker api.Waker
}

// FakeReactor is a deterministic, in-memory api.Reactor.
//
// Descriptors are plain integers whose readability is set by the test with
// SetReadable. Readability is level state: it stays set until cleared, just
// like an unread pipe, while registrations remain one-shot.
type FakeReactor struct {
	// OnWait, if set, runs at the start of every WaitAndFire, outside the
	// reactor lock. Tests use it to make descriptors readable "while blocked".
	OnWait func(r *FakeReactor)

	mu       sync.Mutex
	regs     map[api.Key]fakeReg
	readable map[int]bool
	next     api.Key
	waits    int
	fired    int
	closed   bool
	regErr   error
	fatal    error
}

// NewFakeReactor returns an empty fake reactor.
func NewFakeReactor() *FakeReactor {
	return &FakeReactor{
		regs:     make(map[api.Key]fakeReg),
		readable: make(map[int]bool),
	}
}

// Register records a registration for fd.
func (f *FakeReactor) Register(fd int, w api.Waker) (api.Key, error) {
	if fd < 0 || w == nil {
		return 0, api.ErrInvalidArgument
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0, api.ErrReactorClosed
	}
	if f.regErr != nil {
		if api.IsFatal(f.regErr) && f.fatal == nil {
			f.fatal = f.regErr
		}
		return 0, f.regErr
	}
	key := f.next
	f.next++
	f.regs[key] = fakeReg{key: key, fd: fd, waker: w}
	return key, nil
}

// Deregister drops a registration without firing it.
func (f *FakeReactor) Deregister(key api.Key) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return api.ErrReactorClosed
	}
	if _, ok := f.regs[key]; !ok {
		return api.ErrNotFound
	}
	delete(f.regs, key)
	return nil
}

// WaitAndFire fires, in key order, every registration whose fd is readable.
func (f *FakeReactor) WaitAndFire() (int, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return 0, api.ErrReactorClosed
	}
	if len(f.regs) == 0 {
		f.mu.Unlock()
		return 0, api.ErrNoRegistrations
	}
	f.waits++
	hook := f.OnWait
	f.mu.Unlock()

	if hook != nil {
		hook(f)
	}

	f.mu.Lock()
	var ready []fakeReg
	for k, reg := range f.regs {
		if f.readable[reg.fd] {
			ready = append(ready, reg)
			delete(f.regs, k)
		}
	}
	f.fired += len(ready)
	f.mu.Unlock()

	if len(ready) == 0 {
		return 0, ErrWouldBlock
	}
	sort.Slice(ready, func(i, j int) bool { return ready[i].key < ready[j].key })
	for _, reg := range ready {
		reg.waker.WakeByRef()
	}
	return len(ready), nil
}

// Err returns the first fatal error Register returned.
func (f *FakeReactor) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fatal
}

// SetRegisterError makes every later Register fail with err; nil restores
// normal behavior. Fatal errors are recorded for Err like a real reactor.
func (f *FakeReactor) SetRegisterError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regErr = err
}

// Len reports the number of live registrations.
func (f *FakeReactor) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.regs)
}

// Close drops all registrations.
func (f *FakeReactor) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.regs = make(map[api.Key]fakeReg)
	return nil
}

// SetReadable sets the readability of fd.
func (f *FakeReactor) SetReadable(fd int, readable bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if readable {
		f.readable[fd] = true
	} else {
		delete(f.readable, fd)
	}
}

// Registered reports whether fd has at least one live registration.
func (f *FakeReactor) Registered(fd int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, reg := range f.regs {
		if reg.fd == fd {
			return true
		}
	}
	return false
}

// Waits returns the number of WaitAndFire calls that reached the wait stage.
func (f *FakeReactor) Waits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.waits
}

// Fired returns the total number of wakers fired.
func (f *FakeReactor) Fired() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fired
}
