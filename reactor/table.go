// File: reactor/table.go
// Author: momentics <momentics@gmail.com>
//
// Registration table and key allocator shared by all reactor backends.

package reactor

import (
	"github.com/momentics/hioload-rt/api"
)

// registration is one (key, fd, waker) tuple.
type registration struct {
	key   api.Key
	fd    int
	waker api.Waker
}

// table maps keys to registrations, and descriptors to their keys in
// registration order. It is not safe for concurrent use.
type table struct {
	entries map[api.Key]registration
	byFD    map[int][]api.Key
	next    api.Key
	space   uint64
	limit   int
}

func newTable(limit int, space uint64) *table {
	return &table{
		entries: make(map[api.Key]registration),
		byFD:    make(map[int][]api.Key),
		space:   space,
		limit:   limit,
	}
}

func (t *table) len() int { return len(t.entries) }

func (t *table) full() bool {
	n := len(t.entries)
	return (t.limit > 0 && n >= t.limit) || uint64(n) >= t.space
}

// alloc scans forward from the counter, skipping keys still in use.
// The caller must check full first, otherwise the scan never terminates.
func (t *table) alloc() api.Key {
	for {
		k := t.next
		t.next = api.Key((uint64(t.next) + 1) % t.space)
		if _, used := t.entries[k]; !used {
			return k
		}
	}
}

// insert records a registration. first reports whether fd had no other
// live registration, meaning the backend must start watching it.
func (t *table) insert(fd int, w api.Waker) (key api.Key, first bool) {
	key = t.alloc()
	t.entries[key] = registration{key: key, fd: fd, waker: w}
	first = len(t.byFD[fd]) == 0
	t.byFD[fd] = append(t.byFD[fd], key)
	return key, first
}

// remove drops one registration. last reports whether its fd no longer has
// any live registration.
func (t *table) remove(key api.Key) (reg registration, last, ok bool) {
	reg, ok = t.entries[key]
	if !ok {
		return registration{}, false, false
	}
	delete(t.entries, key)
	keys := t.byFD[reg.fd]
	for i, k := range keys {
		if k == key {
			keys = append(keys[:i], keys[i+1:]...)
			break
		}
	}
	if len(keys) == 0 {
		delete(t.byFD, reg.fd)
		return reg, true, true
	}
	t.byFD[reg.fd] = keys
	return reg, false, true
}

// take removes and returns every registration for fd, oldest first.
func (t *table) take(fd int) []registration {
	keys, ok := t.byFD[fd]
	if !ok {
		return nil
	}
	delete(t.byFD, fd)
	regs := make([]registration, 0, len(keys))
	for _, k := range keys {
		regs = append(regs, t.entries[k])
		delete(t.entries, k)
	}
	return regs
}

// clear drops everything, returning the descriptors that were being watched.
func (t *table) clear() []int {
	fds := make([]int, 0, len(t.byFD))
	for fd := range t.byFD {
		fds = append(fds, fd)
	}
	t.entries = make(map[api.Key]registration)
	t.byFD = make(map[int][]api.Key)
	return fds
}
