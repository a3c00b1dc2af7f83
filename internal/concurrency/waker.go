// File: internal/concurrency/waker.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Waker factory: builds cloneable handles bound to a single Flag.

package concurrency

import "github.com/momentics/hioload-rt/api"

// flagWaker is pointer-shaped, so boxing it in api.Waker does not allocate.
type flagWaker struct {
	flag *Flag
}

// NewWaker returns a waker that sets flag when invoked.
func NewWaker(flag *Flag) api.Waker {
	return flagWaker{flag: flag}
}

func (w flagWaker) WakeByRef() { w.flag.Set() }

func (w flagWaker) Wake() { w.flag.Set() }

func (w flagWaker) Clone() api.Waker { return w }

// SameTarget reports whether a and b were built from the same Flag.
func SameTarget(a, b api.Waker) bool {
	fa, ok := a.(flagWaker)
	if !ok {
		return false
	}
	fb, ok := b.(flagWaker)
	return ok && fa.flag == fb.flag
}
