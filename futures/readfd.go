//go:build unix

// File: futures/readfd.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package futures

import (
	"errors"
	"io"

	"github.com/momentics/hioload-rt/api"
	"golang.org/x/sys/unix"
)

type readFD struct {
	reactor api.Reactor
	fd      int
	buf     []byte
	started bool
}

// ReadFD returns a future that performs one read of up to size bytes from fd
// once it is readable. Its output is an api.Result[[]byte]; end of file is
// reported as io.EOF.
//
// The first poll only registers interest, it never reads. Spurious wakes
// (EAGAIN) re-register and stay pending. Non-fatal registration errors, such
// as api.ErrReactorClosed, become the output; fatal ones leave the future
// pending for the executor to abort on.
func ReadFD(r api.Reactor, fd int, size int) api.Future {
	if size <= 0 {
		size = 1
	}
	return &readFD{reactor: r, fd: fd, buf: make([]byte, size)}
}

func (f *readFD) Poll(w api.Waker) api.PollResult {
	if f.started {
		n, err := unix.Read(f.fd, f.buf)
		switch {
		case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EINTR):
		case err != nil:
			return api.Ready(api.Result[[]byte]{Err: err})
		case n == 0:
			return api.Ready(api.Result[[]byte]{Err: io.EOF})
		default:
			return api.Ready(api.Result[[]byte]{Value: f.buf[:n:n]})
		}
	}
	f.started = true
	if _, err := f.reactor.Register(f.fd, w.Clone()); err != nil {
		if api.IsFatal(err) {
			// the reactor reports it through Err and the executor aborts
			return api.Pending()
		}
		return api.Ready(api.Result[[]byte]{Err: err})
	}
	return api.Pending()
}
