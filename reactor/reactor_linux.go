//go:build linux
// +build linux

// File: reactor/reactor_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux epoll(7)-based reactor implementation and factory.

package reactor

import (
	"errors"
	"sync"

	"github.com/joeycumines/logiface"
	"github.com/momentics/hioload-rt/api"
	"github.com/momentics/hioload-rt/control"
	"golang.org/x/sys/unix"
)

// readable covers every condition under which a read will not block.
const readable = unix.EPOLLIN | unix.EPOLLERR | unix.EPOLLHUP | unix.EPOLLRDHUP

var _ api.Reactor = (*EpollReactor)(nil)

// EpollReactor is a level-triggered epoll reactor with one-shot registrations.
//
// The mutex is held for the duration of each operation, including the
// blocking wait; the executor is the only caller in practice.
type EpollReactor struct {
	mu      sync.Mutex
	epfd    int
	events  []unix.EpollEvent
	table   *table
	closed  bool
	fatal   error
	logger  *logiface.Logger[logiface.Event]
	metrics *control.MetricsRegistry
}

// New constructs the platform reactor for Linux.
func New(opts ...Option) (api.Reactor, error) {
	return NewEpollReactor(opts...)
}

// NewEpollReactor creates an epoll instance and an empty registration table.
func NewEpollReactor(opts ...Option) (*EpollReactor, error) {
	cfg := resolveOptions(opts)
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, osError("epoll_create1", -1, err)
	}
	return &EpollReactor{
		epfd:    epfd,
		events:  make([]unix.EpollEvent, cfg.maxEvents),
		table:   newTable(cfg.maxRegistrations, keySpace),
		logger:  cfg.logger,
		metrics: cfg.metrics,
	}, nil
}

// Register begins watching fd for readability on behalf of w.
// Registering the same fd again is allowed; all of its registrations fire together.
func (r *EpollReactor) Register(fd int, w api.Waker) (api.Key, error) {
	if fd < 0 || w == nil {
		return 0, api.ErrInvalidArgument
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, api.ErrReactorClosed
	}
	if r.table.full() {
		return 0, api.ErrResourceExhausted
	}

	key, first := r.table.insert(fd, w)
	if first {
		if err := r.watch(fd); err != nil {
			r.table.remove(key)
			if r.fatal == nil {
				r.fatal = err
			}
			r.logger.Err().Int("fd", fd).Err(err).Log("reactor register failed")
			return 0, err
		}
	}

	r.metrics.Set(MetricRegistrations, r.table.len())
	r.logger.Debug().
		Int("fd", fd).
		Uint64("key", uint64(key)).
		Bool("shared", !first).
		Log("reactor registered fd")
	return key, nil
}

// Deregister drops a live registration without firing it.
func (r *EpollReactor) Deregister(key api.Key) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return api.ErrReactorClosed
	}
	reg, last, ok := r.table.remove(key)
	if !ok {
		return api.ErrNotFound
	}
	r.metrics.Set(MetricRegistrations, r.table.len())
	if last {
		return r.unwatch(reg.fd)
	}
	return nil
}

// WaitAndFire blocks until at least one registered descriptor is readable.
// Signal interruptions are retried; any other epoll failure is returned as fatal.
func (r *EpollReactor) WaitAndFire() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, api.ErrReactorClosed
	}
	if r.table.len() == 0 {
		return 0, api.ErrNoRegistrations
	}
	r.metrics.Add(MetricWaits, 1)

	for {
		n, err := unix.EpollWait(r.epfd, r.events, -1)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			r.logger.Err().Err(err).Log("reactor wait failed")
			return 0, osError("epoll_wait", -1, err)
		}

		fired := 0
		for i := 0; i < n; i++ {
			ev := r.events[i]
			if ev.Events&readable == 0 {
				continue
			}
			fd := int(ev.Fd)
			regs := r.table.take(fd)
			if len(regs) == 0 {
				// unknown descriptor
				continue
			}
			for _, reg := range regs {
				reg.waker.WakeByRef()
				fired++
			}
			r.logger.Debug().
				Int("fd", fd).
				Int("fired", len(regs)).
				Log("reactor fd readable")
			if err := r.unwatch(fd); err != nil {
				r.publish(fired)
				return fired, err
			}
		}

		if fired > 0 {
			r.publish(fired)
			return fired, nil
		}
	}
}

// Err returns the first OS failure hit while adding a descriptor to epoll.
func (r *EpollReactor) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fatal
}

// Len reports the number of live registrations.
func (r *EpollReactor) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.table.len()
}

// Close closes the epoll instance. Pending registrations are dropped unfired.
func (r *EpollReactor) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	if dropped := r.table.clear(); len(dropped) > 0 {
		r.logger.Warning().Int("fds", len(dropped)).Log("reactor closed with live registrations")
	}
	if err := unix.Close(r.epfd); err != nil {
		return osError("close", r.epfd, err)
	}
	return nil
}

func (r *EpollReactor) publish(fired int) {
	r.metrics.Add(MetricFired, int64(fired))
	r.metrics.Set(MetricRegistrations, r.table.len())
}

func (r *EpollReactor) watch(fd int) error {
	ev := unix.EpollEvent{Events: unix.EPOLLIN | unix.EPOLLRDHUP, Fd: int32(fd)}
	err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_ADD, fd, &ev)
	if errors.Is(err, unix.EEXIST) {
		err = unix.EpollCtl(r.epfd, unix.EPOLL_CTL_MOD, fd, &ev)
	}
	if err != nil {
		return osError("epoll_ctl add", fd, err)
	}
	return nil
}

// unwatch tolerates descriptors the kernel already forgot, e.g. closed ones.
func (r *EpollReactor) unwatch(fd int) error {
	err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_DEL, fd, nil)
	if err == nil || errors.Is(err, unix.ENOENT) || errors.Is(err, unix.EBADF) {
		return nil
	}
	r.logger.Err().Int("fd", fd).Err(err).Log("reactor unwatch failed")
	return osError("epoll_ctl del", fd, err)
}

func osError(op string, fd int, err error) error {
	e := api.NewError(api.ErrCodeInternal, "reactor: "+op).WithCause(err)
	if fd >= 0 {
		e.WithContext("fd", fd)
	}
	return e
}
