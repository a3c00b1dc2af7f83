// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor provides the readiness reactor used by the cooperative
// executor: a table of one-shot registrations mapping raw file descriptors to
// wakers, backed by epoll on Linux.
//
// A registration fires at most once. When its descriptor becomes readable
// (or reports an error or hang-up, where a read would not block), every
// registration for that descriptor is removed and its waker invoked.
// Failures of the OS readiness primitive are returned as *api.Error values
// with code api.ErrCodeInternal; callers treat them as fatal.
package reactor
