//go:build !linux
// +build !linux

// File: reactor/reactor_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.

package reactor

import (
	"fmt"

	"github.com/momentics/hioload-rt/api"
)

// New returns an error for unsupported platforms.
func New(opts ...Option) (api.Reactor, error) {
	_ = resolveOptions(opts)
	return nil, fmt.Errorf("reactor: this platform is not supported: %w", api.ErrNotSupported)
}
