// File: facade/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Immutable runtime configuration and logger construction.

package facade

import (
	"io"
	"os"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"github.com/momentics/hioload-rt/reactor"
)

// Config holds parameters immutable per runtime.
type Config struct {
	Name             string         // Executor name attached to every log line
	MaxEvents        int            // Readiness events collected per reactor wait
	MaxRegistrations int            // Cap on simultaneously live registrations
	LogLevel         logiface.Level // Minimum level written to LogOutput
	LogOutput        io.Writer      // Destination for JSON log lines; nil disables logging
	EnableMetrics    bool           // Whether to publish executor and reactor metrics
	EnableDebug      bool           // Whether to register debug probes
}

// DefaultConfig returns default configuration values.
func DefaultConfig() *Config {
	return &Config{
		Name:             "hioload-rt",
		MaxEvents:        reactor.DefaultMaxEvents,
		MaxRegistrations: reactor.DefaultMaxRegistrations,
		LogLevel:         logiface.LevelWarning,
		LogOutput:        os.Stderr,
		EnableMetrics:    true,
		EnableDebug:      true,
	}
}

// NewLogger returns a JSON logger writing to w at the given level.
// A nil writer returns a nil logger, which discards everything.
func NewLogger(w io.Writer, level logiface.Level) *logiface.Logger[logiface.Event] {
	if w == nil {
		return nil
	}
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w)),
		stumpy.L.WithLevel(level),
	).Logger()
}
