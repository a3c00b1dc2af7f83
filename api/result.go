// Package api
// Author: momentics@gmail.com
//
// Generic result and error propagation.

package api

// Result wraps any payload or error, used as the output of futures that may fail.
type Result[T any] struct {
	Value T
	Err   error
}
