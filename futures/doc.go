// Package futures provides ready-made api.Future implementations and
// combinators for the cooperative executor.
//
// Futures returned here are single-use: once one reports Done it must not be
// polled again.
package futures
