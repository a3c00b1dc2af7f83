// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Low-level primitives for the cooperative executor: per-task readiness
// flags, the allocation-free waker built on top of them, and the locked
// spawn queue through which running tasks submit siblings.
package concurrency
