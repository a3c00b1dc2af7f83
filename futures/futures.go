// File: futures/futures.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package futures

import (
	"github.com/momentics/hioload-rt/api"
)

// Ready returns a future that completes with v on its first poll.
func Ready(v any) api.Future {
	return api.FutureFunc(func(api.Waker) api.PollResult {
		return api.Ready(v)
	})
}

// Lazy returns a future that calls fn on its first poll and completes with the result.
func Lazy(fn func() any) api.Future {
	return api.FutureFunc(func(api.Waker) api.PollResult {
		return api.Ready(fn())
	})
}

// Yield returns a future that gives the other ready tasks one sweep before
// completing. It wakes itself, so the executor does not block in the reactor.
func Yield() api.Future {
	yielded := false
	return api.FutureFunc(func(w api.Waker) api.PollResult {
		if yielded {
			return api.Ready(nil)
		}
		yielded = true
		w.WakeByRef()
		return api.Pending()
	})
}

type then struct {
	first  api.Future
	next   func(any) api.Future
	second api.Future
}

// Then runs f, passes its output to next, and then runs the future next
// returns, completing with that future's output. A nil future from next
// completes immediately with nil.
func Then(f api.Future, next func(any) api.Future) api.Future {
	return &then{first: f, next: next}
}

func (t *then) Poll(w api.Waker) api.PollResult {
	if t.second == nil {
		res := t.first.Poll(w)
		if !res.Done {
			return res
		}
		t.first = nil
		t.second = t.next(res.Value)
		if t.second == nil {
			return api.Ready(nil)
		}
	}
	return t.second.Poll(w)
}

// Map runs f and completes with fn applied to its output.
func Map(f api.Future, fn func(any) any) api.Future {
	return Then(f, func(v any) api.Future {
		return Ready(fn(v))
	})
}

// Spawn returns a future that submits f to s and completes with the
// submission error, if any.
func Spawn(s api.Spawner, f api.Future) api.Future {
	return Lazy(func() any {
		return s.AddFuture(f)
	})
}
