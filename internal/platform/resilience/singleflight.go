package resilience

import "sync"

// SingleFlight collapses concurrent calls for the same key into a single
// execution. The zero value is ready to use.
type SingleFlight struct {
	mu       sync.Mutex
	inflight map[string]*flightCall
}

type flightCall struct {
	wg  sync.WaitGroup
	val any
	err error
}

// Do runs fn once per key at a time. Callers that arrive while an execution
// is in flight wait for it and receive the same result; shared reports
// whether the result came from another caller's execution.
func (f *SingleFlight) Do(key string, fn func() (any, error)) (val any, err error, shared bool) {
	f.mu.Lock()
	if f.inflight == nil {
		f.inflight = make(map[string]*flightCall)
	}

	if c, ok := f.inflight[key]; ok {
		f.mu.Unlock()
		c.wg.Wait()
		return c.val, c.err, true
	}

	c := &flightCall{}
	c.wg.Add(1)
	f.inflight[key] = c
	f.mu.Unlock()

	c.val, c.err = fn()
	c.wg.Done()

	f.mu.Lock()
	delete(f.inflight, key)
	f.mu.Unlock()

	return c.val, c.err, false
}
