package photosync

import "sync"

// opGuard ensures at most one run of an operation is in flight. A second
// caller gets a conflict error instead of queueing behind the first.
type opGuard struct {
	op      string
	mu      sync.Mutex
	running bool
}

func newOpGuard(op string) *opGuard {
	return &opGuard{op: op}
}

// acquire claims the guard, or reports a conflict if a run is in flight
func (g *opGuard) acquire() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		return &ConcurrencyConflictError{Op: g.op}
	}
	g.running = true
	return nil
}

// release frees the guard for the next run
func (g *opGuard) release() {
	g.mu.Lock()
	g.running = false
	g.mu.Unlock()
}
