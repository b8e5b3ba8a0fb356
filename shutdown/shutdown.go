// Package shutdown provides a single process-wide, idempotent shutdown
// signal that every blocking loop in the node (rate sleeps, connection
// handshakes, dispatcher loops) can select on, grounded on
// original_source's util/kill.rs channel-based cooperative cancellation
// — translated to Go's native idiom of closing a channel as a broadcast
// rather than porting crossbeam's bounded(0)/unbounded channel pair.
package shutdown

import "sync"

// Token is a one-shot, safe-to-call-from-anywhere shutdown signal.
type Token struct {
	mu   sync.Mutex
	ch   chan struct{}
	done bool
}

// New returns a Token that has not yet been shut down.
func New() *Token {
	return &Token{ch: make(chan struct{})}
}

// Shutdown signals shutdown. Safe to call more than once or
// concurrently; only the first call has any effect.
func (t *Token) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return
	}
	t.done = true
	close(t.ch)
}

// Done returns a channel that's closed once Shutdown has been called —
// select on it alongside any blocking operation that should abort on
// shutdown.
func (t *Token) Done() <-chan struct{} {
	return t.ch
}

// IsShutdown reports whether Shutdown has been called, without blocking.
func (t *Token) IsShutdown() bool {
	select {
	case <-t.ch:
		return true
	default:
		return false
	}
}
