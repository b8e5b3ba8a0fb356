// Package rostime provides the node's notion of time: a wall-clock or
// simulated Clock, and a Rate helper that sleeps to hold a steady
// publish/loop frequency without drifting (§6).
package rostime

import (
	"sync"
	"time"

	"rosnode/msg"
)

// Clock reports the current time and lets callers wait for it to
// change — trivial for WallClock, essential for SimClock, which only
// advances when a /clock message arrives.
type Clock interface {
	Now() msg.Time
	// Notify returns a channel that's closed the next time Now()'s
	// value changes. WallClock returns nil, since Rate never needs it
	// there (it uses a real timer instead).
	Notify() <-chan struct{}
}

// WallClock reports the operating system's clock.
type WallClock struct{}

// Now returns the current wall-clock time.
func (WallClock) Now() msg.Time {
	return msg.TimeFromNanos(time.Now().UnixNano())
}

// Notify is unused for WallClock; Rate sleeps against a real timer
// instead of polling for clock changes.
func (WallClock) Notify() <-chan struct{} { return nil }

// SimClock is driven by an external feed (the node's subscription to
// /clock) rather than the OS clock, for log-replay and simulation.
type SimClock struct {
	mu  sync.RWMutex
	now msg.Time
	ch  chan struct{}
}

// NewSimClock returns a SimClock initialized to the zero time; call Set
// as /clock messages arrive.
func NewSimClock() *SimClock {
	return &SimClock{ch: make(chan struct{})}
}

// Now returns the most recently set simulated time.
func (c *SimClock) Now() msg.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Notify returns a channel closed the next time Set is called.
func (c *SimClock) Notify() <-chan struct{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ch
}

// Set advances the simulated clock and wakes anything waiting on
// Notify.
func (c *SimClock) Set(t msg.Time) {
	c.mu.Lock()
	c.now = t
	old := c.ch
	c.ch = make(chan struct{})
	c.mu.Unlock()
	close(old)
}
