package rostime

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"rosnode/msg"
)

// Rate holds a steady call frequency across repeated Sleep calls,
// compressing the wait when one iteration runs long so occasional slow
// cycles don't accumulate into permanent drift (§6).
//
// Against WallClock it's backed by golang.org/x/time/rate's token
// bucket (burst 1, so at most one "catch-up" tick is ever owed);
// against a simulated clock, which x/time/rate cannot drive, it tracks
// the next due tick itself and waits on the clock's change
// notifications.
type Rate struct {
	clock   Clock
	period  msg.Duration
	limiter *rate.Limiter
	next    msg.Time
}

// NewRate returns a Rate ticking at hz cycles per second against clock.
func NewRate(clock Clock, hz float64) *Rate {
	period := msg.DurationFromNanos(int64(float64(time.Second) / hz))
	r := &Rate{clock: clock, period: period}
	if _, wall := clock.(WallClock); wall {
		r.limiter = rate.NewLimiter(rate.Limit(hz), 1)
		// A new limiter starts with its burst token available; spend it
		// so the first Sleep waits one period, as on a simulated clock.
		r.limiter.Allow()
	} else {
		r.next = clock.Now().Add(period)
	}
	return r
}

// Sleep blocks until the next tick is due, or ctx is done.
func (r *Rate) Sleep(ctx context.Context) error {
	if r.limiter != nil {
		return r.sleepWall(ctx)
	}
	return r.sleepSimulated(ctx)
}

func (r *Rate) sleepWall(ctx context.Context) error {
	reservation := r.limiter.Reserve()
	if !reservation.OK() {
		return fmt.Errorf("rostime: rate cannot be satisfied")
	}
	delay := reservation.Delay()
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		reservation.Cancel()
		return ctx.Err()
	}
}

func (r *Rate) sleepSimulated(ctx context.Context) error {
	for {
		now := r.clock.Now()
		if now.Nanos() >= r.next.Nanos() {
			// Advance by one period; if we're more than a full period
			// behind, resync to now instead of trying to catch up tick
			// by tick.
			r.next = r.next.Add(r.period)
			if r.next.Nanos() < now.Nanos() {
				r.next = now.Add(r.period)
			}
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.clock.Notify():
		}
	}
}
