package middleware

import (
	"context"

	"golang.org/x/time/rate"

	"rosnode/message"
)

// RateLimitMiddleware rejects calls once the token bucket (refill rate
// r per second, burst capacity burst) runs dry. The limiter is built
// once per middleware, shared across every call through it.
func RateLimitMiddleware(r float64, burst int) Middleware {
	limiter := rate.NewLimiter(rate.Limit(r), burst)
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, call *message.Call) *message.Call {
			if !limiter.Allow() {
				return &message.Call{Service: call.Service, Error: "rate limit exceeded"}
			}
			return next(ctx, call)
		}
	}
}
