package middleware

import (
	"context"
	"time"

	"rosnode/message"
)

// TimeoutMiddleware bounds how long the handler may run. The handler
// goroutine is not cancelled when the timeout fires; it keeps running
// in the background and its result is discarded.
func TimeoutMiddleware(timeout time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, call *message.Call) *message.Call {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			done := make(chan *message.Call, 1)
			go func() {
				done <- next(ctx, call)
			}()

			select {
			case resp := <-done:
				return resp
			case <-ctx.Done():
				return &message.Call{Service: call.Service, Error: "request timed out"}
			}
		}
	}
}
