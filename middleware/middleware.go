// Package middleware implements an onion-model chain around a service
// dispatch: logging, timeouts and rate limiting wrap the handler
// without the handler itself knowing they're there.
//
// Onion model execution order:
//
//	Chain(A, B, C)(handler)  →  A(B(C(handler)))
//
//	Request:   A.before → B.before → C.before → handler
//	Response:  handler → C.after → B.after → A.after
package middleware

import (
	"context"

	"rosnode/message"
)

// HandlerFunc dispatches one service call.
type HandlerFunc func(ctx context.Context, call *message.Call) *message.Call

// Middleware wraps a HandlerFunc with additional behavior.
type Middleware func(next HandlerFunc) HandlerFunc

// Chain composes middlewares so the first one is outermost: executed
// first on the way in, last on the way out.
func Chain(middlewares ...Middleware) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}
