package middleware

import (
	"context"
	"log"
	"time"

	"rosnode/message"
)

// LoggingMiddleware logs the service name, duration, and any error for
// each call.
func LoggingMiddleware() Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, call *message.Call) *message.Call {
			start := time.Now()
			resp := next(ctx, call)
			log.Printf("service=%s duration=%s", call.Service, time.Since(start))
			if resp.Error != "" {
				log.Printf("service=%s error=%s", call.Service, resp.Error)
			}
			return resp
		}
	}
}
