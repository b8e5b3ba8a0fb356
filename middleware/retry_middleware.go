package middleware

import (
	"context"
	"log"
	"strings"
	"time"

	"rosnode/message"
)

// RetryMiddleware re-invokes the handler with exponential backoff when
// it returns a transient-looking error, up to maxRetries times.
func RetryMiddleware(maxRetries int, baseDelay time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, call *message.Call) *message.Call {
			resp := next(ctx, call)
			for i := 0; i < maxRetries; i++ {
				if resp.Error == "" {
					return resp
				}
				if !strings.Contains(resp.Error, "timeout") && !strings.Contains(resp.Error, "unavailable") {
					return resp
				}
				log.Printf("service=%s retry=%d error=%s", call.Service, i+1, resp.Error)
				time.Sleep(baseDelay * time.Duration(1<<i))
				resp = next(ctx, call)
			}
			return resp
		}
	}
}
