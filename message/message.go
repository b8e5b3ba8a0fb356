// Package message defines the in-process call envelope middleware
// chains operate on when wrapping a service dispatch.
package message

// Call carries one service invocation through a middleware chain: the
// resolved service name, the raw request body, and (on the way back
// out) either a response payload or an error string.
type Call struct {
	Service string
	Payload []byte
	Error   string
}
