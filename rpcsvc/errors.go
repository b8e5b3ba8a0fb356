// Package rpcsvc implements the service request/response engine: a
// reflection-dispatched server (grounded on the teacher's
// reflect.Method-based service registry) and a client that performs
// the §5 "service data phase" handshake and call over a TCP
// connection, optionally kept persistent across calls.
package rpcsvc

import "fmt"

// CallError is returned when a service call completes but the server
// reports application-level failure (the data-phase result flag is 0).
type CallError struct {
	Service string
	Message string
}

func (e *CallError) Error() string {
	return fmt.Sprintf("service call to %q failed: %s", e.Service, e.Message)
}
