// Package master is a typed client for the ROS coordinator's XML-RPC
// API: publisher/subscriber/service registration and the parameter
// server (§2).
package master

import "fmt"

// CoordinatorError reports a non-success [code, message, _] envelope
// returned by the coordinator for a given API method.
type CoordinatorError struct {
	Method  string
	Code    int
	Message string
}

func (e *CoordinatorError) Error() string {
	return fmt.Sprintf("coordinator rejected %s: %s (code %d)", e.Method, e.Message, e.Code)
}
