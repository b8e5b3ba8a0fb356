package rpcsvc

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
)

// Identity is a service type's self-description: its wire type name
// and content hash (or "*" for the wildcard/raw forms).
type Identity interface {
	MsgDefinition() string
	MD5Sum() string
	MsgType() string
}

// Decodable is a request type a Server can materialize from the wire.
type Decodable interface {
	Decode(r io.Reader) error
}

// Encodable is a response type a Server can serialize onto the wire.
type Encodable interface {
	Encode(w io.Writer) error
}

var (
	errorType     = reflect.TypeOf((*error)(nil)).Elem()
	decodableType = reflect.TypeOf((*Decodable)(nil)).Elem()
	encodableType = reflect.TypeOf((*Encodable)(nil)).Elem()
)

// serviceMethod holds the reflection metadata for a validated handler
// function, mirroring the original's methodType: a scan of the
// handler's signature once at registration time so every call
// dispatches without re-validating (grounded on the teacher's
// RegisterMethods/Call split in server/service.go).
type serviceMethod struct {
	fn       reflect.Value
	reqType  reflect.Type // element type, e.g. AddTwoIntsRequest
	respType reflect.Type
}

// newServiceMethod validates that handler has the shape
// func(*Request) (*Response, error), where *Request implements
// Decodable and *Response implements Encodable.
func newServiceMethod(handler any) (*serviceMethod, error) {
	v := reflect.ValueOf(handler)
	t := v.Type()
	if t.Kind() != reflect.Func {
		return nil, fmt.Errorf("rpcsvc: handler must be a function, got %s", t.Kind())
	}
	if t.NumIn() != 1 || t.NumOut() != 2 {
		return nil, fmt.Errorf("rpcsvc: handler must have signature func(*Request) (*Response, error)")
	}
	reqPtrType, respPtrType := t.In(0), t.Out(0)
	if reqPtrType.Kind() != reflect.Ptr || respPtrType.Kind() != reflect.Ptr {
		return nil, fmt.Errorf("rpcsvc: request and response must be pointer types")
	}
	if t.Out(1) != errorType {
		return nil, fmt.Errorf("rpcsvc: second return value must be error")
	}
	if !reqPtrType.Implements(decodableType) {
		return nil, fmt.Errorf("rpcsvc: request type %s must implement Decodable", reqPtrType)
	}
	if !respPtrType.Implements(encodableType) {
		return nil, fmt.Errorf("rpcsvc: response type %s must implement Encodable", respPtrType)
	}
	return &serviceMethod{fn: v, reqType: reqPtrType.Elem(), respType: respPtrType.Elem()}, nil
}

// call decodes one request body, invokes the handler, and encodes the
// response. decodeErr is set on malformed request bytes; callErr is
// set when the handler itself returns a non-nil error; both are
// reported to the peer the same way, as data-phase failures.
func (m *serviceMethod) call(body []byte) (response []byte, callErr, decodeErr error) {
	reqPtr := reflect.New(m.reqType)
	if err := reqPtr.Interface().(Decodable).Decode(bytes.NewReader(body)); err != nil {
		return nil, nil, err
	}
	results := m.fn.Call([]reflect.Value{reqPtr})
	if !results[1].IsNil() {
		return nil, results[1].Interface().(error), nil
	}
	var buf bytes.Buffer
	if err := results[0].Interface().(Encodable).Encode(&buf); err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), nil, nil
}
