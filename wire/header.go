package wire

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"
)

// Field is one "name=value" connection-header entry. Headers are encoded
// as an ordered sequence (not a map) so a caller that cares about wire
// byte-for-byte reproducibility controls the order; nothing in the
// protocol otherwise assigns meaning to field order.
type Field struct {
	Name  string
	Value string
}

// Header is an ordered list of connection-header fields, plus lookup by
// name the way most callers want to use it.
type Header []Field

// Get returns the value of the named field and whether it was present.
func (h Header) Get(name string) (string, bool) {
	for _, f := range h {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Map renders the header as a name -> value map.
func (h Header) Map() map[string]string {
	m := make(map[string]string, len(h))
	for _, f := range h {
		m[f.Name] = f.Value
	}
	return m
}

// WriteHeader writes a connection header: a little-endian uint32 total
// byte length, followed by each field encoded as a little-endian uint32
// length followed by the UTF-8 bytes of "name=value" (§4.2).
func WriteHeader(w io.Writer, h Header) error {
	var body bytes.Buffer
	for _, f := range h {
		entry := f.Name + "=" + f.Value
		if err := binary.Write(&body, binary.LittleEndian, uint32(len(entry))); err != nil {
			return err
		}
		if _, err := body.WriteString(entry); err != nil {
			return err
		}
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(body.Len())); err != nil {
		return err
	}
	_, err := w.Write(body.Bytes())
	return err
}

// ReadHeader reads a connection header written by WriteHeader.
func ReadHeader(r io.Reader) (Header, error) {
	var total uint32
	if err := binary.Read(r, binary.LittleEndian, &total); err != nil {
		return nil, err
	}
	body := make([]byte, total)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	br := bytes.NewReader(body)

	var fields Header
	for br.Len() > 0 {
		var n uint32
		if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
			return nil, err
		}
		entry := make([]byte, n)
		if _, err := io.ReadFull(br, entry); err != nil {
			return nil, err
		}
		name, value, ok := strings.Cut(string(entry), "=")
		if !ok {
			return nil, &HeaderMismatchError{Field: "?", Expected: "name=value", Actual: string(entry)}
		}
		fields = append(fields, Field{Name: name, Value: value})
	}
	return fields, nil
}

// RequireField fetches a required field, returning HeaderMissingFieldError
// if it's absent.
func RequireField(h Header, name string) (string, error) {
	v, ok := h.Get(name)
	if !ok {
		return "", &HeaderMissingFieldError{Field: name}
	}
	return v, nil
}

// CheckField verifies that h's named field equals want, tolerating ROS's
// "*" wildcard on either side, and reports HeaderMissingFieldError or
// HeaderMismatchError otherwise.
func CheckField(h Header, name, want string) error {
	got, err := RequireField(h, name)
	if err != nil {
		return err
	}
	if got == want || got == "*" || want == "*" {
		return nil
	}
	return &HeaderMismatchError{Field: name, Expected: want, Actual: got}
}
