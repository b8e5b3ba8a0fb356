package wire

import (
	"encoding/binary"
	"io"
)

// WriteFrame writes one length-prefixed data-phase frame: a little-endian
// uint32 byte count followed by the payload (§5 "pub/sub data phase").
// Both the topic data stream and the service request stream use this
// framing for each message/request body.
func WriteFrame(w io.Writer, payload []byte) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(payload))); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// ReadFrame reads one length-prefixed frame written by WriteFrame.
func ReadFrame(r io.Reader) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// WriteServiceResult writes a service's data-phase response: a single
// result-flag byte (1 success, 0 failure) followed by a length-prefixed
// body — the success payload on ok, or the UTF-8 error string on failure
// (§5 "service data phase").
func WriteServiceResult(w io.Writer, ok bool, body []byte) error {
	var flag byte
	if ok {
		flag = 1
	}
	if _, err := w.Write([]byte{flag}); err != nil {
		return err
	}
	return WriteFrame(w, body)
}

// ReadServiceResult reads a service response written by WriteServiceResult.
// serviceName is used only to label errors.
func ReadServiceResult(r io.Reader, serviceName string) (ok bool, body []byte, err error) {
	var flag [1]byte
	if _, err := io.ReadFull(r, flag[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return false, nil, &ServiceResponseInterruptedError{Service: serviceName}
		}
		return false, nil, err
	}
	switch flag[0] {
	case 0:
		body, err = ReadFrame(r)
		return false, body, err
	case 1:
		body, err = ReadFrame(r)
		return true, body, err
	default:
		return false, nil, &ServiceResponseUnknownError{Service: serviceName, Flag: flag[0]}
	}
}
