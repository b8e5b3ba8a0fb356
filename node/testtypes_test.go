package node

import (
	"encoding/binary"
	"errors"
	"io"

	"rosnode/pubsub"
)

type stringIdentity struct{}

func (stringIdentity) MsgDefinition() string { return "string data" }
func (stringIdentity) MD5Sum() string        { return "992ce8a1687cec8c8bd883ec73ca41d1" }
func (stringIdentity) MsgType() string       { return "std_msgs/String" }

type stringMsg struct {
	stringIdentity
	Data string
}

func (m *stringMsg) Encode(w io.Writer) error {
	b := []byte(m.Data)
	if err := binary.Write(w, binary.LittleEndian, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func (m *stringMsg) Decode(r io.Reader) error {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return err
	}
	m.Data = string(b)
	return nil
}

func newStringMsg() pubsub.Decodable { return &stringMsg{} }

type addTwoIntsIdentity struct{}

func (addTwoIntsIdentity) MsgDefinition() string { return "int64 a\nint64 b\n---\nint64 sum" }
func (addTwoIntsIdentity) MD5Sum() string        { return "6a2e34150c00229791cc89ff309fff21" }
func (addTwoIntsIdentity) MsgType() string       { return "test_srvs/AddTwoInts" }

type addTwoIntsRequest struct {
	A, B int64
}

func (r *addTwoIntsRequest) Encode(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, r.A); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, r.B)
}

func (r *addTwoIntsRequest) Decode(rd io.Reader) error {
	if err := binary.Read(rd, binary.LittleEndian, &r.A); err != nil {
		return err
	}
	return binary.Read(rd, binary.LittleEndian, &r.B)
}

type addTwoIntsResponse struct {
	Sum int64
}

func (r *addTwoIntsResponse) Encode(w io.Writer) error {
	return binary.Write(w, binary.LittleEndian, r.Sum)
}

func (r *addTwoIntsResponse) Decode(rd io.Reader) error {
	return binary.Read(rd, binary.LittleEndian, &r.Sum)
}

func addTwoInts(req *addTwoIntsRequest) (*addTwoIntsResponse, error) {
	if req.A == 0 && req.B == 0 {
		return nil, errors.New("refusing to add two zeroes")
	}
	return &addTwoIntsResponse{Sum: req.A + req.B}, nil
}
