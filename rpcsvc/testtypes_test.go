package rpcsvc

import (
	"encoding/binary"
	"errors"
	"io"
)

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
