package pubsub

import (
	"bytes"
	"encoding/binary"
	"io"
)

func byteReader(b []byte) io.Reader { return bytes.NewReader(b) }

// testInt is a minimal Encodable/Decodable used by the engine tests:
// a single little-endian uint32.
type testInt struct {
	Value uint32
}

func (testInt) MsgDefinition() string { return "uint32 value" }
func (testInt) MD5Sum() string        { return "aabbccdd" }
func (testInt) MsgType() string       { return "test_msgs/Int" }

func (t *testInt) Encode(w io.Writer) error {
	return binary.Write(w, binary.LittleEndian, t.Value)
}

func (t *testInt) Decode(r io.Reader) error {
	return binary.Read(r, binary.LittleEndian, &t.Value)
}

func newTestInt() Decodable { return &testInt{} }
