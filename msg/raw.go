package msg

import "io"

// Message is the minimal identity contract the wire and pubsub layers
// need from anything they can publish, subscribe to, or call as a
// service: its textual definition, content hash, and type name.
type Message interface {
	MsgDefinition() string
	MD5Sum() string
	MsgType() string
}

// RawMessage carries an already-encoded message body verbatim, without
// any knowledge of its field structure. Its wildcard identity ("*" for
// both md5sum and type) tells the receiving side to accept whatever the
// publisher declares, matching original_source's raw_message.rs.
type RawMessage struct {
	Data []byte
}

func (RawMessage) MsgDefinition() string { return "*" }
func (RawMessage) MD5Sum() string        { return "*" }
func (RawMessage) MsgType() string       { return "*" }

// Encode writes the raw bytes verbatim; there is no length prefix here,
// the pub/sub data-phase framing (wire.WriteFrame) supplies one.
func (m RawMessage) Encode(w io.Writer) error {
	_, err := w.Write(m.Data)
	return err
}

// Decode reads m.Data from the remainder of r.
func (m *RawMessage) Decode(r io.Reader) error {
	buf, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.Data = buf
	return nil
}

// RawSubMessage is RawMessage's subscriber-side counterpart: a handle
// used to subscribe to a topic under any type, without committing to a
// concrete message description up front (original_source's
// raw_sub_message.rs). It carries the peer's declared type and md5sum
// alongside the raw bytes, since a wildcard subscriber only learns the
// real type once the publisher's connection header arrives.
type RawSubMessage struct {
	Data       []byte
	PeerType   string
	PeerMD5Sum string
}

func (RawSubMessage) MsgDefinition() string { return "*" }
func (RawSubMessage) MD5Sum() string        { return "*" }
func (RawSubMessage) MsgType() string       { return "*" }

func (m RawSubMessage) Encode(w io.Writer) error {
	_, err := w.Write(m.Data)
	return err
}

func (m *RawSubMessage) Decode(r io.Reader) error {
	buf, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.Data = buf
	return nil
}
