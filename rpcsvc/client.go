package rpcsvc

import (
	"bytes"
	"net"
	"sync"

	"rosnode/wire"
)

// Client is the service-caller side of a service. When Persistent, one
// TCP connection is dialed on first use and reused by every
// subsequent Call; otherwise each Call dials, performs the full
// handshake, and closes — matching rosrpc's non-persistent default.
type Client struct {
	Name       string
	Identity   Identity
	CallerID   string
	Persistent bool

	mu   sync.Mutex
	conn net.Conn
}

// NewClient returns a Client for the named service.
func NewClient(name string, identity Identity, callerID string, persistent bool) *Client {
	return &Client{Name: name, Identity: identity, CallerID: callerID, Persistent: persistent}
}

func (c *Client) connect(addr string, probe bool) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return &wire.ServiceConnectionFailError{Service: c.Name, Err: err}
	}
	req := wire.Header{
		{Name: "service", Value: c.Name},
		{Name: "md5sum", Value: c.Identity.MD5Sum()},
		{Name: "message_definition", Value: c.Identity.MsgDefinition()},
		{Name: "callerid", Value: c.CallerID},
	}
	if c.Persistent {
		req = append(req, wire.Field{Name: "persistent", Value: "1"})
	}
	if probe {
		req = append(req, wire.Field{Name: "probe", Value: "1"})
	}
	if err := wire.WriteHeader(conn, req); err != nil {
		conn.Close()
		return &wire.ServiceConnectionFailError{Service: c.Name, Err: err}
	}
	if _, err := wire.ReadHeader(conn); err != nil {
		conn.Close()
		return &wire.ServiceConnectionFailError{Service: c.Name, Err: err}
	}
	c.conn = conn
	return nil
}

// Call sends req over addr (dialing fresh unless a persistent
// connection is already open) and decodes the response into resp.
// A CallError reports an application-level failure reported by the
// server; any other error is a transport failure.
func (c *Client) Call(addr string, req Encodable, resp Decodable) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil || !c.Persistent {
		if c.conn != nil {
			c.conn.Close()
			c.conn = nil
		}
		if err := c.connect(addr, false); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	if err := req.Encode(&buf); err != nil {
		return err
	}
	if err := wire.WriteFrame(c.conn, buf.Bytes()); err != nil {
		c.conn.Close()
		c.conn = nil
		return &wire.ServiceConnectionFailError{Service: c.Name, Err: err}
	}

	ok, body, err := wire.ReadServiceResult(c.conn, c.Name)
	if err != nil {
		c.conn.Close()
		c.conn = nil
		return err
	}
	if !c.Persistent {
		c.conn.Close()
		c.conn = nil
	}
	if !ok {
		return &CallError{Service: c.Name, Message: string(body)}
	}
	return resp.Decode(bytes.NewReader(body))
}

// Close closes any open persistent connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// Probe dials addr, performs the service handshake with probe=1 (so
// the server closes right back rather than waiting for a request),
// and closes the connection — used to wait for a service to become
// available before calling it.
func Probe(addr, name string, identity Identity, callerID string) error {
	c := NewClient(name, identity, callerID, false)
	if err := c.connect(addr, true); err != nil {
		return err
	}
	return c.Close()
}
