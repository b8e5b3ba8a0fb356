package pubsub

import (
	"bytes"
	"fmt"
	"net"
	"sync"

	"rosnode/shutdown"
	"rosnode/wire"
)

// subscriberConn is one accepted subscriber connection held open for
// the topic data phase.
type subscriberConn struct {
	id       int
	conn     net.Conn
	callerID string
}

// Publication is the publisher side of a topic: it accepts subscriber
// connections, performs the header handshake, replays the last
// message to new subscribers when latched, and fans out every
// published message to every live subscriber, dropping any whose
// write fails (grounded on the original's streamfork: write to every
// target, drop the ones whose write errors).
type Publication struct {
	Topic    string
	Identity Identity
	CallerID string
	Latched  bool

	mu         sync.Mutex
	subs       map[int]*subscriberConn
	nextID     int
	lastBytes  []byte
	hasLast    bool
	msgCount   uint64
	byteCount  uint64
	listener   net.Listener
	publishCh  chan []byte
	addSubCh   chan *subscriberConn
	shutdownCh *shutdown.Token
}

// NewPublication creates a Publication for topic. identity describes
// the message type being published; if latched, the most recent
// message is replayed to every subscriber as soon as it connects.
func NewPublication(topic string, identity Identity, callerID string, latched bool) *Publication {
	p := &Publication{
		Topic:      topic,
		Identity:   identity,
		CallerID:   callerID,
		Latched:    latched,
		subs:       make(map[int]*subscriberConn),
		publishCh:  make(chan []byte, 8),
		addSubCh:   make(chan *subscriberConn, 8),
		shutdownCh: shutdown.New(),
	}
	go p.forkLoop()
	return p
}

// Publish encodes msg and fans it out to every current subscriber.
func (p *Publication) Publish(msg Encodable) error {
	var buf bytes.Buffer
	if err := msg.Encode(&buf); err != nil {
		return err
	}
	payload := buf.Bytes()

	if p.Latched {
		p.mu.Lock()
		p.lastBytes = payload
		p.hasLast = true
		p.mu.Unlock()
	}

	select {
	case p.publishCh <- payload:
	case <-p.shutdownCh.Done():
	}
	return nil
}

// forkLoop is the single writer goroutine: it owns the subscriber set
// so Publish and Accept never race over socket writes, and it drops
// any subscriber whose write fails. Writes carry no deadline, so a
// slow peer holds up the fan-out until its write completes or fails.
func (p *Publication) forkLoop() {
	for {
		// Drain any newly accepted subscribers before handling data so
		// a burst of new connections doesn't miss the next message.
		for drained := true; drained; {
			select {
			case s := <-p.addSubCh:
				p.mu.Lock()
				p.subs[s.id] = s
				p.mu.Unlock()
			default:
				drained = false
			}
		}

		select {
		case <-p.shutdownCh.Done():
			p.mu.Lock()
			for _, s := range p.subs {
				s.conn.Close()
			}
			p.subs = map[int]*subscriberConn{}
			p.mu.Unlock()
			return
		case s := <-p.addSubCh:
			p.mu.Lock()
			p.subs[s.id] = s
			p.mu.Unlock()
		case payload := <-p.publishCh:
			p.mu.Lock()
			for id, s := range p.subs {
				if err := wire.WriteFrame(s.conn, payload); err != nil {
					s.conn.Close()
					delete(p.subs, id)
					continue
				}
				p.msgCount++
				p.byteCount += uint64(len(payload))
			}
			p.mu.Unlock()
		}
	}
}

// Serve accepts subscriber connections on listenAddr until Shutdown is
// called or the listener errors.
func (p *Publication) Serve(listenAddr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, err
	}
	p.listener = ln
	go p.acceptLoop(ln)
	return ln, nil
}

func (p *Publication) acceptLoop(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		go p.handshake(conn)
	}
}

func (p *Publication) handshake(conn net.Conn) {
	h, err := wire.ReadHeader(conn)
	if err != nil {
		conn.Close()
		return
	}
	if err := wire.CheckField(h, "topic", p.Topic); err != nil {
		conn.Close()
		return
	}
	if err := wire.CheckField(h, "md5sum", p.Identity.MD5Sum()); err != nil {
		conn.Close()
		return
	}
	if err := wire.CheckField(h, "type", p.Identity.MsgType()); err != nil {
		conn.Close()
		return
	}
	callerID, _ := h.Get("callerid")

	resp := wire.Header{
		{Name: "topic", Value: p.Topic},
		{Name: "md5sum", Value: p.Identity.MD5Sum()},
		{Name: "type", Value: p.Identity.MsgType()},
		{Name: "message_definition", Value: p.Identity.MsgDefinition()},
		{Name: "callerid", Value: p.CallerID},
	}
	if p.Latched {
		resp = append(resp, wire.Field{Name: "latching", Value: "1"})
	}
	if err := wire.WriteHeader(conn, resp); err != nil {
		conn.Close()
		return
	}

	p.mu.Lock()
	p.nextID++
	id := p.nextID
	var replay []byte
	if p.Latched && p.hasLast {
		replay = p.lastBytes
	}
	p.mu.Unlock()

	s := &subscriberConn{id: id, conn: conn, callerID: callerID}
	if replay != nil {
		if err := wire.WriteFrame(conn, replay); err != nil {
			conn.Close()
			return
		}
	}

	select {
	case p.addSubCh <- s:
	case <-p.shutdownCh.Done():
		conn.Close()
	}
}

// Shutdown closes the listener and every subscriber connection.
func (p *Publication) Shutdown() {
	p.shutdownCh.Shutdown()
	if p.listener != nil {
		p.listener.Close()
	}
}

// NumSubscribers reports the number of currently connected subscribers.
func (p *Publication) NumSubscribers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs)
}

// Stats returns message and byte counters suitable for BusStats.
func (p *Publication) Stats() (messages, bytesSent uint64, connections int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.msgCount, p.byteCount, len(p.subs)
}

func (p *Publication) String() string {
	return fmt.Sprintf("publication(%s)", p.Topic)
}
