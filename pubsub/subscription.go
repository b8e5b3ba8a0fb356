package pubsub

import (
	"bytes"
	"net"

	"rosnode/shutdown"
	"rosnode/wire"
)

// inboundMsg is one decoded message waiting in the lossy queue, paired
// with the callerID of the publisher it came from.
type inboundMsg struct {
	msg      Decodable
	callerID string
}

// Dialer connects to a publisher's TCPROS endpoint given its API URI
// (resolved by calling requestTopic against the publisher's slave
// API), returning a live connection ready for the header handshake.
type Dialer func(publisherAPI string) (net.Conn, error)

// pubConn is one open connection to a publisher.
type pubConn struct {
	api    string
	conn   net.Conn
	cancel chan struct{}
}

// Subscription is the subscriber side of a topic: it keeps one
// connection per publisher open, reconciling the set against
// PublisherUpdate calls, decodes each inbound frame on its own
// reader goroutine, and drops decoded messages into a lossy bounded
// queue drained by one dedicated dispatcher goroutine — so a slow
// user callback never blocks a socket reader (grounded on the
// original's killable per-connection reader thread plus a bounded,
// drop-oldest channel feeding a single callback thread).
type Subscription struct {
	Topic    string
	Identity Identity
	CallerID string

	factory func() Decodable
	handler func(msg Decodable, publisherCallerID string)

	queue   *lossyQueue
	conns   map[string]*pubConn
	connsCh chan func(map[string]*pubConn)
	token   *shutdown.Token
}

// NewSubscription creates a Subscription for topic. factory returns a
// fresh Decodable to receive each incoming frame. handler is invoked
// on the dispatcher goroutine for each successfully decoded message.
// queueSize bounds the number of pending messages held per subscriber
// before the oldest is dropped.
func NewSubscription(topic string, identity Identity, callerID string, factory func() Decodable, queueSize int, handler func(Decodable, string)) *Subscription {
	s := &Subscription{
		Topic:    topic,
		Identity: identity,
		CallerID: callerID,
		factory:  factory,
		handler:  handler,
		queue:    newLossyQueue(queueSize),
		conns:    make(map[string]*pubConn),
		connsCh:  make(chan func(map[string]*pubConn)),
		token:    shutdown.New(),
	}
	go s.connsLoop()
	go s.dispatchLoop()
	return s
}

// connsLoop serializes all access to the conns map so reconciliation
// and reader-goroutine teardown never race.
func (s *Subscription) connsLoop() {
	for {
		select {
		case <-s.token.Done():
			return
		case fn := <-s.connsCh:
			fn(s.conns)
		}
	}
}

func (s *Subscription) withConns(fn func(map[string]*pubConn)) {
	done := make(chan struct{})
	wrapped := func(m map[string]*pubConn) { fn(m); close(done) }
	select {
	case s.connsCh <- wrapped:
		<-done
	case <-s.token.Done():
	}
}

// UpdatePublishers reconciles the connection set against the current
// list of publisher API URIs: it dials and handshakes any new
// publisher and closes any connection to a publisher no longer in the
// list (the reaction to a master publisherUpdate callback).
func (s *Subscription) UpdatePublishers(apis []string, dial Dialer) {
	want := make(map[string]bool, len(apis))
	for _, api := range apis {
		want[api] = true
	}

	var toClose []*pubConn
	var toAdd []string
	s.withConns(func(conns map[string]*pubConn) {
		for api, pc := range conns {
			if !want[api] {
				toClose = append(toClose, pc)
				delete(conns, api)
			}
		}
		for api := range want {
			if _, ok := conns[api]; !ok {
				toAdd = append(toAdd, api)
			}
		}
	})

	for _, pc := range toClose {
		close(pc.cancel)
		pc.conn.Close()
	}
	for _, api := range toAdd {
		go s.connectOne(api, dial)
	}
}

func (s *Subscription) connectOne(api string, dial Dialer) {
	conn, err := dial(api)
	if err != nil {
		return
	}
	req := wire.Header{
		{Name: "topic", Value: s.Topic},
		{Name: "md5sum", Value: s.Identity.MD5Sum()},
		{Name: "type", Value: s.Identity.MsgType()},
		{Name: "message_definition", Value: s.Identity.MsgDefinition()},
		{Name: "callerid", Value: s.CallerID},
	}
	if err := wire.WriteHeader(conn, req); err != nil {
		conn.Close()
		return
	}
	respHeader, err := wire.ReadHeader(conn)
	if err != nil {
		conn.Close()
		return
	}
	if err := wire.CheckField(respHeader, "md5sum", s.Identity.MD5Sum()); err != nil {
		conn.Close()
		return
	}
	if err := wire.CheckField(respHeader, "type", s.Identity.MsgType()); err != nil {
		conn.Close()
		return
	}
	callerID, _ := respHeader.Get("callerid")

	pc := &pubConn{api: api, conn: conn, cancel: make(chan struct{})}
	added := false
	s.withConns(func(conns map[string]*pubConn) {
		if _, dup := conns[api]; dup {
			return
		}
		conns[api] = pc
		added = true
	})
	if !added {
		conn.Close()
		return
	}
	go s.readLoop(pc, callerID)
}

func (s *Subscription) readLoop(pc *pubConn, callerID string) {
	defer pc.conn.Close()
	for {
		select {
		case <-pc.cancel:
			return
		case <-s.token.Done():
			return
		default:
		}
		frame, err := wire.ReadFrame(pc.conn)
		if err != nil {
			s.withConns(func(conns map[string]*pubConn) {
				if conns[pc.api] == pc {
					delete(conns, pc.api)
				}
			})
			return
		}
		m := s.factory()
		if err := m.Decode(bytes.NewReader(frame)); err != nil {
			continue
		}
		s.queue.push(inboundMsg{msg: m, callerID: callerID})
	}
}

func (s *Subscription) dispatchLoop() {
	for {
		select {
		case <-s.token.Done():
			return
		case <-s.queue.notify:
			for {
				item, ok := s.queue.pop()
				if !ok {
					break
				}
				s.handler(item.msg, item.callerID)
			}
		}
	}
}

// NumPublishers reports how many publisher connections are live.
func (s *Subscription) NumPublishers() int {
	n := 0
	s.withConns(func(conns map[string]*pubConn) { n = len(conns) })
	return n
}

// PublisherAPIs returns the list of connected publisher API URIs,
// suitable for reporting via BusInfo.
func (s *Subscription) PublisherAPIs() []string {
	var apis []string
	s.withConns(func(conns map[string]*pubConn) {
		for api := range conns {
			apis = append(apis, api)
		}
	})
	return apis
}

// Shutdown closes every publisher connection and stops the dispatcher.
func (s *Subscription) Shutdown() {
	s.withConns(func(conns map[string]*pubConn) {
		for api, pc := range conns {
			pc.conn.Close()
			delete(conns, api)
		}
	})
	s.token.Shutdown()
}
