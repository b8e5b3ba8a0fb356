package node

import (
	"fmt"
	"net"

	"rosnode/pubsub"
	"rosnode/wire"
	"rosnode/xmlrpc"
)

// Subscriber is a handle to a topic subscription. Creation registers
// with the coordinator and starts reconciling against
// publisher_update notifications; Shutdown unregisters and stops
// every worker.
type Subscriber struct {
	node     *Node
	topic    string
	identity pubsub.Identity
	sub      *pubsub.Subscription
}

// Subscribe registers this node as a subscriber of topic. factory
// returns a fresh Decodable per incoming message; handler is invoked
// (on a dedicated dispatcher goroutine, never the socket reader) for
// each message along with the publishing node's callerID.
func (n *Node) Subscribe(topic string, identity pubsub.Identity, queueSize int, factory func() pubsub.Decodable, handler func(pubsub.Decodable, string)) (*Subscriber, error) {
	resolved, err := n.resolveName(topic)
	if err != nil {
		return nil, err
	}

	n.mu.Lock()
	if existing, ok := n.subscriptions[resolved]; ok {
		n.mu.Unlock()
		if !compatible(existing.identity.MD5Sum(), identity.MD5Sum()) {
			return nil, &TopicTypeMismatchError{Topic: resolved, Expected: existing.identity.MD5Sum(), Actual: identity.MD5Sum()}
		}
		return existing, nil
	}
	n.mu.Unlock()

	sub := pubsub.NewSubscription(resolved, identity, n.callerID, factory, queueSize, handler)
	s := &Subscriber{node: n, topic: resolved, identity: identity, sub: sub}

	n.mu.Lock()
	n.subscriptions[resolved] = s
	n.mu.Unlock()

	ctx, cancel := n.context()
	defer cancel()
	apis, err := n.master.RegisterSubscriber(ctx, resolved, identity.MsgType())
	if err != nil {
		s.Shutdown()
		return nil, err
	}
	sub.UpdatePublishers(apis, s.dialer(n))

	return s, nil
}

// Topic returns the subscriber's fully resolved topic name.
func (s *Subscriber) Topic() string { return s.topic }

// NumPublishers reports how many publishers are currently connected.
func (s *Subscriber) NumPublishers() int { return s.sub.NumPublishers() }

// Shutdown unregisters this subscription and stops every worker.
func (s *Subscriber) Shutdown() error {
	s.node.mu.Lock()
	delete(s.node.subscriptions, s.topic)
	s.node.mu.Unlock()

	s.sub.Shutdown()

	ctx, cancel := s.node.context()
	defer cancel()
	_, err := s.node.master.UnregisterSubscriber(ctx, s.topic)
	return err
}

// dialer builds a pubsub.Dialer that resolves a publisher's slave API
// URI to its TCPROS endpoint via requestTopic, then dials it — the
// step between "the coordinator told us who publishes this topic" and
// "we have a live TCP connection to them" (§4.6 step 1-2).
func (s *Subscriber) dialer(n *Node) pubsub.Dialer {
	return func(publisherAPI string) (net.Conn, error) {
		xc := xmlrpc.NewClient(publisherAPI)
		ctx, cancel := n.context()
		defer cancel()

		result, err := xc.Call(ctx, "requestTopic", n.callerID, s.topic, []any{[]any{"TCPROS"}})
		if err != nil {
			return nil, &wire.TopicConnectionFailError{Topic: s.topic, Err: err}
		}
		env, err := xmlrpc.DecodeEnvelope(result)
		if err != nil {
			return nil, &wire.TopicConnectionFailError{Topic: s.topic, Err: err}
		}
		if !env.OK() {
			return nil, &wire.TopicConnectionFailError{Topic: s.topic, Err: fmt.Errorf("%s", env.Message)}
		}
		proto, ok := env.Value.([]any)
		if !ok || len(proto) < 3 {
			return nil, &wire.TopicConnectionFailError{Topic: s.topic, Err: fmt.Errorf("malformed requestTopic reply")}
		}
		name, _ := proto[0].(string)
		if name != "TCPROS" {
			return nil, &wire.TopicConnectionFailError{Topic: s.topic, Err: fmt.Errorf("unsupported protocol %v", proto[0])}
		}
		host, _ := proto[1].(string)
		port, ok := asInt(proto[2])
		if !ok {
			return nil, &wire.TopicConnectionFailError{Topic: s.topic, Err: fmt.Errorf("malformed port %v", proto[2])}
		}

		conn, err := net.Dial("tcp", fmt.Sprintf("%s:%d", host, port))
		if err != nil {
			return nil, &wire.TopicConnectionFailError{Topic: s.topic, Err: err}
		}
		return conn, nil
	}
}
