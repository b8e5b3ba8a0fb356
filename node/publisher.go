package node

import (
	"net"
	"time"

	"rosnode/pubsub"
)

// Publisher is a handle to a bound topic publication. Creation
// registers with the coordinator and opens a TCP listener;
// Shutdown unregisters and closes it (§3 "RAII-scoped" lifecycle).
type Publisher struct {
	node     *Node
	topic    string
	identity pubsub.Identity
	pub      *pubsub.Publication
	listener net.Listener
}

// Advertise registers this node as a publisher of topic and returns a
// Publisher handle. If topic is already published locally, the
// existing Publication is reused (and merged into) provided identity
// is compatible (matching hash or either side wildcard); otherwise
// TopicTypeMismatchError is returned rather than silently forking the
// topic (§9 design note on ambiguous multi-publish behavior).
func (n *Node) Advertise(topic string, identity pubsub.Identity, latched bool) (*Publisher, error) {
	resolved, err := n.resolveName(topic)
	if err != nil {
		return nil, err
	}

	n.mu.Lock()
	if existing, ok := n.publications[resolved]; ok {
		if !compatible(existing.identity.MD5Sum(), identity.MD5Sum()) {
			n.mu.Unlock()
			return nil, &TopicTypeMismatchError{Topic: resolved, Expected: existing.identity.MD5Sum(), Actual: identity.MD5Sum()}
		}
		n.mu.Unlock()
		return existing, nil
	}
	n.mu.Unlock()

	pub := pubsub.NewPublication(resolved, identity, n.callerID, latched)
	ln, err := pub.Serve("0.0.0.0:0")
	if err != nil {
		return nil, err
	}

	p := &Publisher{node: n, topic: resolved, identity: identity, pub: pub, listener: ln}

	n.mu.Lock()
	n.publications[resolved] = p
	n.mu.Unlock()

	ctx, cancel := n.context()
	defer cancel()
	if _, err := n.master.RegisterPublisher(ctx, resolved, identity.MsgType()); err != nil {
		p.Shutdown()
		return nil, err
	}

	return p, nil
}

func compatible(a, b string) bool {
	return a == b || a == "*" || b == "*"
}

// Publish encodes and fans msg out to every connected subscriber.
func (p *Publisher) Publish(msg pubsub.Encodable) error { return p.pub.Publish(msg) }

// NumSubscribers reports the number of currently connected subscribers.
func (p *Publisher) NumSubscribers() int { return p.pub.NumSubscribers() }

// Topic returns the publisher's fully resolved topic name.
func (p *Publisher) Topic() string { return p.topic }

// WaitForSubscribers blocks until at least one subscriber is
// attached, or returns TimeoutError once timeout elapses (timeout <= 0
// waits forever).
func (p *Publisher) WaitForSubscribers(timeout time.Duration) error {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	for p.NumSubscribers() == 0 {
		if !deadline.IsZero() && time.Now().After(deadline) {
			return &TimeoutError{What: "subscribers on " + p.topic}
		}
		time.Sleep(5 * time.Millisecond)
	}
	return nil
}

// Shutdown unregisters this publication from the coordinator and
// closes its listener and every subscriber connection.
func (p *Publisher) Shutdown() error {
	p.node.mu.Lock()
	delete(p.node.publications, p.topic)
	p.node.mu.Unlock()

	p.pub.Shutdown()

	ctx, cancel := p.node.context()
	defer cancel()
	_, err := p.node.master.UnregisterPublisher(ctx, p.topic)
	return err
}
