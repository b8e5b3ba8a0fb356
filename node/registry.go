package node

import (
	"fmt"

	"rosnode/slave"
)

// The methods in this file satisfy slave.Registry, letting the node's
// own slave.Server call back into it without slave importing node,
// pubsub or rpcsvc.

// BusStats implements slave.Registry.
func (n *Node) BusStats() slave.BusStats {
	n.mu.Lock()
	defer n.mu.Unlock()

	stats := slave.BusStats{}
	for topic, p := range n.publications {
		messages, bytesSent, _ := p.pub.Stats()
		stats.Publish = append(stats.Publish, slave.PublishStats{
			Topic: topic, MessageCnt: int(messages), ByteCnt: int(bytesSent),
		})
	}
	for topic := range n.subscriptions {
		stats.Subscribe = append(stats.Subscribe, slave.SubscribeStats{Topic: topic})
	}
	return stats
}

// BusInfo implements slave.Registry.
func (n *Node) BusInfo() []slave.Connection {
	n.mu.Lock()
	defer n.mu.Unlock()

	var conns []slave.Connection
	for topic, p := range n.publications {
		id := n.nextID()
		conns = append(conns, slave.Connection{
			ID: id, Dest: p.pub.String(), Direction: "o", Transport: "TCPROS", Topic: topic, Connected: p.pub.NumSubscribers() > 0,
		})
	}
	for topic, s := range n.subscriptions {
		for _, api := range s.sub.PublisherAPIs() {
			id := n.nextID()
			conns = append(conns, slave.Connection{
				ID: id, Dest: api, Direction: "i", Transport: "TCPROS", Topic: topic, Connected: true,
			})
		}
	}
	return conns
}

// Subscriptions implements slave.Registry.
func (n *Node) Subscriptions() [][2]string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([][2]string, 0, len(n.subscriptions))
	for topic, s := range n.subscriptions {
		out = append(out, [2]string{topic, s.identity.MsgType()})
	}
	return out
}

// Publications implements slave.Registry.
func (n *Node) Publications() [][2]string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([][2]string, 0, len(n.publications))
	for topic, p := range n.publications {
		out = append(out, [2]string{topic, p.identity.MsgType()})
	}
	return out
}

// ParamUpdate implements slave.Registry by dispatching to any
// registered parameter subscribers.
func (n *Node) ParamUpdate(key string, value any) error {
	return n.params.HandleParamUpdate(key, value)
}

// PublisherUpdate implements slave.Registry by reconciling the named
// subscription's connection set against the new publisher list.
func (n *Node) PublisherUpdate(topic string, publisherAPIs []string) error {
	n.mu.Lock()
	sub, ok := n.subscriptions[topic]
	n.mu.Unlock()
	if !ok {
		return nil // no local subscription for this topic; nothing to reconcile
	}
	sub.sub.UpdatePublishers(publisherAPIs, sub.dialer(n))
	return nil
}

// RequestTopic implements slave.Registry: it resolves topic to this
// node's local TCPROS endpoint if protocols includes "TCPROS".
func (n *Node) RequestTopic(topic string, protocols []any) ([]any, error) {
	n.mu.Lock()
	p, ok := n.publications[topic]
	n.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("no publication for topic %q", topic)
	}

	for _, proto := range protocols {
		entry, ok := proto.([]any)
		if !ok || len(entry) == 0 {
			continue
		}
		name, _ := entry[0].(string)
		if name == "TCPROS" {
			_, port, err := splitPort(p.listener.Addr().String())
			if err != nil {
				return nil, err
			}
			return []any{"TCPROS", n.host, port}, nil
		}
	}
	return nil, fmt.Errorf("no supported protocol for topic %q", topic)
}

// RequestShutdown implements slave.Registry.
func (n *Node) RequestShutdown(reason string) {
	go n.Shutdown()
}
