// Package slave implements the per-node XML-RPC server every ROS node
// exposes to the coordinator and to its peers: bus introspection,
// parameter change notification, and publisher-set/topic negotiation
// (§2, §6).
package slave

// PublishStats reports one topic's outbound message/byte counters.
type PublishStats struct {
	Topic      string
	MessageCnt int
	ByteCnt    int
}

// SubscribeStats reports one topic's inbound message/byte counters.
type SubscribeStats struct {
	Topic      string
	MessageCnt int
	ByteCnt    int
	Dropped    int
}

// ServiceStats reports one service's request/byte counters.
type ServiceStats struct {
	Service    string
	NumRequests int
	ByteCnt    int
}

// BusStats is the response to getBusStats: per-topic publish and
// subscribe counters plus service counters.
type BusStats struct {
	Publish   []PublishStats
	Subscribe []SubscribeStats
	Service   []ServiceStats
}

// Connection describes one active topic/service connection, as
// reported by getBusInfo.
type Connection struct {
	ID        int
	Dest      string
	Direction string // "i", "o", or "b"
	Transport string // "TCPROS"
	Topic     string
	Connected bool
}

// Registry is everything the slave server needs from the node that
// owns it — implemented by node.Node, kept as an interface here so
// this package never imports pubsub/rpcsvc/node and creates a cycle.
type Registry interface {
	BusStats() BusStats
	BusInfo() []Connection
	Subscriptions() [][2]string
	Publications() [][2]string
	ParamUpdate(key string, value any) error
	PublisherUpdate(topic string, publisherAPIs []string) error
	RequestTopic(topic string, protocols []any) ([]any, error)
	RequestShutdown(reason string)
}
