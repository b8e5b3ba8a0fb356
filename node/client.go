package node

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rosnode/rpcsvc"
)

// ServiceClient is a handle to a remote service. Each Call re-resolves
// the service's URI against the coordinator, persistent or not; a
// persistent client keeps sending over its open connection, so the
// resolved URI is only used when it has to dial (§4.7).
type ServiceClient struct {
	node *Node
	name string
	rc   *rpcsvc.Client
}

// NewServiceClient returns a client for name, which must name a
// service the coordinator can resolve by the time Call is first used.
func (n *Node) NewServiceClient(name string, identity rpcsvc.Identity, persistent bool) (*ServiceClient, error) {
	resolved, err := n.resolveName(name)
	if err != nil {
		return nil, err
	}
	return &ServiceClient{
		node: n,
		name: resolved,
		rc:   rpcsvc.NewClient(resolved, identity, n.callerID, persistent),
	}, nil
}

// Call resolves the service's current endpoint via the coordinator
// and performs the request/response exchange. The lookup is made for
// a persistent client too, and a failed lookup fails the call even
// while its connection is open.
func (c *ServiceClient) Call(ctx context.Context, req rpcsvc.Encodable, resp rpcsvc.Decodable) error {
	uri, err := c.node.master.LookupService(ctx, c.name)
	if err != nil {
		return err
	}
	addr := strings.TrimPrefix(uri, "rosrpc://")
	return c.rc.Call(addr, req, resp)
}

// Close closes any persistent connection held open by the client.
func (c *ServiceClient) Close() error { return c.rc.Close() }

// WaitForService polls the coordinator until name resolves to a live
// service, or timeout elapses (timeout <= 0 means wait forever).
func (n *Node) WaitForService(ctx context.Context, name string, timeout time.Duration) error {
	resolved, err := n.resolveName(name)
	if err != nil {
		return err
	}

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	backoff := 20 * time.Millisecond
	const maxBackoff = time.Second

	for {
		if _, err := n.master.LookupService(ctx, resolved); err == nil {
			return nil
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return &TimeoutError{What: fmt.Sprintf("service %q", resolved)}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < maxBackoff {
			backoff *= 2
		}
	}
}
