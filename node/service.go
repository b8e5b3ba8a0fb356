package node

import (
	"fmt"
	"net"

	"rosnode/middleware"
	"rosnode/rpcsvc"
)

// Service is a handle to a bound service server. Creation binds a TCP
// listener and registers with the coordinator; Shutdown unregisters
// and closes it.
type Service struct {
	node     *Node
	name     string
	srv      *rpcsvc.Server
	listener net.Listener
}

// AdvertiseService binds name to handler (func(*Request) (*Response, error))
// and registers it with the coordinator. Any mw is applied around the
// handler dispatch, outermost first (see rosnode/middleware).
func (n *Node) AdvertiseService(name string, identity rpcsvc.Identity, handler any, mw ...middleware.Middleware) (*Service, error) {
	resolved, err := n.resolveName(name)
	if err != nil {
		return nil, err
	}

	n.mu.Lock()
	if _, ok := n.services[resolved]; ok {
		n.mu.Unlock()
		return nil, fmt.Errorf("service %q already advertised by this node", resolved)
	}
	n.mu.Unlock()

	srv, err := rpcsvc.NewServer(resolved, identity, n.callerID, handler)
	if err != nil {
		return nil, err
	}
	if len(mw) > 0 {
		srv.Use(mw...)
	}
	ln, err := srv.Serve("0.0.0.0:0")
	if err != nil {
		return nil, err
	}

	s := &Service{node: n, name: resolved, srv: srv, listener: ln}

	n.mu.Lock()
	n.services[resolved] = s
	n.mu.Unlock()

	_, port, err := splitPort(ln.Addr().String())
	if err != nil {
		s.Shutdown()
		return nil, err
	}
	serviceURI := fmt.Sprintf("rosrpc://%s:%d", n.host, port)

	ctx, cancel := n.context()
	defer cancel()
	if err := n.master.RegisterService(ctx, resolved, serviceURI); err != nil {
		s.Shutdown()
		return nil, err
	}

	return s, nil
}

// Name returns the service's fully resolved name.
func (s *Service) Name() string { return s.name }

// Shutdown unregisters this service from the coordinator and closes
// its listener.
func (s *Service) Shutdown() error {
	s.node.mu.Lock()
	delete(s.node.services, s.name)
	s.node.mu.Unlock()

	s.srv.Shutdown()

	_, port, err := splitPort(s.listener.Addr().String())
	if err != nil {
		return err
	}
	serviceURI := fmt.Sprintf("rosrpc://%s:%d", s.node.host, port)

	ctx, cancel := s.node.context()
	defer cancel()
	_, err = s.node.master.UnregisterService(ctx, s.name, serviceURI)
	return err
}
