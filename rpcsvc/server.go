package rpcsvc

import (
	"context"
	"io"
	"net"

	"rosnode/message"
	"rosnode/middleware"
	"rosnode/wire"
)

// Server is the service-provider side of a service: one TCP listener
// dispatching every accepted connection to a single reflection-bound
// handler. A connection stays open for further requests only when the
// client asked for "persistent"; otherwise each connection serves
// exactly one call.
type Server struct {
	Name     string
	Identity Identity
	CallerID string

	method   *serviceMethod
	dispatch middleware.HandlerFunc
	listener net.Listener
}

// NewServer validates handler's signature and returns a Server ready
// to be Served. handler must be func(*Request) (*Response, error).
func NewServer(name string, identity Identity, callerID string, handler any) (*Server, error) {
	m, err := newServiceMethod(handler)
	if err != nil {
		return nil, err
	}
	s := &Server{Name: name, Identity: identity, CallerID: callerID, method: m}
	s.dispatch = s.call
	return s, nil
}

// Use wraps the server's dispatch in mw, outermost first. Call before
// Serve; it is not safe to change once connections are being handled.
func (s *Server) Use(mw ...middleware.Middleware) {
	s.dispatch = middleware.Chain(mw...)(s.call)
}

func (s *Server) call(ctx context.Context, req *message.Call) *message.Call {
	respBody, callErr, decodeErr := s.method.call(req.Payload)
	switch {
	case decodeErr != nil:
		return &message.Call{Service: req.Service, Error: decodeErr.Error()}
	case callErr != nil:
		return &message.Call{Service: req.Service, Error: callErr.Error()}
	default:
		return &message.Call{Service: req.Service, Payload: respBody}
	}
}

// Serve starts accepting connections on listenAddr.
func (s *Server) Serve(listenAddr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return nil, err
	}
	s.listener = ln
	go s.acceptLoop(ln)
	return ln, nil
}

// Shutdown closes the listener, causing Serve's accept loop to exit.
func (s *Server) Shutdown() error {
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

func (s *Server) acceptLoop(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	h, err := wire.ReadHeader(conn)
	if err != nil {
		return
	}
	if err := wire.CheckField(h, "service", s.Name); err != nil {
		return
	}
	if err := wire.CheckField(h, "md5sum", s.Identity.MD5Sum()); err != nil {
		return
	}
	persistent, _ := h.Get("persistent")
	probe, _ := h.Get("probe")

	resp := wire.Header{
		{Name: "callerid", Value: s.CallerID},
		{Name: "message_definition", Value: s.Identity.MsgDefinition()},
	}
	if err := wire.WriteHeader(conn, resp); err != nil {
		return
	}
	if probe == "1" {
		return
	}

	for {
		body, err := wire.ReadFrame(conn)
		if err != nil {
			if err == io.EOF {
				return
			}
			return
		}

		resp := s.dispatch(context.Background(), &message.Call{Service: s.Name, Payload: body})
		if resp.Error != "" {
			if err := wire.WriteServiceResult(conn, false, []byte(resp.Error)); err != nil {
				return
			}
		} else {
			if err := wire.WriteServiceResult(conn, true, resp.Payload); err != nil {
				return
			}
		}

		if persistent != "1" {
			return
		}
	}
}
