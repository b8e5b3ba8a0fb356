package slave

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"

	"rosnode/xmlrpc"
)

// Server is the XML-RPC server backing one node's slave API. It answers
// both coordinator-initiated calls (publisherUpdate, paramUpdate,
// shutdown) and peer-initiated calls (requestTopic, getBusInfo, ...).
type Server struct {
	node      Registry
	masterURI string
	xr        *xmlrpc.Server
	listener  net.Listener
	uri       string
}

// NewServer builds a slave server backed by node; call Serve to start
// accepting connections.
func NewServer(node Registry, masterURI string) *Server {
	s := &Server{node: node, masterURI: masterURI, xr: xmlrpc.NewServer()}
	s.registerHandlers()
	return s
}

// Serve listens on listenAddr (host:port, typically "0.0.0.0:0" to let
// the OS pick a port) and serves the slave API until ctx is done.
// advertiseHost is the hostname or IP other nodes and the coordinator
// should use to reach this node — listenAddr's own host is usually a
// wildcard and unreachable from outside the process. It blocks until
// the listener is ready, then returns the server's public URI.
func (s *Server) Serve(ctx context.Context, listenAddr, advertiseHost string) (string, error) {
	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return "", err
	}
	s.listener = ln

	_, port, err := splitHostPort(ln.Addr().String())
	if err != nil {
		ln.Close()
		return "", err
	}
	s.uri = fmt.Sprintf("http://%s:%s/", advertiseHost, port)

	httpSrv := &http.Server{Handler: s.xr}
	go func() {
		<-ctx.Done()
		httpSrv.Close()
	}()
	go httpSrv.Serve(ln)

	return s.uri, nil
}

// URI returns this node's own slave API URI, valid after Serve returns.
func (s *Server) URI() string { return s.uri }

func (s *Server) registerHandlers() {
	s.xr.Register("getBusStats", s.handleGetBusStats)
	s.xr.Register("getBusInfo", s.handleGetBusInfo)
	s.xr.Register("getMasterUri", s.handleGetMasterURI)
	s.xr.Register("getPid", s.handleGetPid)
	s.xr.Register("shutdown", s.handleShutdown)
	s.xr.Register("getSubscriptions", s.handleGetSubscriptions)
	s.xr.Register("getPublications", s.handleGetPublications)
	s.xr.Register("paramUpdate", s.handleParamUpdate)
	s.xr.Register("publisherUpdate", s.handlePublisherUpdate)
	s.xr.Register("requestTopic", s.handleRequestTopic)
}

func success(v any) (any, error) {
	return xmlrpc.EncodeEnvelope(xmlrpc.Envelope{Code: xmlrpc.StatusSuccess, Message: "", Value: v}), nil
}

func (s *Server) handleGetBusStats(args []any) (any, error) {
	stats := s.node.BusStats()
	pub := make([]any, len(stats.Publish))
	for i, p := range stats.Publish {
		pub[i] = []any{p.Topic, p.MessageCnt, p.ByteCnt}
	}
	sub := make([]any, len(stats.Subscribe))
	for i, sc := range stats.Subscribe {
		sub[i] = []any{sc.Topic, sc.MessageCnt, sc.ByteCnt, sc.Dropped}
	}
	svc := make([]any, len(stats.Service))
	for i, sv := range stats.Service {
		svc[i] = []any{sv.Service, sv.NumRequests, sv.ByteCnt}
	}
	return success([]any{pub, sub, svc})
}

func (s *Server) handleGetBusInfo(args []any) (any, error) {
	conns := s.node.BusInfo()
	out := make([]any, len(conns))
	for i, c := range conns {
		out[i] = []any{c.ID, c.Dest, c.Direction, c.Transport, c.Topic, c.Connected}
	}
	return success(out)
}

func (s *Server) handleGetMasterURI(args []any) (any, error) {
	return success(s.masterURI)
}

func (s *Server) handleGetPid(args []any) (any, error) {
	return success(os.Getpid())
}

func (s *Server) handleShutdown(args []any) (any, error) {
	reason := ""
	if len(args) > 1 {
		reason, _ = args[1].(string)
	}
	s.node.RequestShutdown(reason)
	return success(0)
}

func (s *Server) handleGetSubscriptions(args []any) (any, error) {
	return success(pairsToAny(s.node.Subscriptions()))
}

func (s *Server) handleGetPublications(args []any) (any, error) {
	return success(pairsToAny(s.node.Publications()))
}

func (s *Server) handleParamUpdate(args []any) (any, error) {
	if len(args) < 3 {
		return nil, fmt.Errorf("paramUpdate requires callerID, key, value")
	}
	key, _ := args[1].(string)
	if err := s.node.ParamUpdate(key, args[2]); err != nil {
		return nil, err
	}
	return success(0)
}

func (s *Server) handlePublisherUpdate(args []any) (any, error) {
	if len(args) < 3 {
		return nil, fmt.Errorf("publisherUpdate requires callerID, topic, publishers")
	}
	topic, _ := args[1].(string)
	rawList, _ := args[2].([]any)
	apis := make([]string, 0, len(rawList))
	for _, v := range rawList {
		if s, ok := v.(string); ok {
			apis = append(apis, s)
		}
	}
	if err := s.node.PublisherUpdate(topic, apis); err != nil {
		return nil, err
	}
	return success(0)
}

func (s *Server) handleRequestTopic(args []any) (any, error) {
	if len(args) < 3 {
		return nil, fmt.Errorf("requestTopic requires callerID, topic, protocols")
	}
	topic, _ := args[1].(string)
	protocols, _ := args[2].([]any)
	proto, err := s.node.RequestTopic(topic, protocols)
	if err != nil {
		return nil, err
	}
	return success(proto)
}

func pairsToAny(pairs [][2]string) []any {
	out := make([]any, len(pairs))
	for i, p := range pairs {
		out[i] = []any{p[0], p[1]}
	}
	return out
}

func splitHostPort(addr string) (host, port string, err error) {
	return net.SplitHostPort(addr)
}
