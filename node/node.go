package node

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"rosnode/master"
	"rosnode/naming"
	"rosnode/param"
	"rosnode/rostime"
	"rosnode/shutdown"
	"rosnode/slave"
)

// initialized guards the one-node-per-process invariant with a single
// atomic flag rather than a sync.Once, so a failed Init (e.g. the
// coordinator is unreachable) doesn't permanently wedge the process
// into "already initialized".
var initialized atomic.Bool

// Node is the per-process runtime: name resolution, the coordinator
// and slave clients, the clock, the shutdown token, and every live
// publication/subscription/service/parameter handle.
type Node struct {
	Name      string
	Namespace string
	callerID  string // fully qualified node name
	host      string

	resolver *naming.Resolver
	master   *master.Client
	slave    *slave.Server
	params   *param.Params
	clock    rostime.Clock
	shutdown *shutdown.Token

	mu            sync.Mutex
	publications  map[string]*Publisher
	subscriptions map[string]*Subscriber
	services      map[string]*Service
	nextConnID    int

	nonROSArgs []string
}

// Init creates the process's one Node. name is the node's own
// (possibly relative) graph name; args are typically os.Args[1:],
// parsed for ROS remapping syntax ("src:=dst", "_param:=value",
// "__name:=...", ...) per §6. Returns AlreadyInitializedError if a
// Node already exists in this process.
func Init(name string, args []string) (*Node, error) {
	if !initialized.CompareAndSwap(false, true) {
		return nil, &AlreadyInitializedError{}
	}
	n, err := newNode(name, args)
	if err != nil {
		initialized.Store(false)
		return nil, err
	}
	return n, nil
}

func newNode(name string, args []string) (*Node, error) {
	namespace, baseName, err := naming.QualifyNodeName(name)
	if err != nil {
		return nil, err
	}
	remap, params, specials, rest := naming.ParseArgs(args)

	if v, ok := specials["__name"]; ok {
		baseName = v
	}
	if ns := os.Getenv("ROS_NAMESPACE"); ns != "" {
		namespace = ns
	}
	if v, ok := specials["__ns"]; ok {
		namespace = v
	}

	host, onlyLocalhost := determineHost()
	if v, ok := specials["__hostname"]; ok {
		host, onlyLocalhost = v, isLocalhost(v)
	} else if v, ok := specials["__ip"]; ok {
		host, onlyLocalhost = v, isLocalhost(v)
	}
	listenHost := "0.0.0.0"
	if onlyLocalhost {
		listenHost = "127.0.0.1"
	}

	masterURI := os.Getenv("ROS_MASTER_URI")
	if v, ok := specials["__master"]; ok {
		masterURI = v
	}
	if masterURI == "" {
		masterURI = "http://localhost:11311/"
	}

	resolver := naming.NewResolver(namespace, baseName, remap)
	callerID, err := resolver.Resolve(baseName)
	if err != nil {
		return nil, err
	}

	n := &Node{
		Name:          baseName,
		Namespace:     namespace,
		callerID:      callerID,
		host:          host,
		resolver:      resolver,
		shutdown:      shutdown.New(),
		clock:         rostime.WallClock{},
		publications:  make(map[string]*Publisher),
		subscriptions: make(map[string]*Subscriber),
		services:      make(map[string]*Service),
		nonROSArgs:    rest,
	}

	n.slave = slave.NewServer(n, masterURI)

	slaveURI, err := n.slave.Serve(context.Background(), listenHost+":0", host)
	if err != nil {
		return nil, err
	}
	n.master = master.NewClient(masterURI, n.callerID, slaveURI)
	n.params = param.New(n.master, resolver)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for key, value := range params {
		if err := n.params.Set(ctx, key, value); err != nil {
			return nil, err
		}
	}

	return n, nil
}

// OK reports whether the node has not yet been asked to shut down.
func (n *Node) OK() bool { return !n.shutdown.IsShutdown() }

// Spin blocks until the node's shutdown token is set.
func (n *Node) Spin() { <-n.shutdown.Done() }

// Shutdown marks the node's shutdown token (idempotent), tearing down
// every live publication, subscription and service.
func (n *Node) Shutdown() {
	n.shutdown.Shutdown()

	n.mu.Lock()
	pubs := make([]*Publisher, 0, len(n.publications))
	for _, p := range n.publications {
		pubs = append(pubs, p)
	}
	subs := make([]*Subscriber, 0, len(n.subscriptions))
	for _, s := range n.subscriptions {
		subs = append(subs, s)
	}
	svcs := make([]*Service, 0, len(n.services))
	for _, s := range n.services {
		svcs = append(svcs, s)
	}
	n.mu.Unlock()

	var g errgroup.Group
	for _, p := range pubs {
		g.Go(p.Shutdown)
	}
	for _, s := range subs {
		g.Go(s.Shutdown)
	}
	for _, s := range svcs {
		g.Go(s.Shutdown)
	}
	g.Wait()
	initialized.Store(false)
}

// CallerID returns the node's fully resolved graph name.
func (n *Node) CallerID() string { return n.callerID }

// Resolver exposes the node's name resolver, e.g. for a caller that
// wants to resolve a name without creating a handle.
func (n *Node) Resolver() *naming.Resolver { return n.resolver }

// Params returns the node's parameter server client.
func (n *Node) Params() *param.Params { return n.params }

// Clock returns the node's clock (wall or simulated).
func (n *Node) Clock() rostime.Clock { return n.clock }

// UseSimulatedClock switches the node onto clock for Rate/Sleep
// purposes, driven externally (typically by a subscription to the
// "/clock" topic).
func (n *Node) UseSimulatedClock(clock rostime.Clock) { n.clock = clock }

// Rate returns a rostime.Rate ticking at hz, driven by the node's
// current clock.
func (n *Node) Rate(hz float64) *rostime.Rate { return rostime.NewRate(n.clock, hz) }

func (n *Node) resolveName(name string) (string, error) {
	return n.resolver.Resolve(name)
}

func (n *Node) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

func (n *Node) nextID() int {
	n.nextConnID++
	return n.nextConnID
}

func (n *Node) String() string { return n.callerID }
