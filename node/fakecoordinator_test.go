package node

import (
	"context"
	"net/http/httptest"
	"sync"
	"time"

	"rosnode/xmlrpc"
)

const defaultCallTimeout = 2 * time.Second

// fakeCoordinator is a minimal in-memory stand-in for the central
// coordinator, just enough to drive an end-to-end publisher/
// subscriber/service test: it tracks publisher and subscriber slave
// URIs per topic and, on registerPublisher, calls back every known
// subscriber's publisherUpdate the way a real coordinator does.
type fakeCoordinator struct {
	mu          sync.Mutex
	publishers  map[string][]string // topic -> slave API URIs
	subscribers map[string][]string // topic -> slave API URIs
	services    map[string]string   // service -> rosrpc URI
	params      map[string]any

	srv *xmlrpc.Server
	ts  *httptest.Server
}

func ok(value any) any {
	return xmlrpc.EncodeEnvelope(xmlrpc.Envelope{Code: xmlrpc.StatusSuccess, Message: "", Value: value})
}

func fail(message string) any {
	return xmlrpc.EncodeEnvelope(xmlrpc.Envelope{Code: xmlrpc.StatusFailure, Message: message, Value: ""})
}

func newFakeCoordinator() *fakeCoordinator {
	c := &fakeCoordinator{
		publishers:  make(map[string][]string),
		subscribers: make(map[string][]string),
		services:    make(map[string]string),
		params:      make(map[string]any),
	}
	c.srv = xmlrpc.NewServer()
	c.register()
	c.ts = httptest.NewServer(c.srv)
	return c
}

func (c *fakeCoordinator) URI() string { return c.ts.URL }
func (c *fakeCoordinator) Close()      { c.ts.Close() }

func (c *fakeCoordinator) register() {
	c.srv.Register("registerPublisher", func(args []any) (any, error) {
		callerAPI := args[3].(string)
		topic := args[1].(string)

		c.mu.Lock()
		c.publishers[topic] = appendUnique(c.publishers[topic], callerAPI)
		subs := append([]string{}, c.subscribers[topic]...)
		pubs := append([]string{}, c.publishers[topic]...)
		c.mu.Unlock()

		for _, subAPI := range subs {
			go notifyPublisherUpdate(subAPI, topic, pubs)
		}
		return ok(toAnySlice(subs)), nil
	})

	c.srv.Register("unregisterPublisher", func(args []any) (any, error) {
		topic := args[1].(string)
		callerAPI := args[2].(string)
		c.mu.Lock()
		c.publishers[topic] = remove(c.publishers[topic], callerAPI)
		c.mu.Unlock()
		return ok(1), nil
	})

	c.srv.Register("registerSubscriber", func(args []any) (any, error) {
		topic := args[1].(string)
		callerAPI := args[3].(string)
		c.mu.Lock()
		c.subscribers[topic] = appendUnique(c.subscribers[topic], callerAPI)
		pubs := append([]string{}, c.publishers[topic]...)
		c.mu.Unlock()
		return ok(toAnySlice(pubs)), nil
	})

	c.srv.Register("unregisterSubscriber", func(args []any) (any, error) {
		topic := args[1].(string)
		callerAPI := args[2].(string)
		c.mu.Lock()
		c.subscribers[topic] = remove(c.subscribers[topic], callerAPI)
		c.mu.Unlock()
		return ok(1), nil
	})

	c.srv.Register("registerService", func(args []any) (any, error) {
		service := args[1].(string)
		serviceAPI := args[2].(string)
		c.mu.Lock()
		c.services[service] = serviceAPI
		c.mu.Unlock()
		return ok(1), nil
	})

	c.srv.Register("unregisterService", func(args []any) (any, error) {
		service := args[1].(string)
		c.mu.Lock()
		delete(c.services, service)
		c.mu.Unlock()
		return ok(1), nil
	})

	c.srv.Register("lookupService", func(args []any) (any, error) {
		service := args[1].(string)
		c.mu.Lock()
		uri, found := c.services[service]
		c.mu.Unlock()
		if !found {
			return fail("no provider"), nil
		}
		return ok(uri), nil
	})

	c.srv.Register("setParam", func(args []any) (any, error) {
		c.mu.Lock()
		c.params[args[1].(string)] = args[2]
		c.mu.Unlock()
		return ok(1), nil
	})

	c.srv.Register("getParam", func(args []any) (any, error) {
		c.mu.Lock()
		v, found := c.params[args[1].(string)]
		c.mu.Unlock()
		if !found {
			return fail("no such key"), nil
		}
		return ok(v), nil
	})
}

func notifyPublisherUpdate(slaveAPI, topic string, publisherAPIs []string) {
	xc := xmlrpc.NewClient(slaveAPI)
	ctx, cancel := context.WithTimeout(context.Background(), defaultCallTimeout)
	defer cancel()
	xc.Call(ctx, "publisherUpdate", "/fake_coordinator", topic, toAnySlice(publisherAPIs))
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}

func remove(list []string, v string) []string {
	out := list[:0]
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}

func toAnySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
