package slave

import (
	"context"
	"testing"
	"time"

	"rosnode/xmlrpc"
)

type fakeRegistry struct {
	paramUpdates     map[string]any
	publisherUpdates map[string][]string
	requestedTopic   string
	shutdownReason   string
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{paramUpdates: map[string]any{}, publisherUpdates: map[string][]string{}}
}

func (f *fakeRegistry) BusStats() BusStats {
	return BusStats{Publish: []PublishStats{{Topic: "/chatter", MessageCnt: 3, ByteCnt: 30}}}
}

func (f *fakeRegistry) BusInfo() []Connection {
	return []Connection{{ID: 1, Dest: "/listener", Direction: "o", Transport: "TCPROS", Topic: "/chatter", Connected: true}}
}

func (f *fakeRegistry) Subscriptions() [][2]string { return [][2]string{{"/chatter", "std_msgs/String"}} }
func (f *fakeRegistry) Publications() [][2]string  { return [][2]string{{"/rosout", "rosgraph_msgs/Log"}} }

func (f *fakeRegistry) ParamUpdate(key string, value any) error {
	f.paramUpdates[key] = value
	return nil
}

func (f *fakeRegistry) PublisherUpdate(topic string, apis []string) error {
	f.publisherUpdates[topic] = apis
	return nil
}

func (f *fakeRegistry) RequestTopic(topic string, protocols []any) ([]any, error) {
	f.requestedTopic = topic
	return []any{"TCPROS", "127.0.0.1", 12345}, nil
}

func (f *fakeRegistry) RequestShutdown(reason string) {
	f.shutdownReason = reason
}

func startTestServer(t *testing.T) (*Server, *fakeRegistry, string) {
	t.Helper()
	reg := newFakeRegistry()
	s := NewServer(reg, "http://master:11311/")
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	uri, err := s.Serve(ctx, "127.0.0.1:0", "127.0.0.1")
	if err != nil {
		t.Fatalf("Serve: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	return s, reg, uri
}

func TestSlaveGetMasterURI(t *testing.T) {
	_, _, uri := startTestServer(t)
	c := xmlrpc.NewClient(uri)
	result, err := c.Call(context.Background(), "getMasterUri", "/caller")
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	env, err := xmlrpc.DecodeEnvelope(result)
	if err != nil {
		t.Fatal(err)
	}
	if env.Value != "http://master:11311/" {
		t.Errorf("value = %v", env.Value)
	}
}

func TestSlaveParamUpdate(t *testing.T) {
	_, reg, uri := startTestServer(t)
	c := xmlrpc.NewClient(uri)
	_, err := c.Call(context.Background(), "paramUpdate", "/caller", "/rate", 20)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if reg.paramUpdates["/rate"] != 20 {
		t.Errorf("paramUpdates = %v", reg.paramUpdates)
	}
}

func TestSlavePublisherUpdate(t *testing.T) {
	_, reg, uri := startTestServer(t)
	c := xmlrpc.NewClient(uri)
	_, err := c.Call(context.Background(), "publisherUpdate", "/caller", "/chatter", []any{"http://pub1:1", "http://pub2:2"})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	apis := reg.publisherUpdates["/chatter"]
	if len(apis) != 2 || apis[0] != "http://pub1:1" {
		t.Errorf("publisherUpdates = %v", apis)
	}
}

func TestSlaveRequestTopic(t *testing.T) {
	_, reg, uri := startTestServer(t)
	c := xmlrpc.NewClient(uri)
	result, err := c.Call(context.Background(), "requestTopic", "/caller", "/chatter", []any{[]any{"TCPROS"}})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	env, err := xmlrpc.DecodeEnvelope(result)
	if err != nil {
		t.Fatal(err)
	}
	proto, ok := env.Value.([]any)
	if !ok || proto[0] != "TCPROS" {
		t.Errorf("value = %v", env.Value)
	}
	if reg.requestedTopic != "/chatter" {
		t.Errorf("requestedTopic = %q", reg.requestedTopic)
	}
}

func TestSlaveGetSubscriptionsAndPublications(t *testing.T) {
	_, _, uri := startTestServer(t)
	c := xmlrpc.NewClient(uri)

	result, err := c.Call(context.Background(), "getSubscriptions", "/caller")
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	env, _ := xmlrpc.DecodeEnvelope(result)
	subs, _ := env.Value.([]any)
	if len(subs) != 1 {
		t.Errorf("subs = %v", subs)
	}

	result, err = c.Call(context.Background(), "getPublications", "/caller")
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	env, _ = xmlrpc.DecodeEnvelope(result)
	pubs, _ := env.Value.([]any)
	if len(pubs) != 1 {
		t.Errorf("pubs = %v", pubs)
	}
}
