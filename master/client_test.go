package master

import (
	"context"
	"net/http/httptest"
	"testing"

	"rosnode/xmlrpc"
)

func newFakeMaster(t *testing.T) (*httptest.Server, *xmlrpc.Server) {
	t.Helper()
	srv := xmlrpc.NewServer()
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts, srv
}

func ok(value any) any {
	return xmlrpc.EncodeEnvelope(xmlrpc.Envelope{Code: xmlrpc.StatusSuccess, Message: "ok", Value: value})
}

func TestRegisterPublisher(t *testing.T) {
	ts, srv := newFakeMaster(t)
	var gotCallerID, gotTopic, gotType, gotAPI string
	srv.Register("registerPublisher", func(args []any) (any, error) {
		gotCallerID = args[0].(string)
		gotTopic = args[1].(string)
		gotType = args[2].(string)
		gotAPI = args[3].(string)
		return ok([]any{"http://sub1:1"}), nil
	})

	c := NewClient(ts.URL, "/talker", "http://talker:9000")
	subs, err := c.RegisterPublisher(context.Background(), "/chatter", "std_msgs/String")
	if err != nil {
		t.Fatalf("RegisterPublisher: %v", err)
	}
	if gotCallerID != "/talker" || gotTopic != "/chatter" || gotType != "std_msgs/String" || gotAPI != "http://talker:9000" {
		t.Errorf("got callerID=%q topic=%q type=%q api=%q", gotCallerID, gotTopic, gotType, gotAPI)
	}
	if len(subs) != 1 || subs[0] != "http://sub1:1" {
		t.Errorf("subs = %v", subs)
	}
}

func TestLookupNodeNotFound(t *testing.T) {
	ts, srv := newFakeMaster(t)
	srv.Register("lookupNode", func(args []any) (any, error) {
		return xmlrpc.EncodeEnvelope(xmlrpc.Envelope{Code: xmlrpc.StatusFailure, Message: "unknown node", Value: ""}), nil
	})

	c := NewClient(ts.URL, "/listener", "http://listener:9001")
	_, err := c.LookupNode(context.Background(), "/nope")
	if err == nil {
		t.Fatal("expected CoordinatorError")
	}
	cerr, ok := err.(*CoordinatorError)
	if !ok {
		t.Fatalf("got %T, want *CoordinatorError", err)
	}
	if cerr.Code != xmlrpc.StatusFailure {
		t.Errorf("code = %d", cerr.Code)
	}
}

func TestGetParam(t *testing.T) {
	ts, srv := newFakeMaster(t)
	srv.Register("getParam", func(args []any) (any, error) {
		if args[1].(string) != "/rate" {
			t.Fatalf("unexpected key %v", args[1])
		}
		return ok(10), nil
	})

	c := NewClient(ts.URL, "/node", "http://node:9002")
	v, err := c.GetParam(context.Background(), "/rate")
	if err != nil {
		t.Fatalf("GetParam: %v", err)
	}
	if v != 10 {
		t.Errorf("v = %v", v)
	}
}

func TestGetPublishedTopics(t *testing.T) {
	ts, srv := newFakeMaster(t)
	srv.Register("getPublishedTopics", func(args []any) (any, error) {
		return ok([]any{
			[]any{"/chatter", "std_msgs/String"},
			[]any{"/rosout", "rosgraph_msgs/Log"},
		}), nil
	})

	c := NewClient(ts.URL, "/node", "http://node:9003")
	pairs, err := c.GetPublishedTopics(context.Background(), "")
	if err != nil {
		t.Fatalf("GetPublishedTopics: %v", err)
	}
	if len(pairs) != 2 || pairs[0][0] != "/chatter" || pairs[1][1] != "rosgraph_msgs/Log" {
		t.Errorf("pairs = %v", pairs)
	}
}
