package node

import (
	"context"
	"sync"
	"testing"
	"time"

	"rosnode/pubsub"
)

func newTestNode(t *testing.T, coordinatorURI, name string) *Node {
	t.Helper()
	t.Setenv("ROS_MASTER_URI", coordinatorURI)
	t.Setenv("ROS_HOSTNAME", "127.0.0.1")
	n, err := newNode(name, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(n.Shutdown)
	return n
}

func TestPublishSubscribeEndToEnd(t *testing.T) {
	coord := newFakeCoordinator()
	defer coord.Close()

	talker := newTestNode(t, coord.URI(), "talker")
	listener := newTestNode(t, coord.URI(), "listener")

	var mu sync.Mutex
	var received string
	done := make(chan struct{}, 1)

	_, err := listener.Subscribe("chatter", stringIdentity{}, 8, newStringMsg, func(m pubsub.Decodable, callerID string) {
		mu.Lock()
		received = m.(*stringMsg).Data
		mu.Unlock()
		select {
		case done <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatal(err)
	}

	pub, err := talker.Advertise("chatter", stringIdentity{}, false)
	if err != nil {
		t.Fatal(err)
	}

	if err := pub.WaitForSubscribers(2 * time.Second); err != nil {
		t.Fatal(err)
	}

	if err := pub.Publish(&stringMsg{Data: "hello world"}); err != nil {
		t.Fatal(err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber never received the message")
	}

	mu.Lock()
	defer mu.Unlock()
	if received != "hello world" {
		t.Errorf("received = %q", received)
	}
}

func TestAdvertiseResolvesAgainstNamespace(t *testing.T) {
	coord := newFakeCoordinator()
	defer coord.Close()

	n := newTestNode(t, coord.URI(), "/robot1/talker")
	pub, err := n.Advertise("chatter", stringIdentity{}, false)
	if err != nil {
		t.Fatal(err)
	}
	if pub.Topic() != "/robot1/chatter" {
		t.Errorf("topic = %q", pub.Topic())
	}
}

func TestServiceCallEndToEnd(t *testing.T) {
	coord := newFakeCoordinator()
	defer coord.Close()

	server := newTestNode(t, coord.URI(), "adder")
	client := newTestNode(t, coord.URI(), "caller")

	_, err := server.AdvertiseService("add_two_ints", addTwoIntsIdentity{}, addTwoInts)
	if err != nil {
		t.Fatal(err)
	}

	if err := client.WaitForService(context.Background(), "/add_two_ints", time.Second); err != nil {
		t.Fatal(err)
	}

	sc, err := client.NewServiceClient("/add_two_ints", addTwoIntsIdentity{}, false)
	if err != nil {
		t.Fatal(err)
	}
	resp := &addTwoIntsResponse{}
	if err := sc.Call(context.Background(), &addTwoIntsRequest{A: 100, B: -200}, resp); err != nil {
		t.Fatal(err)
	}
	if resp.Sum != -100 {
		t.Errorf("sum = %d, want -100", resp.Sum)
	}
}

func TestWaitForServiceTimesOutWhenAbsent(t *testing.T) {
	coord := newFakeCoordinator()
	defer coord.Close()

	n := newTestNode(t, coord.URI(), "caller")
	err := n.WaitForService(context.Background(), "/nonexistent", 50*time.Millisecond)
	if err == nil {
		t.Fatal("expected TimeoutError")
	}
	if _, ok := err.(*TimeoutError); !ok {
		t.Errorf("got %T, want *TimeoutError", err)
	}
}

func TestInitRejectsSecondNode(t *testing.T) {
	coord := newFakeCoordinator()
	defer coord.Close()
	t.Setenv("ROS_MASTER_URI", coord.URI())
	t.Setenv("ROS_HOSTNAME", "127.0.0.1")

	n1, err := Init("first", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer n1.Shutdown()

	if _, err := Init("second", nil); err == nil {
		t.Fatal("expected AlreadyInitializedError")
	} else if _, ok := err.(*AlreadyInitializedError); !ok {
		t.Errorf("got %T, want *AlreadyInitializedError", err)
	}
}
