// Command rosnode-example is a minimal talker/listener/service demo
// wired against a running coordinator, exercising Advertise, Subscribe
// and AdvertiseService end to end.
package main

import (
	"context"
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"rosnode/node"
	"rosnode/pubsub"
)

func main() {
	mode := flag.String("mode", "talker", "talker | listener | server | client")
	flag.Parse()

	n, err := node.Init("rosnode_example", os.Args[1:])
	if err != nil {
		log.Fatalf("node.Init: %v", err)
	}
	defer n.Shutdown()

	switch *mode {
	case "talker":
		runTalker(n)
	case "listener":
		runListener(n)
	case "server":
		runServer(n)
	case "client":
		runClient(n)
	default:
		log.Fatalf("unknown -mode %q", *mode)
	}
}

func runTalker(n *node.Node) {
	pub, err := n.Advertise("chatter", chatterIdentity{}, false)
	if err != nil {
		log.Fatalf("Advertise: %v", err)
	}
	defer pub.Shutdown()

	rate := n.Rate(1)
	count := 0
	for n.OK() {
		count++
		msg := &chatterMsg{Data: fmt.Sprintf("hello world %d", count)}
		if err := pub.Publish(msg); err != nil {
			log.Printf("Publish: %v", err)
		}
		if err := rate.Sleep(context.Background()); err != nil {
			return
		}
	}
}

func runListener(n *node.Node) {
	sub, err := n.Subscribe("chatter", chatterIdentity{}, 16, newChatterMsg, func(m pubsub.Decodable, callerID string) {
		log.Printf("[%s] %s", callerID, m.(*chatterMsg).Data)
	})
	if err != nil {
		log.Fatalf("Subscribe: %v", err)
	}
	defer sub.Shutdown()
	n.Spin()
}

func runServer(n *node.Node) {
	srv, err := n.AdvertiseService("add_two_ints", addTwoIntsIdentity{}, addTwoInts)
	if err != nil {
		log.Fatalf("AdvertiseService: %v", err)
	}
	defer srv.Shutdown()
	n.Spin()
}

func runClient(n *node.Node) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := n.WaitForService(ctx, "/add_two_ints", 5*time.Second); err != nil {
		log.Fatalf("WaitForService: %v", err)
	}

	client, err := n.NewServiceClient("/add_two_ints", addTwoIntsIdentity{}, false)
	if err != nil {
		log.Fatalf("NewServiceClient: %v", err)
	}
	defer client.Close()

	resp := &addTwoIntsResponse{}
	req := &addTwoIntsRequest{A: 2, B: 3}
	if err := client.Call(context.Background(), req, resp); err != nil {
		log.Fatalf("Call: %v", err)
	}
	fmt.Printf("%d + %d = %d\n", req.A, req.B, resp.Sum)
}

type chatterIdentity struct{}

func (chatterIdentity) MsgDefinition() string { return "string data" }
func (chatterIdentity) MD5Sum() string        { return "992ce8a1687cec8c8bd883ec73ca41d1" }
func (chatterIdentity) MsgType() string       { return "std_msgs/String" }

type chatterMsg struct {
	chatterIdentity
	Data string
}

func (m *chatterMsg) Encode(w io.Writer) error {
	b := []byte(m.Data)
	if err := binary.Write(w, binary.LittleEndian, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func (m *chatterMsg) Decode(r io.Reader) error {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return err
	}
	m.Data = string(b)
	return nil
}

func newChatterMsg() pubsub.Decodable { return &chatterMsg{} }

type addTwoIntsIdentity struct{}

func (addTwoIntsIdentity) MsgDefinition() string { return "int64 a\nint64 b\n---\nint64 sum" }
func (addTwoIntsIdentity) MD5Sum() string        { return "6a2e34150c00229791cc89ff309fff21" }
func (addTwoIntsIdentity) MsgType() string       { return "test_srvs/AddTwoInts" }

type addTwoIntsRequest struct{ A, B int64 }

func (r *addTwoIntsRequest) Encode(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, r.A); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, r.B)
}

func (r *addTwoIntsRequest) Decode(rd io.Reader) error {
	if err := binary.Read(rd, binary.LittleEndian, &r.A); err != nil {
		return err
	}
	return binary.Read(rd, binary.LittleEndian, &r.B)
}

type addTwoIntsResponse struct{ Sum int64 }

func (r *addTwoIntsResponse) Encode(w io.Writer) error {
	return binary.Write(w, binary.LittleEndian, r.Sum)
}

func (r *addTwoIntsResponse) Decode(rd io.Reader) error {
	return binary.Read(rd, binary.LittleEndian, &r.Sum)
}

func addTwoInts(req *addTwoIntsRequest) (*addTwoIntsResponse, error) {
	if req.A == 0 && req.B == 0 {
		return nil, errors.New("refusing to add two zeroes")
	}
	return &addTwoIntsResponse{Sum: req.A + req.B}, nil
}
